package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBillFilterWhere(t *testing.T) {
	tests := []struct {
		name     string
		filter   BillFilter
		wantCond string
		wantArgs []any
	}{
		{
			name:     "open filter",
			filter:   BillFilter{},
			wantCond: "1 = 1",
		},
		{
			name:     "group only",
			filter:   BillFilter{GroupID: "g1"},
			wantCond: "1 = 1 AND group_id = ?",
			wantArgs: []any{"g1"},
		},
		{
			name:     "period only",
			filter:   BillFilter{From: 10, To: 20},
			wantCond: "1 = 1 AND created_at >= ? AND created_at < ?",
			wantArgs: []any{int64(10), int64(20)},
		},
		{
			name:     "everything",
			filter:   BillFilter{GroupID: "g1", From: 10, To: 20},
			wantCond: "1 = 1 AND group_id = ? AND created_at >= ? AND created_at < ?",
			wantArgs: []any{"g1", int64(10), int64(20)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, args := tt.filter.Where()
			assert.Equal(t, tt.wantCond, cond)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
