// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas in the DSN apply to every pooled connection, not just the first
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateBill persists a new bill and its participants.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	// Generate IDs if not set
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}
	if bill.Kind == "" {
		bill.Kind = models.BillKindPurchase
	}
	if bill.Title == "" {
		bill.Title = generateTitle(bill.Kind, bill.Participants)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bills (id, group_id, kind, title, payer_id, total_cost, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, nullString(bill.GroupID), string(bill.Kind), bill.Title, bill.PayerID,
		bill.TotalCost.String(), bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for i, participant := range bill.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO bill_participants (bill_id, position, participant) VALUES (?, ?, ?)",
			bill.ID, i, participant,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBill retrieves a bill by ID, including its participants.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, group_id, kind, title, payer_id, total_cost, created_at
		 FROM bills WHERE id = ?`,
		billID,
	)
	bill, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	if bill.Participants, err = s.participants(ctx, bill.ID); err != nil {
		return nil, err
	}

	return bill, nil
}

// ListBills retrieves the bills matching the filter, oldest first.
func (s *SQLiteStore) ListBills(ctx context.Context, filter storage.BillFilter) ([]*models.Bill, error) {
	where, args := filter.Where()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, kind, title, payer_id, total_cost, created_at
		 FROM bills WHERE `+where+` ORDER BY created_at, id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	var bills []*models.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	// Participants are loaded after the bill cursor is closed
	for _, bill := range bills {
		if bill.Participants, err = s.participants(ctx, bill.ID); err != nil {
			return nil, err
		}
	}

	return bills, nil
}

// DeleteBill removes a bill and its participants.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted bill: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bill %s: %w", billID, storage.ErrNotFound)
	}

	return nil
}

func (s *SQLiteStore) participants(ctx context.Context, billID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT participant FROM bill_participants WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (*models.Bill, error) {
	bill := &models.Bill{}
	var groupID sql.NullString
	var kind string
	if err := row.Scan(&bill.ID, &groupID, &kind, &bill.Title, &bill.PayerID,
		&bill.TotalCost, &bill.CreatedAt); err != nil {
		return nil, err
	}
	bill.GroupID = groupID.String
	bill.Kind = models.BillKind(kind)
	return bill, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// generateTitle creates an auto-generated title from the bill kind and participants.
func generateTitle(kind models.BillKind, participants []string) string {
	label := strings.ToUpper(string(kind[:1])) + string(kind[1:])
	if len(participants) == 0 {
		return fmt.Sprintf("%s - %s", label, time.Now().Format("Jan 2, 2006"))
	}
	if len(participants) <= 3 {
		return fmt.Sprintf("%s with %s", label, strings.Join(participants, ", "))
	}
	return fmt.Sprintf("%s with %s and %d others",
		label,
		strings.Join(participants[:2], ", "),
		len(participants)-2,
	)
}
