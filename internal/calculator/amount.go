package calculator

import "github.com/shopspring/decimal"

// AmountEpsilon is the tolerance used when comparing monetary amounts.
// Two totals closer than one billionth of a currency unit are considered equal,
// and a remaining debt below it is considered settled.
var AmountEpsilon = decimal.New(1, -9)

// AmountsEqual reports whether a and b differ by less than AmountEpsilon.
func AmountsEqual(a, b decimal.Decimal) bool {
	return isNegligible(a.Sub(b))
}

func isNegligible(amount decimal.Decimal) bool {
	return amount.Abs().LessThan(AmountEpsilon)
}

func sumDebtBills(entries []DebtBill) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}
