package report

import "github.com/xraph/tally/types"

// Summarize aggregates flattened installment rows into header totals.
//
// Document value and discount live on the entry, so they are summed
// once per distinct entry; paid amount and outstanding balance live on
// the row, so they are summed once per row. Collapsing that distinction
// inflates the entry-level totals by a factor of the installment count,
// which is exactly the mistake this function exists to prevent.
//
// Rows are assumed to share one currency; an empty input yields a zero
// summary in BRL.
func Summarize(rows []Row) Summary {
	currency := "brl"
	if len(rows) > 0 {
		currency = rows[0].ExpectedAmount.Currency
	}

	s := Summary{
		Currency:      currency,
		Rows:          len(rows),
		DocumentTotal: types.Zero(currency),
		DiscountTotal: types.Zero(currency),
		PaidTotal:     types.Zero(currency),
		BalanceTotal:  types.Zero(currency),
	}

	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		key := row.EntryID.String()
		if !seen[key] {
			seen[key] = true
			s.Entries++
			s.DocumentTotal = s.DocumentTotal.Add(row.DocumentValue)
			s.DiscountTotal = s.DiscountTotal.Add(row.Discount)
		}

		s.PaidTotal = s.PaidTotal.Add(row.PaidAmount)
		s.BalanceTotal = s.BalanceTotal.Add(row.ExpectedAmount.SubtractClamped(row.PaidAmount))
	}

	return s
}
