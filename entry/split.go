package entry

import "github.com/xraph/tally/types"

// Split divides a balance into count installment amounts that sum back
// to the balance exactly. Integer division leaves a remainder of at most
// count-1 minor units; the first count-remainder amounts receive the
// truncated base and the trailing remainder amounts receive one extra
// unit each.
//
// This distribution is a fixed business rule: changing it would silently
// alter observable totals on regenerated schedules for existing
// documents.
func Split(balance types.Money, count int) ([]types.Money, error) {
	if count <= 0 {
		return nil, ErrInvalidCount
	}
	if balance.IsNegative() {
		return nil, ErrInvalidBalance
	}

	total := balance.Amount
	base := total / int64(count)
	remainder := total % int64(count)

	amounts := make([]types.Money, count)
	threshold := int64(count) - remainder
	for i := range amounts {
		amount := base
		if int64(i) >= threshold {
			amount++
		}
		amounts[i] = types.Money{Amount: amount, Currency: balance.Currency}
	}

	return amounts, nil
}
