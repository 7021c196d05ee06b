// Package classify maps transaction descriptions and amounts onto fixed labels.
package classify

import (
	"strings"

	"github.com/shopspring/decimal"
)

// rule assigns label when the lowercased description contains any keyword.
type rule struct {
	keywords []string
	label    ExecutionType
}

// executionRules are evaluated top to bottom; the first match wins.
var executionRules = []rule{
	{keywords: []string{"upi"}, label: UPI},
	{keywords: []string{"neft"}, label: NEFT},
	{keywords: []string{"rtgs"}, label: RTGS},
	{keywords: []string{"imps"}, label: IMPS},
	{keywords: []string{"cash", "atm", "deposit"}, label: CashDeposit},
	{keywords: []string{"pos", "card"}, label: CardPOS},
}

// ClassifyTransaction returns the execution type for a free-text description.
// Matching is case-insensitive substring search; descriptions that match no
// rule, including empty ones, are Other.
func ClassifyTransaction(description string) ExecutionType {
	d := strings.ToLower(description)
	for _, r := range executionRules {
		for _, kw := range r.keywords {
			if strings.Contains(d, kw) {
				return r.label
			}
		}
	}
	return Other
}

var (
	mediumFloor      = decimal.NewFromInt(1000)
	largeFloor       = decimal.NewFromInt(10000)
	significantFloor = decimal.NewFromInt(50000)
)

// ClassifyAmount returns the bucket for a non-negative magnitude.
// Callers pass the absolute value of the signed amount.
func ClassifyAmount(magnitude decimal.Decimal) AmountBucket {
	switch {
	case magnitude.LessThan(mediumFloor):
		return Small
	case magnitude.LessThan(largeFloor):
		return Medium
	case magnitude.LessThan(significantFloor):
		return Large
	default:
		return Significant
	}
}
