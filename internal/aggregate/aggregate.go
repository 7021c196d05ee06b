// Package aggregate turns labeled statement rows into summary statistics.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/dvloznov/statement-summarizer/internal/classify"
	"github.com/dvloznov/statement-summarizer/internal/statement"
)

// LabeledRow is a statement row with its derived labels attached.
type LabeledRow struct {
	statement.Row
	ExecutionType classify.ExecutionType
	AmountBucket  classify.AmountBucket
}

// Label classifies every row. Rows without a numeric amount still get an
// execution type and land in the Unknown bucket.
func Label(rows []statement.Row) []LabeledRow {
	out := make([]LabeledRow, len(rows))
	for i, r := range rows {
		out[i] = LabeledRow{
			Row:           r,
			ExecutionType: classify.ClassifyTransaction(r.Description),
			AmountBucket:  bucketFor(r.Amount),
		}
	}
	return out
}

func bucketFor(amount decimal.NullDecimal) classify.AmountBucket {
	if !amount.Valid {
		return classify.Unknown
	}
	return classify.ClassifyAmount(amount.Decimal.Abs())
}

// Stats holds the aggregate view of one statement.
type Stats struct {
	Rows           int
	MissingAmounts int
	ExecutionTypes ExecutionCounts
	AmountBuckets  BucketCounts
	// TotalCredits is the sum of strictly positive amounts.
	TotalCredits decimal.Decimal
	// TotalDebits is the sum of strictly negative amounts.
	TotalDebits decimal.Decimal
}

// Aggregate computes counts and signed sums over labeled rows.
func Aggregate(rows []LabeledRow) Stats {
	s := Stats{
		Rows:         len(rows),
		TotalCredits: decimal.Zero,
		TotalDebits:  decimal.Zero,
	}

	for _, r := range rows {
		s.ExecutionTypes[r.ExecutionType]++
		s.AmountBuckets[r.AmountBucket]++

		if !r.Amount.Valid {
			s.MissingAmounts++
			continue
		}
		switch r.Amount.Decimal.Sign() {
		case 1:
			s.TotalCredits = s.TotalCredits.Add(r.Amount.Decimal)
		case -1:
			s.TotalDebits = s.TotalDebits.Add(r.Amount.Decimal)
		}
	}

	return s
}

// Compute is Label followed by Aggregate.
func Compute(rows []statement.Row) Stats {
	return Aggregate(Label(rows))
}
