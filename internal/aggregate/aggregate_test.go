package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/statement-summarizer/internal/classify"
	"github.com/dvloznov/statement-summarizer/internal/statement"
)

func row(desc, amount string) statement.Row {
	return statement.Row{
		Description: desc,
		Amount:      statement.CoerceAmount(amount),
		RawAmount:   amount,
	}
}

func TestCompute_ReferenceStatement(t *testing.T) {
	stats := Compute([]statement.Row{
		row("UPI payment to John", "500"),
		row("NEFT transfer", "-15000"),
		row("ATM withdrawal", "-2000"),
		row("random note", "75000"),
	})

	assert.Equal(t, map[string]int{"UPI": 1, "NEFT": 1, "Cash/Deposit": 1, "Other": 1}, stats.ExecutionTypes.Map())
	assert.Equal(t, map[string]int{"Small": 1, "Large": 1, "Medium": 1, "Significant": 1}, stats.AmountBuckets.Map())
	assert.Equal(t, "75500", stats.TotalCredits.String())
	assert.Equal(t, "-17000", stats.TotalDebits.String())
	assert.Equal(t, 4, stats.Rows)
	assert.Zero(t, stats.MissingAmounts)
}

func TestCompute_MissingAmountsGoToUnknown(t *testing.T) {
	stats := Compute([]statement.Row{
		row("UPI collect", "abc"),
		row("card swipe", ""),
		row("deposit", "1200"),
	})

	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 2, stats.MissingAmounts)
	assert.Equal(t, map[string]int{"Unknown": 2, "Medium": 1}, stats.AmountBuckets.Map())
	assert.Equal(t, map[string]int{"UPI": 1, "Card/POS": 1, "Cash/Deposit": 1}, stats.ExecutionTypes.Map())
	assert.Equal(t, "1200", stats.TotalCredits.String())
	assert.True(t, stats.TotalDebits.IsZero())
}

func TestCompute_CountsPartitionRows(t *testing.T) {
	rows := []statement.Row{
		row("upi", "1"), row("neft", "-1"), row("rtgs", "x"), row("imps", "0"),
		row("cash", "100000"), row("pos", "-99999.5"), row("", "10"), row("other", ""),
	}
	stats := Compute(rows)

	assert.Equal(t, len(rows), stats.ExecutionTypes.Total())
	assert.Equal(t, len(rows), stats.AmountBuckets.Total())
	assert.False(t, stats.TotalCredits.IsNegative())
	assert.False(t, stats.TotalDebits.IsPositive())
}

func TestCompute_ZeroAmountIsNeitherCreditNorDebit(t *testing.T) {
	stats := Compute([]statement.Row{row("reversal", "0")})

	assert.True(t, stats.TotalCredits.IsZero())
	assert.True(t, stats.TotalDebits.IsZero())
	assert.Equal(t, map[string]int{"Small": 1}, stats.AmountBuckets.Map())
}

func TestCompute_Empty(t *testing.T) {
	stats := Compute(nil)

	assert.Zero(t, stats.Rows)
	assert.Empty(t, stats.ExecutionTypes.Map())
	assert.Empty(t, stats.AmountBuckets.Map())
	assert.True(t, stats.TotalCredits.Equal(decimal.Zero))
	assert.True(t, stats.TotalDebits.Equal(decimal.Zero))
}

func TestCompute_Deterministic(t *testing.T) {
	rows := []statement.Row{row("UPI", "0.1"), row("UPI", "0.2"), row("NEFT", "-0.3")}
	assert.Equal(t, Compute(rows), Compute(rows))
	assert.Equal(t, "0.3", Compute(rows).TotalCredits.String())
}

func TestLabel(t *testing.T) {
	labeled := Label([]statement.Row{row("Cash POS purchase", "-450"), row("IMPS", "n/a")})
	require.Len(t, labeled, 2)

	assert.Equal(t, classify.CashDeposit, labeled[0].ExecutionType)
	assert.Equal(t, classify.Small, labeled[0].AmountBucket)
	assert.Equal(t, classify.IMPS, labeled[1].ExecutionType)
	assert.Equal(t, classify.Unknown, labeled[1].AmountBucket)
	assert.Equal(t, "Cash POS purchase", labeled[0].Description)
}

func TestRanked(t *testing.T) {
	stats := Compute([]statement.Row{
		row("neft", "5"), row("upi", "5"), row("upi", "5000"), row("other", "60000"),
	})

	assert.Equal(t, []Count{{"UPI", 2}, {"NEFT", 1}, {"Other", 1}}, stats.ExecutionTypes.Ranked())
	assert.Equal(t, []Count{{"Small", 2}, {"Medium", 1}, {"Significant", 1}}, stats.AmountBuckets.Ranked())
}
