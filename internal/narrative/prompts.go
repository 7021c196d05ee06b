package narrative

import (
	"fmt"
	"strings"

	"github.com/dvloznov/statement-summarizer/internal/aggregate"
)

// BuildPrompt embeds the statement statistics in the instruction sent to the model.
// Totals are rendered with two decimals behind currency.
func BuildPrompt(stats aggregate.Stats, currency string) string {
	var b strings.Builder

	b.WriteString("The client has uploaded a bank statement. Here are the stats:\n")
	fmt.Fprintf(&b, "- Total Credits: %s%s\n", currency, stats.TotalCredits.StringFixed(2))
	fmt.Fprintf(&b, "- Total Debits: %s%s\n", currency, stats.TotalDebits.StringFixed(2))
	fmt.Fprintf(&b, "- Execution Types: %s\n", formatCounts(stats.ExecutionTypes.Ranked()))
	fmt.Fprintf(&b, "- Amount Categories: %s\n", formatCounts(stats.AmountBuckets.Ranked()))
	fmt.Fprintf(&b, "- Transactions: %d\n", stats.Rows)
	if stats.MissingAmounts > 0 {
		fmt.Fprintf(&b, "- Rows without a readable amount: %d (not included in totals)\n", stats.MissingAmounts)
	}

	b.WriteString("\nAmount categories: Small is under 1,000, Medium 1,000 to 10,000, ")
	b.WriteString("Large 10,000 to 50,000, Significant 50,000 and above.\n\n")
	b.WriteString("Generate a brief summary for a Chartered Accountant preparing ITR.\n")

	return b.String()
}

func formatCounts(counts []aggregate.Count) string {
	if len(counts) == 0 {
		return "none"
	}
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s: %d", c.Label, c.N)
	}
	return strings.Join(parts, ", ")
}
