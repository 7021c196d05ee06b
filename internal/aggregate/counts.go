package aggregate

import (
	"sort"

	"github.com/dvloznov/statement-summarizer/internal/classify"
)

// ExecutionCounts is a dense counter indexed by execution type.
type ExecutionCounts [classify.NumExecutionTypes]int

// Map returns the non-zero counts keyed by label.
func (c ExecutionCounts) Map() map[string]int {
	m := make(map[string]int)
	for _, t := range classify.ExecutionTypes {
		if c[t] > 0 {
			m[t.String()] = c[t]
		}
	}
	return m
}

// Total is the number of rows counted.
func (c ExecutionCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Ranked returns non-zero entries by descending count, ties in priority order.
func (c ExecutionCounts) Ranked() []Count {
	var out []Count
	for _, t := range classify.ExecutionTypes {
		if c[t] > 0 {
			out = append(out, Count{Label: t.String(), N: c[t]})
		}
	}
	sortRanked(out)
	return out
}

// BucketCounts is a dense counter indexed by amount bucket.
type BucketCounts [classify.NumAmountBuckets]int

// Map returns the non-zero counts keyed by label.
func (c BucketCounts) Map() map[string]int {
	m := make(map[string]int)
	for _, b := range classify.AmountBuckets {
		if c[b] > 0 {
			m[b.String()] = c[b]
		}
	}
	return m
}

// Total is the number of rows counted.
func (c BucketCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Ranked returns non-zero entries by descending count, ties smallest bucket first.
func (c BucketCounts) Ranked() []Count {
	var out []Count
	for _, b := range classify.AmountBuckets {
		if c[b] > 0 {
			out = append(out, Count{Label: b.String(), N: c[b]})
		}
	}
	sortRanked(out)
	return out
}

// Count is one label with its number of rows.
type Count struct {
	Label string
	N     int
}

func sortRanked(cs []Count) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].N > cs[j].N })
}
