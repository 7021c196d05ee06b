// Package pipeline turns an uploaded statement into a narrated summary.
package pipeline

import (
	"context"
	"errors"

	"github.com/dvloznov/statement-summarizer/internal/aggregate"
	"github.com/dvloznov/statement-summarizer/internal/narrative"
)

// Summary is the combined result returned to callers.
type Summary struct {
	Summary        string         `json:"summary"`
	ExecutionTypes map[string]int `json:"execution_types"`
	AmountBuckets  map[string]int `json:"amount_buckets"`
	TotalCredits   float64        `json:"total_credits"`
	TotalDebits    float64        `json:"total_debits"`
	Rows           int            `json:"rows"`
	MissingAmounts int            `json:"missing_amounts"`

	Stats   aggregate.Stats        `json:"-"`
	Labeled []aggregate.LabeledRow `json:"-"`
}

// Summarizer runs the summary pipeline for each upload. It keeps no state
// between calls and is safe for concurrent use if its Narrator is.
type Summarizer struct {
	narrator narrative.Narrator
	currency string
}

// NewSummarizer creates a Summarizer. An empty currency uses the default symbol.
func NewSummarizer(narrator narrative.Narrator, currency string) *Summarizer {
	if currency == "" {
		currency = narrative.DefaultCurrencySymbol
	}
	return &Summarizer{narrator: narrator, currency: currency}
}

// Summarize loads, classifies and aggregates the workbook in data, then asks
// the narrator for a summary.
//
// Errors wrap ErrInvalidInput or ErrUpstream. On ErrUpstream the returned
// Summary still carries the aggregates with an empty narrative.
func (s *Summarizer) Summarize(ctx context.Context, data []byte) (*Summary, error) {
	state := &PipelineState{Upload: data}

	err := NewSummaryPipeline(s.narrator, s.currency).Execute(ctx, state)
	if err != nil && !errors.Is(err, ErrUpstream) {
		return nil, err
	}

	return newSummary(state), err
}

func newSummary(state *PipelineState) *Summary {
	return &Summary{
		Summary:        state.Narrative,
		ExecutionTypes: state.Stats.ExecutionTypes.Map(),
		AmountBuckets:  state.Stats.AmountBuckets.Map(),
		TotalCredits:   state.Stats.TotalCredits.InexactFloat64(),
		TotalDebits:    state.Stats.TotalDebits.InexactFloat64(),
		Rows:           state.Stats.Rows,
		MissingAmounts: state.Stats.MissingAmounts,
		Stats:          state.Stats,
		Labeled:        state.Labeled,
	}
}
