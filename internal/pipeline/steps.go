package pipeline

import (
	"context"
	"fmt"

	"github.com/dvloznov/statement-summarizer/internal/aggregate"
	"github.com/dvloznov/statement-summarizer/internal/logger"
	"github.com/dvloznov/statement-summarizer/internal/narrative"
	"github.com/dvloznov/statement-summarizer/internal/statement"
)

// PipelineStep represents a single step in the summary pipeline.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the values passed between steps for one upload.
type PipelineState struct {
	Upload    []byte
	Rows      []statement.Row
	Labeled   []aggregate.LabeledRow
	Stats     aggregate.Stats
	Prompt    string
	Narrative string
}

// LoadStatementStep parses the uploaded workbook into rows.
type LoadStatementStep struct{}

func (s *LoadStatementStep) Execute(ctx context.Context, state *PipelineState) error {
	rows, err := statement.Load(state.Upload)
	if err != nil {
		return err
	}
	state.Rows = rows
	// The raw bytes are not needed past this point.
	state.Upload = nil

	log := logger.FromContext(ctx)
	log.Debug().Int("rows", len(rows)).Msg("Statement loaded")
	return nil
}

// LabelRowsStep attaches an execution type and amount bucket to every row.
type LabelRowsStep struct{}

func (s *LabelRowsStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Labeled = aggregate.Label(state.Rows)
	return nil
}

// AggregateStep computes counts and totals over the labeled rows.
type AggregateStep struct{}

func (s *AggregateStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Stats = aggregate.Aggregate(state.Labeled)

	log := logger.FromContext(ctx)
	log.Debug().
		Int("rows", state.Stats.Rows).
		Int("missing_amounts", state.Stats.MissingAmounts).
		Str("total_credits", state.Stats.TotalCredits.String()).
		Str("total_debits", state.Stats.TotalDebits.String()).
		Msg("Statement aggregated")
	return nil
}

// BuildPromptStep renders the narrative prompt from the statistics.
type BuildPromptStep struct {
	Currency string
}

func (s *BuildPromptStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Prompt = narrative.BuildPrompt(state.Stats, s.Currency)
	return nil
}

// NarrateStep asks the narrator for the summary text.
type NarrateStep struct {
	Narrator narrative.Narrator
}

func (s *NarrateStep) Execute(ctx context.Context, state *PipelineState) error {
	text, err := s.Narrator.Narrate(ctx, state.Prompt)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	state.Narrative = text
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps sequentially and stops at the first error.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewSummaryPipeline creates the standard five-step pipeline for one upload.
func NewSummaryPipeline(narrator narrative.Narrator, currency string) *Pipeline {
	return NewPipeline(
		&LoadStatementStep{},
		&LabelRowsStep{},
		&AggregateStep{},
		&BuildPromptStep{Currency: currency},
		&NarrateStep{Narrator: narrator},
	)
}
