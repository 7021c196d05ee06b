package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/dvloznov/statement-summarizer/internal/aggregate"
	"github.com/dvloznov/statement-summarizer/internal/classify"
	"github.com/dvloznov/statement-summarizer/internal/config"
	"github.com/dvloznov/statement-summarizer/internal/logger"
	"github.com/dvloznov/statement-summarizer/internal/narrative"
	"github.com/dvloznov/statement-summarizer/internal/pipeline"
	"github.com/dvloznov/statement-summarizer/internal/source"
)

// newRootCommand creates the root CLI command with all subcommands registered.
func newRootCommand() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "statement",
		Short: "Classify and summarize bank statement spreadsheets",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (defaults to LOG_LEVEL or info)")

	rootCmd.AddCommand(
		newSummarizeCommand(&logLevel),
		newClassifyCommand(),
		newBucketCommand(),
	)

	return rootCmd
}

func newSummarizeCommand(logLevel *string) *cobra.Command {
	var (
		filePath    string
		gcsURI      string
		noNarrative bool
		withRows    bool
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize a statement workbook from disk or GCS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			level := cfg.LogLevel
			if *logLevel != "" {
				level = *logLevel
			}
			ref := filePath
			if gcsURI != "" {
				ref = gcsURI
			}

			log := logger.WithFields(logger.NewConsole(cmd.ErrOrStderr(), level), map[string]interface{}{
				"statement": source.Filename(ref),
			})

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			ctx = logger.WithContext(ctx, log)

			return runSummarize(ctx, cmd, cfg, log, ref, noNarrative, withRows)
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "path to a local .xlsx statement")
	cmd.Flags().StringVar(&gcsURI, "gcs-uri", "", "gs://bucket/object of an .xlsx statement")
	cmd.Flags().BoolVar(&noNarrative, "no-narrative", false, "skip the language model and print aggregates only")
	cmd.Flags().BoolVar(&withRows, "rows", false, "include per-row labels in the output")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall time limit")
	cmd.MarkFlagsMutuallyExclusive("file", "gcs-uri")
	cmd.MarkFlagsOneRequired("file", "gcs-uri")

	return cmd
}

// rowOutput is one labeled transaction in --rows output.
type rowOutput struct {
	Description   string                 `json:"description"`
	Amount        decimal.NullDecimal    `json:"amount"`
	RawAmount     string                 `json:"raw_amount,omitempty"`
	ExecutionType classify.ExecutionType `json:"execution_type"`
	AmountBucket  classify.AmountBucket  `json:"amount_bucket"`
}

type summarizeOutput struct {
	*pipeline.Summary
	Transactions []rowOutput `json:"transactions,omitempty"`
}

func runSummarize(ctx context.Context, cmd *cobra.Command, cfg *config.Config, log zerolog.Logger, ref string, noNarrative, withRows bool) error {
	var narrator narrative.Narrator = narrative.Static("")
	if !noNarrative {
		if !cfg.NarrativeEnabled() {
			return errors.New("GEMINI_API_KEY is not set (use --no-narrative for aggregates only)")
		}
		n, err := narrative.NewGeminiNarrator(ctx, narrative.GeminiConfig{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			Temperature: cfg.Temperature,
		})
		if err != nil {
			return err
		}
		narrator = n
	}

	log.Info().Str("source", ref).Msg("Reading statement")

	data, err := source.Open(ctx, ref, source.CredentialsOptions(cfg.GCSCredentialsFile)...)
	if err != nil {
		return err
	}

	summary, err := pipeline.NewSummarizer(narrator, cfg.CurrencySymbol).Summarize(ctx, data)
	if summary == nil {
		return fmt.Errorf("summarize %s: %w", source.Filename(ref), err)
	}

	out := summarizeOutput{Summary: summary}
	if withRows {
		out.Transactions = toRowOutput(summary.Labeled)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if encErr := enc.Encode(out); encErr != nil {
		return fmt.Errorf("writing output: %w", encErr)
	}

	if err != nil {
		// Aggregates were printed; the narrative is what failed.
		return fmt.Errorf("summarize %s: %w", source.Filename(ref), err)
	}
	return nil
}

func toRowOutput(rows []aggregate.LabeledRow) []rowOutput {
	out := make([]rowOutput, len(rows))
	for i, r := range rows {
		out[i] = rowOutput{
			Description:   r.Description,
			Amount:        r.Amount,
			ExecutionType: r.ExecutionType,
			AmountBucket:  r.AmountBucket,
		}
		// The cell text only adds information when it did not parse.
		if !r.Amount.Valid {
			out[i].RawAmount = r.RawAmount
		}
	}
	return out
}

func newClassifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classify DESCRIPTION...",
		Short: "Print the execution type of each transaction description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, desc := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", classify.ClassifyTransaction(desc), desc)
			}
			return nil
		},
	}
}

func newBucketCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bucket AMOUNT...",
		Short: "Print the amount bucket of each amount's magnitude",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, raw := range args {
				amount, err := decimal.NewFromString(strings.TrimSpace(raw))
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", raw, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", classify.ClassifyAmount(amount.Abs()), raw)
			}
			return nil
		},
		// Debits start with "-" and must not be read as shorthand flags.
		DisableFlagParsing: true,
	}
}
