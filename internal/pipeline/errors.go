package pipeline

import (
	"errors"

	"github.com/dvloznov/statement-summarizer/internal/statement"
)

var (
	// ErrInvalidInput marks uploads that are not usable statements:
	// unreadable bytes or missing required columns.
	ErrInvalidInput = statement.ErrInvalidInput

	// ErrUpstream marks failures of the narrative-generation service.
	ErrUpstream = errors.New("upstream dependency")
)
