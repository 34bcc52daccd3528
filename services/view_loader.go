package services

import (
	"context"
	"log/slog"

	"github.com/mga-portal/database"
)

// CollectionReader is the query side a ViewLoader wraps
type CollectionReader[T any] interface {
	FindAll(ctx context.Context) database.Result[T]
	Source() string
}

// ViewLoader runs one ordered query and applies the fail-soft policy: any
// failure is logged and turned into an empty collection.
type ViewLoader[T any] struct {
	reader CollectionReader[T]
	logger *slog.Logger
}

// NewViewLoader creates a loader over reader. A nil logger uses slog.Default.
func NewViewLoader[T any](reader CollectionReader[T], logger *slog.Logger) *ViewLoader[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewLoader[T]{reader: reader, logger: logger}
}

// Fetch runs the query and returns the raw result, failure included
func (l *ViewLoader[T]) Fetch(ctx context.Context) database.Result[T] {
	return l.reader.FindAll(ctx)
}

// Load runs the query and never fails. The returned slice is never nil.
func (l *ViewLoader[T]) Load(ctx context.Context) []T {
	result := l.Fetch(ctx)
	if !result.OK() {
		l.logFailure(ctx, result.Failure)
	}
	return result.OrEmpty()
}

func (l *ViewLoader[T]) logFailure(ctx context.Context, failure *database.Failure) {
	attrs := []any{
		"source", l.reader.Source(),
		"error", failure.Error(),
	}
	if failure.Status != 0 {
		attrs = append(attrs, "status", failure.Status)
	}
	if failure.Code != "" {
		attrs = append(attrs, "code", failure.Code)
	}
	if failure.Details != "" {
		attrs = append(attrs, "details", failure.Details)
	}
	if failure.Hint != "" {
		attrs = append(attrs, "hint", failure.Hint)
	}
	l.logger.ErrorContext(ctx, "error fetching collection, serving empty result", attrs...)
}
