// Package clipboard copies rendered documents to the user's clipboard with
// a two-step fallback: the platform clipboard first, then a terminal escape
// sequence.
package clipboard

import (
	"context"

	"agentui/internal/logging"

	"go.uber.org/zap"
)

// Exporter copies text using a primary writer and, when that fails, a
// fallback writer. It is safe for concurrent use if its writers are.
type Exporter struct {
	primary  Writer
	fallback Writer
	logger   *zap.Logger
}

// New creates an Exporter. Either writer may be nil, in which case that
// step counts as failed.
func New(primary, fallback Writer, logger *zap.Logger) *Exporter {
	return &Exporter{
		primary:  primary,
		fallback: fallback,
		logger:   logging.OrNop(logger, logging.CategoryClipboard),
	}
}

// NewDefault wires the system clipboard with an OSC 52 fallback written to
// the terminal.
func NewDefault(logger *zap.Logger) *Exporter {
	return New(SystemWriter{}, OSC52Writer{Multiplexer: DetectMultiplexer()}, logger)
}

// Copy writes content and reports whether either step succeeded. It never
// returns an error; failures are logged. A cancelled context aborts the
// primary step and the fallback is still attempted.
func (e *Exporter) Copy(ctx context.Context, content string) bool {
	err := e.write(ctx, e.primary, content)
	if err == nil {
		e.logger.Debug("copied to clipboard", zap.Int("bytes", len(content)))
		return true
	}
	e.logger.Debug("primary clipboard write failed, trying fallback", zap.Error(err))

	// The fallback runs even when ctx is already done.
	fbErr := e.write(context.WithoutCancel(ctx), e.fallback, content)
	if fbErr == nil {
		e.logger.Debug("copied via fallback", zap.Int("bytes", len(content)))
		return true
	}
	e.logger.Error("failed to copy to clipboard",
		zap.NamedError("primary", err),
		zap.NamedError("fallback", fbErr))
	return false
}

// write runs w off the calling goroutine so a hung clipboard utility cannot
// outlive ctx.
func (e *Exporter) write(ctx context.Context, w Writer, content string) error {
	if w == nil {
		return errNoWriter
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- w.WriteText(ctx, content) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
