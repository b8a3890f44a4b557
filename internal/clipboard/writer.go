package clipboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	atotto "github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// ErrUnsupported is returned when no system clipboard utility is available.
var ErrUnsupported = errors.New("clipboard: no system clipboard available")

// Writer places text on a clipboard.
type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, text string) error

// WriteText calls f.
func (f WriterFunc) WriteText(ctx context.Context, text string) error { return f(ctx, text) }

// SystemWriter writes through the platform clipboard (pbcopy, xclip, xsel,
// wl-copy or the Windows API).
type SystemWriter struct{}

// WriteText implements Writer.
func (SystemWriter) WriteText(ctx context.Context, text string) error {
	if atotto.Unsupported {
		return ErrUnsupported
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := atotto.WriteAll(text); err != nil {
		return fmt.Errorf("system clipboard: %w", err)
	}
	return nil
}

// Multiplexer selects how an OSC 52 sequence is wrapped.
type Multiplexer string

const (
	MultiplexerNone   Multiplexer = ""
	MultiplexerTmux   Multiplexer = "tmux"
	MultiplexerScreen Multiplexer = "screen"
)

// OSC52Writer asks the controlling terminal to set the clipboard by
// emitting an OSC 52 escape sequence. It works over SSH where no system
// clipboard is reachable, but cannot confirm the terminal honored it.
type OSC52Writer struct {
	Out         io.Writer // nil = os.Stderr
	Multiplexer Multiplexer
}

// WriteText implements Writer.
func (w OSC52Writer) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	seq := osc52.New(text)
	switch w.Multiplexer {
	case MultiplexerTmux:
		seq = seq.Tmux()
	case MultiplexerScreen:
		seq = seq.Screen()
	case MultiplexerNone:
	default:
		return fmt.Errorf("osc52: unknown multiplexer %q", w.Multiplexer)
	}
	out := w.Out
	if out == nil {
		out = os.Stderr
	}
	if _, err := seq.WriteTo(out); err != nil {
		return fmt.Errorf("osc52: %w", err)
	}
	return nil
}

// DetectMultiplexer guesses the terminal multiplexer from the environment.
func DetectMultiplexer() Multiplexer {
	if os.Getenv("TMUX") != "" {
		return MultiplexerTmux
	}
	if term := os.Getenv("TERM"); len(term) >= 6 && term[:6] == "screen" {
		return MultiplexerScreen
	}
	return MultiplexerNone
}

var errNoWriter = errors.New("clipboard: no writer configured")
