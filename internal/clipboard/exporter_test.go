package clipboard

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	got []string
	err error
}

func (r *recorder) WriteText(_ context.Context, text string) error {
	if r.err != nil {
		return r.err
	}
	r.got = append(r.got, text)
	return nil
}

func TestCopy_PrimarySucceeds(t *testing.T) {
	primary, fallback := &recorder{}, &recorder{}
	e := New(primary, fallback, zap.NewNop())

	assert.True(t, e.Copy(context.Background(), "doc"))
	assert.Equal(t, []string{"doc"}, primary.got)
	assert.Empty(t, fallback.got)
}

func TestCopy_FallsBackOnPrimaryError(t *testing.T) {
	primary := &recorder{err: errors.New("xclip not found")}
	fallback := &recorder{}
	e := New(primary, fallback, zap.NewNop())

	assert.True(t, e.Copy(context.Background(), "doc"))
	assert.Equal(t, []string{"doc"}, fallback.got)
}

func TestCopy_BothFailReturnsFalseAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e := New(&recorder{err: errors.New("a")}, &recorder{err: errors.New("b")}, zap.New(core))

	assert.False(t, e.Copy(context.Background(), "doc"))
	entries := logs.FilterMessage("failed to copy to clipboard").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "a", entries[0].ContextMap()["primary"])
	assert.Equal(t, "b", entries[0].ContextMap()["fallback"])
}

func TestCopy_NilWritersFail(t *testing.T) {
	e := New(nil, nil, nil)
	assert.False(t, e.Copy(context.Background(), "doc"))
}

func TestCopy_CancelledPrimaryUsesFallback(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	hung := WriterFunc(func(ctx context.Context, _ string) error {
		close(started)
		<-release
		return nil
	})
	fallback := &recorder{}
	e := New(hung, fallback, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	assert.True(t, e.Copy(ctx, "doc"))
	assert.Equal(t, []string{"doc"}, fallback.got)
	close(release)
	// Let the abandoned write return before goleak checks.
	time.Sleep(10 * time.Millisecond)
}

func TestCopy_AlreadyCancelledSkipsPrimary(t *testing.T) {
	primary, fallback := &recorder{}, &recorder{}
	e := New(primary, fallback, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, e.Copy(ctx, "doc"))
	assert.Empty(t, primary.got)
	assert.Equal(t, []string{"doc"}, fallback.got)
}

func TestOSC52Writer(t *testing.T) {
	var buf bytes.Buffer
	w := OSC52Writer{Out: &buf}
	require.NoError(t, w.WriteText(context.Background(), "hi"))
	// base64("hi") == "aGk="
	assert.Equal(t, "\x1b]52;c;aGk=\x07", buf.String())

	buf.Reset()
	w.Multiplexer = MultiplexerTmux
	require.NoError(t, w.WriteText(context.Background(), "hi"))
	assert.True(t, strings.HasPrefix(buf.String(), "\x1bPtmux;"))

	w.Multiplexer = "zellij"
	assert.Error(t, w.WriteText(context.Background(), "hi"))
}

func TestDetectMultiplexer(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM", "screen-256color")
	assert.Equal(t, MultiplexerScreen, DetectMultiplexer())

	t.Setenv("TMUX", "/tmp/tmux-1000/default,1,0")
	assert.Equal(t, MultiplexerTmux, DetectMultiplexer())

	t.Setenv("TMUX", "")
	t.Setenv("TERM", "xterm-256color")
	assert.Equal(t, MultiplexerNone, DetectMultiplexer())
}
