package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func resetRoot(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		SetRoot(nil)
		mu.Lock()
		categories = nil
		mu.Unlock()
	})
}

func TestGet_NoopBeforeInitialize(t *testing.T) {
	resetRoot(t)
	SetRoot(nil)

	l := Get(CategoryI18n)
	require.NotNil(t, l)
	// Must not panic or write anywhere.
	l.Warn("dropped")
}

func TestGet_NamedPerCategory(t *testing.T) {
	resetRoot(t)
	core, logs := observer.New(zap.DebugLevel)
	SetRoot(zap.New(core))

	Get(CategoryClipboard).Info("copied")
	Get(CategoryI18n).Warn("missing key")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "clipboard", entries[0].LoggerName)
	assert.Equal(t, "i18n", entries[1].LoggerName)
	assert.Same(t, Get(CategoryI18n), Get(CategoryI18n))
}

func TestInitialize_WritesToFileAndHonorsCategories(t *testing.T) {
	resetRoot(t)
	logPath := filepath.Join(t.TempDir(), "logs", "agentui.log")

	err := Initialize(Config{
		Level:      "debug",
		Format:     "json",
		File:       logPath,
		Categories: map[string]bool{"watch": false},
	})
	require.NoError(t, err)

	Get(CategoryBoot).Info("booted")
	Get(CategoryWatch).Info("should be silent")
	require.NoError(t, Sync())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.Contains(content, "booted"))
	assert.False(t, strings.Contains(content, "should be silent"))
}

func TestInitialize_RejectsBadLevelAndFormat(t *testing.T) {
	resetRoot(t)
	assert.Error(t, Initialize(Config{Level: "loud"}))
	assert.Error(t, Initialize(Config{Format: "xml"}))
}

func TestOrNop(t *testing.T) {
	resetRoot(t)
	explicit := zap.NewExample()
	assert.Same(t, explicit, OrNop(explicit, CategoryOutput))
	assert.NotNil(t, OrNop(nil, CategoryOutput))
}
