package config

import (
	"os"
	"path/filepath"
	"testing"

	"agentui/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"AGENTUI_LOCALE", "AGENTUI_TRANSLATE_OUTPUT", "AGENTUI_LEVEL", "AGENTUI_DB", "AGENTUI_DEBUGGER_URL"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "en", cfg.I18n.Locale)
	assert.False(t, cfg.I18n.TranslateOutput)
	assert.Equal(t, types.LevelStandard, cfg.OutputLevel())
	assert.True(t, cfg.Clipboard.Fallback)
	assert.Equal(t, filepath.Join(".agentui", "session.db"), cfg.Session.DatabasePath)
	assert.True(t, cfg.Browser.Headless)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.I18n.Locale = "zh-CN"
	cfg.I18n.TranslateOutput = true
	cfg.Output.Level = "forensic"
	cfg.Output.Environment.URL = "https://example.com/app"
	cfg.Logging.Categories = map[string]bool{"browser": false}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, loaded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
	assert.Equal(t, types.LevelForensic, loaded.OutputLevel())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("i18n:\n  locale: zh-CN\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "zh-CN", cfg.I18n.Locale)
	assert.Equal(t, "standard", cfg.Output.Level)
	assert.Equal(t, 1440, cfg.Output.Environment.ViewportWidth)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("i18n: [\n"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("AGENTUI_LOCALE", "zh-CN")
	t.Setenv("AGENTUI_TRANSLATE_OUTPUT", "true")
	t.Setenv("AGENTUI_LEVEL", "compact")
	t.Setenv("AGENTUI_DB", "/tmp/x.db")
	t.Setenv("AGENTUI_DEBUGGER_URL", "ws://127.0.0.1:9222/devtools/browser/abc")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "zh-CN", cfg.I18n.Locale)
	assert.True(t, cfg.I18n.TranslateOutput)
	assert.Equal(t, types.LevelCompact, cfg.OutputLevel())
	assert.Equal(t, "/tmp/x.db", cfg.Session.DatabasePath)
	assert.Equal(t, "ws://127.0.0.1:9222/devtools/browser/abc", cfg.Browser.DebuggerURL)
}

func TestConfig_EnvOverrideIgnoresBadBool(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGENTUI_TRANSLATE_OUTPUT", "perhaps")
	cfg := DefaultConfig()
	cfg.I18n.TranslateOutput = true
	cfg.applyEnvOverrides()
	assert.True(t, cfg.I18n.TranslateOutput)
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad level", func(c *Config) { c.Output.Level = "verbose" }, "invalid output level"},
		{"bad multiplexer", func(c *Config) { c.Clipboard.Multiplexer = "zellij" }, "invalid clipboard multiplexer"},
		{"no database", func(c *Config) { c.Session.DatabasePath = "" }, "session database path"},
		{"negative dpr", func(c *Config) { c.Output.Environment.DevicePixelRatio = -1 }, "device pixel ratio"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.errMsg)
		})
	}

	cfg := DefaultConfig()
	cfg.Clipboard.Multiplexer = "TMUX"
	assert.NoError(t, cfg.Validate())
}

func TestOutputLevel_InvalidFallsBackToStandard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Level = "nope"
	assert.Equal(t, types.LevelStandard, cfg.OutputLevel())
}

func TestLoggingConfig(t *testing.T) {
	lc := LoggingConfig{Level: "debug", Format: "json", Categories: map[string]bool{"watch": false}}
	assert.True(t, lc.IsCategoryEnabled("session"))
	assert.False(t, lc.IsCategoryEnabled("watch"))

	converted := lc.ToLogging()
	assert.Equal(t, "debug", converted.Level)
	assert.Equal(t, "json", converted.Format)
	assert.False(t, converted.Categories["watch"])

	var empty LoggingConfig
	assert.True(t, empty.IsCategoryEnabled("anything"))
}

func TestFindWorkspaceRoot_PrefersStateDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, DirName), 0o755))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	origWD, _ := os.Getwd()
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { _ = os.Chdir(origWD) })

	got, err := FindWorkspaceRoot()
	require.NoError(t, err)
	// macOS temp dirs live behind a symlink.
	want, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	assert.Equal(t, want, gotResolved)
	assert.Equal(t, filepath.Join(got, DirName, "config.yaml"), DefaultConfigPath())
}
