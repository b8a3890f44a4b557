package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"agentui/internal/browser"
	"agentui/internal/types"

	"gopkg.in/yaml.v3"
)

// DirName is the per-project state directory.
const DirName = ".agentui"

// Config holds all agentui configuration.
type Config struct {
	// Translation settings
	I18n I18nConfig `yaml:"i18n"`

	// Document rendering
	Output OutputConfig `yaml:"output"`

	// Clipboard export
	Clipboard ClipboardConfig `yaml:"clipboard"`

	// Element capture
	Browser browser.Config `yaml:"browser"`

	// Annotation session storage
	Session SessionConfig `yaml:"session"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// I18nConfig configures the translation resolver.
type I18nConfig struct {
	Locale           string `yaml:"locale"`
	TranslationsFile string `yaml:"translations_file"` // YAML or JSON partial table
	TranslateOutput  bool   `yaml:"translate_output"`
}

// OutputConfig configures document generation.
type OutputConfig struct {
	Level       string            `yaml:"level"` // compact, standard, detailed, forensic
	Environment EnvironmentConfig `yaml:"environment"`
}

// EnvironmentConfig describes the page when no live browser is attached.
type EnvironmentConfig struct {
	URL              string  `yaml:"url"`
	UserAgent        string  `yaml:"user_agent"`
	ViewportWidth    int     `yaml:"viewport_width"`
	ViewportHeight   int     `yaml:"viewport_height"`
	DevicePixelRatio float64 `yaml:"device_pixel_ratio"`
}

// ClipboardConfig configures clipboard export.
type ClipboardConfig struct {
	Fallback    bool   `yaml:"fallback"`    // use OSC 52 when the system clipboard fails
	Multiplexer string `yaml:"multiplexer"` // auto, none, tmux, screen
}

// SessionConfig configures the annotation store.
type SessionConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		I18n: I18nConfig{
			Locale: "en",
		},
		Output: OutputConfig{
			Level: types.LevelStandard.String(),
			Environment: EnvironmentConfig{
				ViewportWidth:    1440,
				ViewportHeight:   900,
				DevicePixelRatio: 1,
			},
		},
		Clipboard: ClipboardConfig{
			Fallback:    true,
			Multiplexer: "auto",
		},
		Browser: browser.DefaultConfig(),
		Session: SessionConfig{
			DatabasePath: filepath.Join(DirName, "session.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("AGENTUI_LOCALE"); v != "" {
		c.I18n.Locale = v
	}
	if v := os.Getenv("AGENTUI_TRANSLATE_OUTPUT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.I18n.TranslateOutput = b
		}
	}
	if v := os.Getenv("AGENTUI_LEVEL"); v != "" {
		c.Output.Level = v
	}
	if v := os.Getenv("AGENTUI_DB"); v != "" {
		c.Session.DatabasePath = v
	}
	if v := os.Getenv("AGENTUI_DEBUGGER_URL"); v != "" {
		c.Browser.DebuggerURL = v
	}
}

// OutputLevel returns the configured level, standard when it is invalid.
func (c *Config) OutputLevel() types.OutputLevel {
	level, _ := types.ParseOutputLevel(c.Output.Level)
	return level
}

var validMultiplexers = []string{"auto", "none", "tmux", "screen"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := types.ParseOutputLevel(c.Output.Level); err != nil {
		return fmt.Errorf("invalid output level: %w", err)
	}

	mux := strings.ToLower(c.Clipboard.Multiplexer)
	valid := mux == ""
	for _, m := range validMultiplexers {
		if mux == m {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid clipboard multiplexer: %s (valid: %v)", c.Clipboard.Multiplexer, validMultiplexers)
	}

	if c.Session.DatabasePath == "" {
		return fmt.Errorf("session database path not configured (set session.database_path or AGENTUI_DB)")
	}
	if c.Output.Environment.DevicePixelRatio < 0 {
		return fmt.Errorf("invalid device pixel ratio: %v", c.Output.Environment.DevicePixelRatio)
	}
	return nil
}

// DefaultConfigPath returns the config file location for the current
// workspace.
func DefaultConfigPath() string {
	root, err := FindWorkspaceRoot()
	if err != nil {
		return filepath.Join(DirName, "config.yaml")
	}
	return filepath.Join(root, DirName, "config.yaml")
}

// FindWorkspaceRoot walks up from the working directory looking for
// .agentui or .git. If neither is found it returns the working directory.
func FindWorkspaceRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	originalDir := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, DirName)); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return originalDir, nil
}
