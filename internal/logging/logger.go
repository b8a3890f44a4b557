// Package logging provides config-driven categorized logging for agentui.
// Each subsystem asks for its own named logger; until Initialize is called
// every category resolves to a no-op logger, so library code can log freely
// without forcing output on embedders.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Boot/initialization
	CategoryI18n      Category = "i18n"      // Translation resolution
	CategoryOutput    Category = "output"    // Markdown generation
	CategoryClipboard Category = "clipboard" // Clipboard export
	CategorySession   Category = "session"   // Scope store
	CategoryBrowser   Category = "browser"   // Element and environment capture
	CategoryWatch     Category = "watch"     // File watching
)

// Config mirrors config.LoggingConfig to avoid an import cycle.
type Config struct {
	Level      string          // debug, info, warn, error
	Format     string          // json, console
	File       string          // empty = stderr
	DebugMode  bool            // development encoder + caller info
	Categories map[string]bool // per-category toggles; missing = enabled
}

var (
	mu         sync.RWMutex
	root       = zap.NewNop()
	categories map[string]bool
	loggers    = make(map[Category]*zap.Logger)
)

// Initialize builds the root logger from cfg. It can be called again to
// reconfigure; previously handed out loggers keep their old core.
func Initialize(cfg Config) error {
	zcfg := zap.NewProductionConfig()
	if cfg.DebugMode {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	switch cfg.Format {
	case "", "json":
		if !cfg.DebugMode {
			zcfg.Encoding = "json"
		}
	case "console", "text":
		zcfg.Encoding = "console"
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		zcfg.OutputPaths = []string{cfg.File}
	}

	built, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	root = built
	categories = cfg.Categories
	loggers = make(map[Category]*zap.Logger)
	return nil
}

// SetRoot installs an already built logger (used by the CLI and tests).
func SetRoot(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	defer mu.Unlock()
	root = l
	loggers = make(map[Category]*zap.Logger)
}

// Get returns (or creates) the logger for the given category.
// Disabled categories get a no-op logger.
func Get(category Category) *zap.Logger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	l := root.Named(string(category))
	if enabled, ok := categories[string(category)]; ok && !enabled {
		l = zap.NewNop()
	}
	loggers[category] = l
	return l
}

// Sync flushes the root logger.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return root.Sync()
}

// OrNop returns l, or the category logger when l is nil.
func OrNop(l *zap.Logger, category Category) *zap.Logger {
	if l != nil {
		return l
	}
	return Get(category)
}

func parseLevel(s string) (zapcore.Level, error) {
	switch s {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}
