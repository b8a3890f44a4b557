package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"agentui/internal/clipboard"
	"agentui/internal/config"
	"agentui/internal/i18n"
	"agentui/internal/logging"
	"agentui/internal/output"
	"agentui/internal/session"
	"agentui/internal/types"

	"go.uber.org/zap"
)

// appConfig returns the loaded configuration, loading it on first use.
func appConfig() (*config.Config, error) {
	if cfg != nil {
		return cfg, nil
	}
	loaded, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cfg = loaded
	return cfg, nil
}

func appLogger() *zap.Logger {
	if logger == nil {
		logger = logging.Get(logging.CategoryBoot)
	}
	return logger
}

// commandContext bounds a command by --timeout and cancels it on SIGINT or
// SIGTERM. A zero timeout means no deadline.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	tctx, cancel := context.WithTimeout(ctx, timeout)
	return tctx, func() {
		cancel()
		stop()
	}
}

func openStore(c *config.Config) (*session.Store, error) {
	return session.Open(c.Session.DatabasePath, session.WithLogger(logging.Get(logging.CategorySession)))
}

func newResolver(c *config.Config) (*i18n.Resolver, error) {
	opts := i18n.Options{
		Locale:          c.I18n.Locale,
		TranslateOutput: c.I18n.TranslateOutput,
		Logger:          logging.Get(logging.CategoryI18n),
	}
	if c.I18n.TranslationsFile != "" {
		table, err := i18n.LoadTableFile(c.I18n.TranslationsFile)
		if err != nil {
			return nil, err
		}
		opts.Translations = table
	}
	return i18n.New(opts), nil
}

func newExporter(c *config.Config) *clipboard.Exporter {
	var fallback clipboard.Writer
	if c.Clipboard.Fallback {
		mux := clipboard.Multiplexer(strings.ToLower(c.Clipboard.Multiplexer))
		switch mux {
		case "auto", "":
			mux = clipboard.DetectMultiplexer()
		case "none":
			mux = clipboard.MultiplexerNone
		}
		fallback = clipboard.OSC52Writer{Multiplexer: mux}
	}
	return clipboard.New(clipboard.SystemWriter{}, fallback, logging.Get(logging.CategoryClipboard))
}

// configEnvironment is the page description used when nothing was captured.
func configEnvironment(c *config.Config) output.StaticEnvironment {
	e := c.Output.Environment
	return output.StaticEnvironment{
		URL:              e.URL,
		UserAgent:        e.UserAgent,
		Viewport:         types.Size{Width: e.ViewportWidth, Height: e.ViewportHeight},
		DevicePixelRatio: e.DevicePixelRatio,
	}
}

// storedEnvironment prefers the environment recorded by "add" and falls
// back to the configured one. The timestamp is always the render time.
func storedEnvironment(ctx context.Context, c *config.Config, store *session.Store) output.StaticEnvironment {
	env := configEnvironment(c)
	if store == nil {
		return env
	}
	rec, err := store.Environment(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			appLogger().Warn("failed to load recorded environment", zap.Error(err))
		}
		return env
	}
	return output.StaticEnvironment{
		URL:              rec.URL,
		UserAgent:        rec.UserAgent,
		Viewport:         rec.Viewport,
		DevicePixelRatio: rec.DevicePixelRatio,
		ScrollPosition:   rec.ScrollPosition,
	}
}

// exportFile is the JSON shape accepted by "render --from": either a bare
// array of scopes or an object carrying scopes plus the page environment.
type exportFile struct {
	Environment *types.EnvironmentInfo `json:"environment,omitempty"`
	Scopes      []types.Scope          `json:"scopes"`
}

func loadExportFile(path string) (exportFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return exportFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var scopes []types.Scope
		if err := json.Unmarshal(data, &scopes); err != nil {
			return exportFile{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return exportFile{Scopes: scopes}, nil
	}
	var f exportFile
	if err := json.Unmarshal(data, &f); err != nil {
		return exportFile{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return f, nil
}
