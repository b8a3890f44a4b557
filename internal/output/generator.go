// Package output renders annotation scopes into Markdown at one of four
// fixed levels of detail. The produced text is a format contract consumed
// by agents and issue trackers: label text and field order are stable.
package output

import (
	"fmt"
	"strings"

	"agentui/internal/i18n"
	"agentui/internal/logging"
	"agentui/internal/types"

	"go.uber.org/zap"
)

// Generator assembles documents from scopes. It holds no per-render state;
// output is a function of the scopes, the level, the resolver state and the
// environment snapshot taken at the start of Generate.
type Generator struct {
	resolver *i18n.Resolver
	env      Environment
	logger   *zap.Logger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithLogger sets the generator's logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// NewGenerator creates a Generator. A nil resolver means English with
// output translation off; a nil env means an empty static page.
func NewGenerator(resolver *i18n.Resolver, env Environment, opts ...Option) *Generator {
	if resolver == nil {
		resolver = i18n.New(i18n.Options{})
	}
	if env == nil {
		env = StaticEnvironment{}
	}
	g := &Generator{resolver: resolver, env: env}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = logging.OrNop(g.logger, logging.CategoryOutput)
	return g
}

// Generate renders scopes at the given level. Scopes are ordered by
// ascending Number (ties keep their input order); the caller's slice is not
// modified. An empty input yields the fixed "no scopes" document.
func (g *Generator) Generate(scopes []types.Scope, level types.OutputLevel) string {
	t := g.resolver
	if len(scopes) == 0 {
		return heading(2, t.Output("output.pageFeedback", nil)) + "\n\n" + t.Output("output.noScopes", nil)
	}

	render, ok := renderers[level]
	if !ok {
		g.logger.Warn("unknown output level, using standard", zap.Int("level", int(level)))
		level = types.LevelStandard
		render = renderers[level]
	}

	sorted := types.SortByNumber(scopes)
	env := g.env.Snapshot()

	parts := make([]string, 0, 1+len(sorted)*4)
	if level == types.LevelForensic {
		parts = append(parts, forensicHeader(t, env, len(scopes)))
	} else {
		parts = append(parts, header(t, level, env, len(scopes)))
	}

	for _, scope := range sorted {
		parts = append(parts, render(t, scope))
		if level != types.LevelCompact {
			parts = append(parts, "", "---", "")
		}
	}

	doc := strings.Join(parts, "\n")
	if level == types.LevelCompact {
		return doc
	}
	return strings.TrimSpace(doc)
}

// header is used by every level except forensic.
func header(t translator, level types.OutputLevel, env types.EnvironmentInfo, count int) string {
	var f fragment
	f.add(heading(2, t.Output("output.pageFeedback", nil)+": "+pagePath(env.URL)))
	if level == types.LevelCompact {
		f.blank()
		return f.String()
	}
	f.add(label(t.Output("output.viewport", nil), fmt.Sprintf("%d×%d", env.Viewport.Width, env.Viewport.Height)))
	f.add(label(t.Output("output.scopes", nil), fmt.Sprintf("%d", count)))
	f.blank()
	return f.String()
}

// forensicHeader replaces the header with the full environment block.
func forensicHeader(t translator, env types.EnvironmentInfo, count int) string {
	var f fragment
	f.add(heading(2, t.Output("output.pageFeedback", nil)+": "+env.URL))
	f.blank()
	f.add(heading(3, t.Output("output.environment", nil)))
	f.add(bullet(t.Output("output.url", nil), env.URL))
	f.add(bullet(t.Output("output.viewport", nil), fmt.Sprintf("%d×%d", env.Viewport.Width, env.Viewport.Height)))
	f.add(bullet(t.Output("output.devicePixelRatio", nil), formatNumber(env.DevicePixelRatio)))
	f.add(bullet(t.Output("output.scrollPosition", nil),
		fmt.Sprintf("(%s, %s)", formatNumber(env.ScrollPosition.X), formatNumber(env.ScrollPosition.Y))))
	f.add(bullet(t.Output("output.timestamp", nil), types.ISOTimestamp(env.Timestamp)))
	f.add(bullet(t.Output("output.userAgent", nil), env.UserAgent))
	f.add(bullet(t.Output("output.totalScopes", nil), fmt.Sprintf("%d", count)))
	f.blank()
	f.add("---")
	f.blank()
	return f.String()
}
