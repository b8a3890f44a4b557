// Package i18n resolves dot-path keys such as "output.location" to localized
// strings. UI chrome follows the active locale; exported Markdown stays in
// English unless output translation is switched on, because the export is
// consumed by tools that expect one canonical language.
package i18n

import (
	"fmt"
	"regexp"
	"sync"

	"agentui/internal/logging"

	"go.uber.org/zap"
)

// Params supplies values for {{name}} placeholders.
type Params map[string]any

// Options configures a Resolver.
type Options struct {
	// Locale selects the base table. Unknown locales fall back to English.
	Locale string
	// Translations are overrides merged one level deep onto the base table.
	Translations Table
	// TranslateOutput makes Output honor the active locale instead of English.
	TranslateOutput bool
	// Registry supplies the locale tables; nil uses the built-in locales.
	Registry *Registry
	// Logger receives missing-key and unknown-locale warnings.
	Logger *zap.Logger
}

// Resolver is the rendering context for translated strings. It replaces
// process-wide translation state: callers own a Resolver and pass it to
// whatever renders text.
type Resolver struct {
	mu              sync.RWMutex
	locale          string
	active          Table
	english         Table
	translateOutput bool
	logger          *zap.Logger
}

// New creates a Resolver initialized with opts.
func New(opts Options) *Resolver {
	r := &Resolver{english: English()}
	r.Initialize(opts)
	return r
}

// With runs fn against a Resolver that exists only for the duration of the
// call, isolating it from every other resolver.
func With(opts Options, fn func(r *Resolver)) {
	fn(New(opts))
}

// Initialize replaces all resolver state. Nothing carries over from a
// previous initialization.
func (r *Resolver) Initialize(opts Options) {
	logger := logging.OrNop(opts.Logger, logging.CategoryI18n)

	registry := opts.Registry
	if registry == nil {
		registry = NewRegistry()
	}

	locale := opts.Locale
	if locale == "" {
		locale = EnglishLocale
	}

	base, ok := registry.Get(locale)
	if !ok {
		logger.Warn("locale not found, falling back to English", zap.String("locale", locale))
		locale = EnglishLocale
		base = r.english
	}

	active := base
	if opts.Translations != nil {
		active = mergeOneLevel(base, opts.Translations)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.locale = locale
	r.active = active
	r.translateOutput = opts.TranslateOutput
	r.logger = logger
}

// Reset returns the resolver to English with output translation disabled.
func (r *Resolver) Reset() {
	r.mu.RLock()
	logger := r.logger
	r.mu.RUnlock()
	r.Initialize(Options{Logger: logger})
}

// Locale reports the locale the active table was built from.
func (r *Resolver) Locale() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.locale
}

// OutputTranslated reports whether Output honors the active locale.
func (r *Resolver) OutputTranslated() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.translateOutput
}

// UI resolves a key for interface chrome using the active locale.
func (r *Resolver) UI(key string, params Params) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(r.active, key, params)
}

// Output resolves a key for exported documents. The active locale is used
// only when output translation is enabled; otherwise English.
func (r *Resolver) Output(key string, params Params) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	table := r.english
	if r.translateOutput {
		table = r.active
	}
	return r.resolve(table, key, params)
}

// resolve looks key up in table, then English, then gives up and returns
// the key itself. Caller holds r.mu.
func (r *Resolver) resolve(table Table, key string, params Params) string {
	if value, ok := table.Lookup(key); ok {
		return interpolate(value, params)
	}
	if value, ok := r.english.Lookup(key); ok {
		return interpolate(value, params)
	}
	r.logger.Warn("missing translation", zap.String("key", key))
	return key
}

var placeholder = regexp.MustCompile(`\{\{(\w+)\}\}`)

// interpolate replaces {{name}} with params[name]. Placeholders without a
// matching param are left as they are.
func interpolate(s string, params Params) string {
	if params == nil {
		return s
	}
	return placeholder.ReplaceAllStringFunc(s, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		if v, ok := params[name]; ok && v != nil {
			return fmt.Sprint(v)
		}
		return match
	})
}
