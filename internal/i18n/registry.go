package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// EnglishLocale is the locale every lookup ultimately falls back to.
const EnglishLocale = "en"

//go:embed locales/*.yaml
var localeFS embed.FS

var (
	builtinOnce sync.Once
	builtin     map[string]Table
	builtinErr  error
)

// loadBuiltins parses the embedded locale files once per process.
func loadBuiltins() (map[string]Table, error) {
	builtinOnce.Do(func() {
		entries, err := localeFS.ReadDir("locales")
		if err != nil {
			builtinErr = err
			return
		}
		builtin = make(map[string]Table, len(entries))
		for _, e := range entries {
			data, err := localeFS.ReadFile("locales/" + e.Name())
			if err != nil {
				builtinErr = err
				return
			}
			table, err := ParseYAML(data)
			if err != nil {
				builtinErr = fmt.Errorf("locale %s: %w", e.Name(), err)
				return
			}
			builtin[strings.TrimSuffix(e.Name(), ".yaml")] = table
		}
	})
	return builtin, builtinErr
}

// English returns a copy of the built-in English table.
func English() Table {
	tables, err := loadBuiltins()
	if err != nil {
		// The embedded files are part of the binary; failing here is a build defect.
		panic(fmt.Sprintf("i18n: embedded locales are invalid: %v", err))
	}
	return tables[EnglishLocale].Clone()
}

// Registry maps locale codes to translation tables.
type Registry struct {
	mu      sync.RWMutex
	locales map[string]Table
}

// NewRegistry returns a registry preloaded with the built-in locales.
func NewRegistry() *Registry {
	tables, err := loadBuiltins()
	if err != nil {
		panic(fmt.Sprintf("i18n: embedded locales are invalid: %v", err))
	}
	r := &Registry{locales: make(map[string]Table, len(tables))}
	for locale, table := range tables {
		r.locales[locale] = table.Clone()
	}
	return r
}

// Register adds or replaces a locale. The table is copied.
func (r *Registry) Register(locale string, table Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locales[locale] = table.Clone()
}

// Get returns the table registered for locale.
func (r *Registry) Get(locale string) (Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.locales[locale]
	return t, ok
}

// Locales lists the registered locale codes in sorted order.
func (r *Registry) Locales() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.locales))
	for l := range r.locales {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}
