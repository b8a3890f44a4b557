package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

// sparseRegistry registers a locale that only translates a handful of keys.
func sparseRegistry() *Registry {
	reg := NewRegistry()
	reg.Register("xx", Table{
		"toolbar": Table{"save": "Speichern {{name}}"},
		"output":  Table{"location": "Ort"},
	})
	return reg
}

func TestResolver_DefaultsToEnglish(t *testing.T) {
	r := New(Options{})
	assert.Equal(t, EnglishLocale, r.Locale())
	assert.False(t, r.OutputTranslated())
	assert.Equal(t, "Location", r.UI("output.location", nil))
	assert.Equal(t, "(no comment)", r.Output("marker.noComment", nil))
}

func TestResolver_MissingInLocaleFallsBackToEnglish(t *testing.T) {
	r := New(Options{Locale: "xx", Registry: sparseRegistry(), TranslateOutput: true})

	assert.Equal(t, "Ort", r.UI("output.location", nil))
	assert.Equal(t, "Feedback", r.UI("output.feedback", nil))
	assert.Equal(t, "Ort", r.Output("output.location", nil))
	assert.Equal(t, "Feedback", r.Output("output.feedback", nil))
}

func TestResolver_MissingEverywhereReturnsKeyAndWarns(t *testing.T) {
	logger, logs := observedLogger()
	r := New(Options{Locale: "zh-CN", Logger: logger})

	assert.Equal(t, "nope.not.here", r.UI("nope.not.here", nil))
	assert.Equal(t, "nope.not.here", r.Output("nope.not.here", Params{"x": 1}))

	warnings := logs.FilterMessage("missing translation").All()
	require.Len(t, warnings, 2)
	assert.Equal(t, "nope.not.here", warnings[0].ContextMap()["key"])
}

func TestResolver_KeyOnSubtreeIsAMiss(t *testing.T) {
	r := New(Options{Logger: zap.NewNop()})
	assert.Equal(t, "output", r.UI("output", nil))
	assert.Equal(t, "output.location.deeper", r.UI("output.location.deeper", nil))
}

func TestResolver_OutputStaysEnglishUnlessTranslated(t *testing.T) {
	r := New(Options{Locale: "zh-CN"})
	assert.Equal(t, "位置", r.UI("output.location", nil))
	assert.Equal(t, "Location", r.Output("output.location", nil))

	r.Initialize(Options{Locale: "zh-CN", TranslateOutput: true})
	assert.True(t, r.OutputTranslated())
	assert.Equal(t, "位置", r.Output("output.location", nil))
}

func TestResolver_UnknownLocaleWarnsAndUsesEnglish(t *testing.T) {
	logger, logs := observedLogger()
	r := New(Options{Locale: "tlh", Logger: logger})

	assert.Equal(t, EnglishLocale, r.Locale())
	assert.Equal(t, "Location", r.UI("output.location", nil))
	require.Equal(t, 1, logs.FilterMessage("locale not found, falling back to English").Len())
}

func TestResolver_Interpolation(t *testing.T) {
	reg := NewRegistry()
	reg.Register("t", Table{"toolbar": Table{"save": "Save {{name}}"}})
	r := New(Options{Locale: "t", Registry: reg})

	assert.Equal(t, "Save X", r.UI("toolbar.save", Params{"name": "X"}))
	assert.Equal(t, "Save {{name}}", r.UI("toolbar.save", Params{"other": "X"}))
	assert.Equal(t, "Save {{name}}", r.UI("toolbar.save", nil))
	assert.Equal(t, "3 scopes", r.UI("toolbar.scopeCount", Params{"count": 3}))
}

func TestResolver_CustomTranslationsMergeOneLevel(t *testing.T) {
	r := New(Options{
		Translations: Table{
			"output": Table{"location": "Where"},
			"settings": Table{
				"levels": Table{"compact": "Tiny"},
			},
			"marker": "flattened",
		},
	})

	// Sibling keys of a merged table survive.
	assert.Equal(t, "Where", r.UI("output.location", nil))
	assert.Equal(t, "Feedback", r.UI("output.feedback", nil))

	// Second-level tables are replaced, so siblings inside them vanish from
	// the active table and resolve through the English fallback.
	assert.Equal(t, "Tiny", r.UI("settings.levels.compact", nil))
	assert.Equal(t, "Standard", r.UI("settings.levels.standard", nil))
	assert.Equal(t, "Output level", r.UI("settings.outputLevel", nil))

	// A scalar override replaces the whole table.
	assert.Equal(t, "(no comment)", r.UI("marker.noComment", nil))
}

func TestResolver_ReinitializeDoesNotAccumulate(t *testing.T) {
	r := New(Options{Translations: Table{"output": Table{"location": "Where"}}, TranslateOutput: true})
	require.Equal(t, "Where", r.UI("output.location", nil))

	r.Initialize(Options{})
	assert.Equal(t, "Location", r.UI("output.location", nil))
	assert.False(t, r.OutputTranslated())
}

func TestResolver_Reset(t *testing.T) {
	r := New(Options{Locale: "zh-CN", TranslateOutput: true})
	r.Reset()
	assert.Equal(t, EnglishLocale, r.Locale())
	assert.False(t, r.OutputTranslated())
}

func TestWith_IsolatesResolvers(t *testing.T) {
	outer := New(Options{})
	With(Options{Locale: "zh-CN", TranslateOutput: true}, func(r *Resolver) {
		assert.Equal(t, "位置", r.Output("output.location", nil))
	})
	assert.Equal(t, "Location", outer.Output("output.location", nil))
}

func TestBuiltinLocalesCoverEnglishKeys(t *testing.T) {
	reg := NewRegistry()
	en, ok := reg.Get(EnglishLocale)
	require.True(t, ok)
	zh, ok := reg.Get("zh-CN")
	require.True(t, ok)

	for _, key := range en.Keys() {
		_, found := zh.Lookup(key)
		assert.True(t, found, "zh-CN is missing %s", key)
	}
	assert.Equal(t, []string{"en", "zh-CN"}, reg.Locales())
}
