package ui

import (
	"context"
	"strings"
	"testing"

	"agentui/internal/i18n"
	"agentui/internal/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCopier struct {
	ok  bool
	got []string
}

func (c *stubCopier) Copy(_ context.Context, content string) bool {
	c.got = append(c.got, content)
	return c.ok
}

func docFor(level types.OutputLevel) string {
	return "# doc at " + level.String()
}

func newTestReview(copier Copier) ReviewModel {
	styles := NewStyles(LightTheme())
	return NewReviewModel(ReviewOptions{
		Level:    types.LevelCompact,
		Document: docFor,
		Copier:   copier,
		Markdown: PlainRenderer,
		Styles:   &styles,
	})
}

func update(t *testing.T, m ReviewModel, msg tea.Msg) (ReviewModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	rm, ok := next.(ReviewModel)
	require.True(t, ok)
	return rm, cmd
}

func TestReview_TabCyclesLevels(t *testing.T) {
	m := newTestReview(nil)
	assert.Equal(t, "# doc at compact", m.Document())

	var seen []types.OutputLevel
	for i := 0; i < 4; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		seen = append(seen, m.Level())
	}
	assert.Equal(t, []types.OutputLevel{
		types.LevelStandard, types.LevelDetailed, types.LevelForensic, types.LevelCompact,
	}, seen)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, types.LevelForensic, m.Level())
	assert.Equal(t, "# doc at forensic", m.Document())
}

func TestReview_CopySuccessAndFailure(t *testing.T) {
	copier := &stubCopier{ok: true}
	m := newTestReview(copier)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, copiedMsg{ok: true}, msg)
	assert.Equal(t, []string{"# doc at compact"}, copier.got)

	m, _ = update(t, m, msg)
	assert.Contains(t, m.View(), "Copied!")

	m, _ = update(t, m, copiedMsg{ok: false})
	assert.Contains(t, m.View(), "Copy failed")
}

func TestReview_CopyWithoutCopierFails(t *testing.T) {
	m := newTestReview(nil)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	assert.Equal(t, copiedMsg{ok: false}, cmd())
}

func TestReview_Quit(t *testing.T) {
	m := newTestReview(nil)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
}

func TestReview_ViewShowsLocalizedHeader(t *testing.T) {
	styles := NewStyles(DarkTheme())
	m := NewReviewModel(ReviewOptions{
		Level:    types.LevelDetailed,
		Document: docFor,
		Resolver: i18n.New(i18n.Options{Locale: "zh-CN"}),
		Markdown: PlainRenderer,
		Styles:   &styles,
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	zh := i18n.New(i18n.Options{Locale: "zh-CN"})
	assert.Contains(t, view, zh.UI("review.title", nil))
	assert.Contains(t, view, zh.UI("settings.levels.detailed", nil))
	assert.Contains(t, view, "# doc at detailed")
}

func TestReview_InvalidLevelDefaultsToStandard(t *testing.T) {
	m := NewReviewModel(ReviewOptions{Level: types.OutputLevel(9), Document: docFor, Markdown: PlainRenderer})
	assert.Equal(t, types.LevelStandard, m.Level())
}

func TestStyles(t *testing.T) {
	t.Setenv("COLORFGBG", "15;0")
	assert.True(t, DetectTheme().IsDark)
	t.Setenv("COLORFGBG", "")
	t.Setenv("AGENTUI_DARK_MODE", "")
	assert.False(t, DetectTheme().IsDark)

	s := NewStyles(LightTheme())
	assert.Equal(t, "", s.RenderDivider(0))
	assert.Equal(t, 3, strings.Count(s.RenderDivider(3), "─"))
}

func TestGlamourRenderer(t *testing.T) {
	out := GlamourRenderer("## Page Feedback\n\nNo scopes added.", 60)
	assert.Contains(t, out, "Page Feedback")
	assert.Contains(t, out, "No scopes added.")
}
