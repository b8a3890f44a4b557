package ui

import (
	"context"
	"time"

	"agentui/internal/i18n"
	"agentui/internal/types"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Copier is the clipboard side of the review screen.
type Copier interface {
	Copy(ctx context.Context, content string) bool
}

// DocumentFunc produces the document for a level.
type DocumentFunc func(level types.OutputLevel) string

// ReviewOptions configures a ReviewModel.
type ReviewOptions struct {
	Level    types.OutputLevel
	Document DocumentFunc
	Copier   Copier
	Resolver *i18n.Resolver  // UI strings; nil = English
	Markdown MarkdownRenderer // nil = GlamourRenderer
	Styles   *Styles          // nil = DefaultStyles()
	CopyWait time.Duration    // clipboard timeout; 0 = 5s
}

// copiedMsg reports the outcome of a clipboard write.
type copiedMsg struct{ ok bool }

// ReviewModel previews the generated document, lets the user cycle levels
// and copy the result.
type ReviewModel struct {
	opts     ReviewOptions
	styles   Styles
	level    types.OutputLevel
	doc      string
	viewport viewport.Model
	width    int
	height   int
	ready    bool
	status   string
	copied   int
}

// NewReviewModel creates the review screen.
func NewReviewModel(opts ReviewOptions) ReviewModel {
	if opts.Resolver == nil {
		opts.Resolver = i18n.New(i18n.Options{})
	}
	if opts.Markdown == nil {
		opts.Markdown = GlamourRenderer
	}
	if opts.CopyWait <= 0 {
		opts.CopyWait = 5 * time.Second
	}
	styles := DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}
	level := opts.Level
	if !level.Valid() {
		level = types.LevelStandard
	}
	m := ReviewModel{
		opts:     opts,
		styles:   styles,
		level:    level,
		viewport: viewport.New(80, 20),
	}
	m.refresh()
	return m
}

// Level returns the level currently shown.
func (m ReviewModel) Level() types.OutputLevel { return m.level }

// Document returns the raw Markdown currently shown.
func (m ReviewModel) Document() string { return m.doc }

// Init implements tea.Model.
func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-lipgloss.Height(m.header())-lipgloss.Height(m.footer()))
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.level = m.level.Next()
			m.status = ""
			m.refresh()
			return m, nil
		case "shift+tab":
			for i := 0; i < len(types.Levels())-1; i++ {
				m.level = m.level.Next()
			}
			m.status = ""
			m.refresh()
			return m, nil
		case "c", "y":
			return m, m.copyCmd()
		}

	case copiedMsg:
		if msg.ok {
			m.copied++
			m.status = m.styles.Success.Render(m.opts.Resolver.UI("toolbar.copied", nil))
		} else {
			m.status = m.styles.Error.Render(m.opts.Resolver.UI("toolbar.copyFailed", nil))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ReviewModel) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), m.viewport.View(), m.footer())
}

func (m *ReviewModel) refresh() {
	if m.opts.Document != nil {
		m.doc = m.opts.Document(m.level)
	}
	m.viewport.SetContent(m.opts.Markdown(m.doc, m.viewport.Width))
	m.viewport.GotoTop()
}

func (m ReviewModel) copyCmd() tea.Cmd {
	copier, doc, wait := m.opts.Copier, m.doc, m.opts.CopyWait
	return func() tea.Msg {
		if copier == nil {
			return copiedMsg{ok: false}
		}
		ctx, cancel := context.WithTimeout(context.Background(), wait)
		defer cancel()
		return copiedMsg{ok: copier.Copy(ctx, doc)}
	}
}

func (m ReviewModel) header() string {
	r := m.opts.Resolver
	levelName := r.UI("settings.levels."+m.level.String(), nil)
	title := m.styles.Header.Render(r.UI("review.title", nil))
	badge := m.styles.Badge.Render(r.UI("review.level", i18n.Params{"level": levelName}))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, " ", badge)
}

func (m ReviewModel) footer() string {
	help := m.styles.Muted.Render(m.opts.Resolver.UI("review.help", nil))
	if m.status != "" {
		help += "  " + m.status
	}
	return m.styles.Footer.Render(help)
}
