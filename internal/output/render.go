package output

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"agentui/internal/i18n"
	"agentui/internal/types"
)

// maxForensicAttributes bounds the attribute list in forensic output. Extra
// attributes are dropped without a marker so the export size stays bounded.
const maxForensicAttributes = 10

// renderFunc turns one scope into a Markdown fragment.
type renderFunc func(t translator, scope types.Scope) string

// translator is the subset of *i18n.Resolver the renderers need.
type translator interface {
	Output(key string, params i18n.Params) string
}

// renderers dispatches an output level to its renderer.
var renderers = map[types.OutputLevel]renderFunc{
	types.LevelCompact:  renderCompact,
	types.LevelStandard: renderStandard,
	types.LevelDetailed: renderDetailed,
	types.LevelForensic: renderForensic,
}

// fragment accumulates Markdown lines.
type fragment struct {
	lines []string
}

func (f *fragment) add(lines ...string) { f.lines = append(f.lines, lines...) }

func (f *fragment) blank() { f.lines = append(f.lines, "") }

func (f *fragment) String() string { return strings.Join(f.lines, "\n") }

// label renders "**Label:** value".
func label(name, value string) string {
	return "**" + name + ":** " + value
}

// bullet renders "- **Label:** value".
func bullet(name, value string) string {
	return "- " + label(name, value)
}

func heading(level int, text string) string {
	return strings.Repeat("#", level) + " " + text
}

func quoted(s string) string {
	return `"` + s + `"`
}

// jsRound rounds half toward positive infinity, matching the browser's
// Math.round so pixel values agree with what the page reports.
func jsRound(v float64) int {
	return int(math.Floor(v + 0.5))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func yesNo(t translator, v bool) string {
	if v {
		return t.Output("output.yes", nil)
	}
	return t.Output("output.no", nil)
}

func commentOrMarker(t translator, scope types.Scope) string {
	if scope.Comment == "" {
		return t.Output("marker.noComment", nil)
	}
	return scope.Comment
}

func scopeTitle(scope types.Scope) string {
	return heading(3, fmt.Sprintf("%d. %s", scope.Number, scope.ElementInfo.HumanReadable))
}

func hasContext(ctx types.NearbyContext) bool {
	return ctx.ContainingLandmark != "" || ctx.Parent != "" || ctx.PreviousSibling != "" || ctx.NextSibling != ""
}

// renderCompact: `1. **button "Save"**: Change color to blue`
func renderCompact(t translator, scope types.Scope) string {
	return fmt.Sprintf("%d. **%s**: %s", scope.Number, scope.ElementInfo.HumanReadable, commentOrMarker(t, scope))
}

func renderStandard(t translator, scope types.Scope) string {
	var f fragment
	f.add(scopeTitle(scope))
	f.add(label(t.Output("output.location", nil), scope.ElementInfo.SelectorPath))
	if scope.SelectedText != "" {
		f.add(label(t.Output("output.selectedText", nil), quoted(scope.SelectedText)))
	}
	f.add(label(t.Output("output.feedback", nil), commentOrMarker(t, scope)))
	return f.String()
}

func renderDetailed(t translator, scope types.Scope) string {
	info := scope.ElementInfo
	var f fragment

	f.add(scopeTitle(scope))
	f.blank()
	f.add(label(t.Output("output.location", nil), "`"+info.SelectorPath+"`"))
	if info.ID != "" {
		f.add(label(t.Output("output.id", nil), info.ID))
	}
	if len(info.Classes) > 0 {
		f.add(label(t.Output("output.classes", nil), strings.Join(info.Classes, ", ")))
	}

	r := info.Rect
	f.add(label(t.Output("output.position", nil),
		fmt.Sprintf("%dx%d, %d×%dpx", jsRound(r.Left), jsRound(r.Top), jsRound(r.Width), jsRound(r.Height))))
	if info.IsFixed {
		f.add(label(t.Output("output.positioning", nil), t.Output("output.fixedSticky", nil)))
	}

	if scope.SelectedText != "" {
		f.add(label(t.Output("output.selectedText", nil), quoted(scope.SelectedText)))
	}

	// Siblings are listed only alongside a parent or landmark.
	ctx := info.NearbyContext
	if ctx.Parent != "" || ctx.ContainingLandmark != "" {
		f.blank()
		f.add("**" + t.Output("output.context", nil) + ":**")
		if ctx.ContainingLandmark != "" {
			f.add("- " + t.Output("output.landmark", nil) + ": " + ctx.ContainingLandmark)
		}
		if ctx.Parent != "" {
			f.add("- " + t.Output("output.parent", nil) + ": " + ctx.Parent)
		}
		if ctx.PreviousSibling != "" {
			f.add("- " + t.Output("output.previous", nil) + ": " + ctx.PreviousSibling)
		}
		if ctx.NextSibling != "" {
			f.add("- " + t.Output("output.next", nil) + ": " + ctx.NextSibling)
		}
	}

	f.blank()
	f.add(label(t.Output("output.feedback", nil), commentOrMarker(t, scope)))
	return f.String()
}

func renderForensic(t translator, scope types.Scope) string {
	info := scope.ElementInfo
	var f fragment

	f.add(scopeTitle(scope))
	f.blank()

	f.add(heading(4, t.Output("output.domPath", nil)))
	f.add("```", info.FullDOMPath, "```")
	f.blank()

	f.add(label(t.Output("output.selector", nil), "`"+info.SelectorPath+"`"))
	f.blank()

	f.add(heading(4, t.Output("output.elementDetails", nil)))
	f.add(bullet(t.Output("output.tag", nil), info.TagName))
	if info.ID != "" {
		f.add(bullet(t.Output("output.id", nil), info.ID))
	}
	if len(info.Classes) > 0 {
		f.add(bullet(t.Output("output.classes", nil), strings.Join(info.Classes, ", ")))
	}
	if len(info.Attributes) > 0 {
		f.add("- **" + t.Output("output.attributes", nil) + ":**")
		attrs := info.Attributes
		if len(attrs) > maxForensicAttributes {
			attrs = attrs[:maxForensicAttributes]
		}
		for _, a := range attrs {
			f.add("  - " + a.Name + ": " + quoted(a.Value))
		}
	}
	if info.InnerText != "" {
		f.add(bullet(t.Output("output.textContent", nil), quoted(info.InnerText)))
	}
	f.blank()

	r := info.Rect
	f.add(heading(4, t.Output("output.positionDimensions", nil)))
	f.add(bullet(t.Output("output.boundingBox", nil),
		fmt.Sprintf("(%d, %d) to (%d, %d)", jsRound(r.Left), jsRound(r.Top), jsRound(r.Right), jsRound(r.Bottom))))
	f.add(bullet(t.Output("output.size", nil), fmt.Sprintf("%d×%dpx", jsRound(r.Width), jsRound(r.Height))))
	f.add(bullet(t.Output("output.fixedPositioning", nil), yesNo(t, info.IsFixed)))
	f.blank()

	a11y := info.Accessibility
	role := a11y.Role
	if role == "" {
		role = t.Output("output.none", nil)
	}
	f.add(heading(4, t.Output("output.accessibility", nil)))
	f.add(bullet(t.Output("output.role", nil), role))
	f.add(bullet(t.Output("output.interactive", nil), yesNo(t, a11y.IsInteractive)))
	if a11y.AriaLabel != "" {
		f.add(bullet(t.Output("output.ariaLabel", nil), quoted(a11y.AriaLabel)))
	}
	if a11y.AriaDescribedBy != "" {
		f.add(bullet(t.Output("output.describedBy", nil), quoted(a11y.AriaDescribedBy)))
	}
	if a11y.TabIndex != nil {
		f.add(bullet(t.Output("output.tabIndex", nil), strconv.Itoa(*a11y.TabIndex)))
	}
	f.blank()

	if info.ComputedStyles != nil {
		f.add(heading(4, t.Output("output.computedStyles", nil)))
		f.add("```css", info.ComputedStyles.CSS(), "```")
		f.blank()
	}

	ctx := info.NearbyContext
	if hasContext(ctx) {
		f.add(heading(4, t.Output("output.context", nil)))
		if ctx.ContainingLandmark != "" {
			f.add(bullet(t.Output("output.landmark", nil), ctx.ContainingLandmark))
		}
		if ctx.Parent != "" {
			f.add(bullet(t.Output("output.parent", nil), ctx.Parent))
		}
		if ctx.PreviousSibling != "" {
			f.add(bullet(t.Output("output.previousSibling", nil), ctx.PreviousSibling))
		}
		if ctx.NextSibling != "" {
			f.add(bullet(t.Output("output.nextSibling", nil), ctx.NextSibling))
		}
		f.blank()
	}

	if scope.SelectedText != "" {
		f.add(label(t.Output("output.selectedText", nil), quoted(scope.SelectedText)))
		f.blank()
	}

	if scope.IsMultiSelect {
		f.add("*" + t.Output("output.multiSelectNote", nil) + "*")
		f.blank()
	}

	f.add(heading(4, t.Output("output.metadata", nil)))
	f.add(bullet(t.Output("output.created", nil), types.ISOTimestamp(scope.CreatedAt)))
	f.add(bullet(t.Output("output.updated", nil), types.ISOTimestamp(scope.UpdatedAt)))
	f.blank()

	f.add(heading(4, t.Output("output.feedback", nil)))
	f.add(commentOrMarker(t, scope))
	return f.String()
}
