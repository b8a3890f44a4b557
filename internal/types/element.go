package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ElementInfo is a point-in-time description of a DOM element. It is
// captured once when a scope is created and never mutated afterwards;
// re-capturing produces a new value.
type ElementInfo struct {
	TagName        string          `json:"tagName"`
	ID             string          `json:"id,omitempty"`
	Classes        []string        `json:"classes,omitempty"`
	HumanReadable  string          `json:"humanReadable"`
	SelectorPath   string          `json:"selectorPath"`
	FullDOMPath    string          `json:"fullDomPath"`
	Rect           Rect            `json:"rect"`
	IsFixed        bool            `json:"isFixed"`
	Attributes     Attributes      `json:"attributes,omitempty"`
	InnerText      string          `json:"innerText,omitempty"`
	Accessibility  Accessibility   `json:"accessibility"`
	NearbyContext  NearbyContext   `json:"nearbyContext"`
	ComputedStyles *ComputedStyles `json:"computedStyles,omitempty"`
}

// Rect is an element's bounding client rect in CSS pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Accessibility holds the ARIA facts of an element.
type Accessibility struct {
	Role            string `json:"role,omitempty"`
	IsInteractive   bool   `json:"isInteractive"`
	AriaLabel       string `json:"ariaLabel,omitempty"`
	AriaDescribedBy string `json:"ariaDescribedBy,omitempty"`
	TabIndex        *int   `json:"tabIndex"` // nil when the element has no tabindex
}

// NearbyContext describes the element's surroundings.
type NearbyContext struct {
	Parent             string `json:"parent,omitempty"`
	ContainingLandmark string `json:"containingLandmark,omitempty"`
	PreviousSibling    string `json:"previousSibling,omitempty"`
	NextSibling        string `json:"nextSibling,omitempty"`
}

// Attribute is one name/value pair of an element's attribute map.
type Attribute struct {
	Name  string
	Value string
}

// Attributes is an ordered attribute map. It round-trips through JSON as an
// object while keeping the key order of the source document.
type Attributes []Attribute

// Get returns the value of the named attribute.
func (a Attributes) Get(name string) (string, bool) {
	for _, attr := range a {
		if attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

// MarshalJSON writes the attributes as a JSON object in slice order.
func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(attr.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(attr.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, preserving key order. Non-string
// values are kept in their JSON text form.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("attributes: expected object, got %v", tok)
	}
	out := Attributes{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("attributes: expected string key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("attributes: value of %q: %w", key, err)
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			s = string(raw)
		}
		out = append(out, Attribute{Name: key, Value: s})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

// ComputedStyles is a snapshot of the computed CSS that matters for visual
// feedback. Empty fields were not captured.
type ComputedStyles struct {
	Display         string `json:"display,omitempty"`
	Position        string `json:"position,omitempty"`
	Width           string `json:"width,omitempty"`
	Height          string `json:"height,omitempty"`
	Margin          string `json:"margin,omitempty"`
	Padding         string `json:"padding,omitempty"`
	Color           string `json:"color,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	FontSize        string `json:"fontSize,omitempty"`
	FontFamily      string `json:"fontFamily,omitempty"`
	FontWeight      string `json:"fontWeight,omitempty"`
	LineHeight      string `json:"lineHeight,omitempty"`
	TextAlign       string `json:"textAlign,omitempty"`
	Border          string `json:"border,omitempty"`
	BorderRadius    string `json:"borderRadius,omitempty"`
	BoxShadow       string `json:"boxShadow,omitempty"`
	Opacity         string `json:"opacity,omitempty"`
	ZIndex          string `json:"zIndex,omitempty"`
	Overflow        string `json:"overflow,omitempty"`
	FlexDirection   string `json:"flexDirection,omitempty"`
	JustifyContent  string `json:"justifyContent,omitempty"`
	AlignItems      string `json:"alignItems,omitempty"`
	Gap             string `json:"gap,omitempty"`
}

// Properties returns the captured properties as CSS name/value pairs in
// declaration order.
func (s *ComputedStyles) Properties() []Attribute {
	if s == nil {
		return nil
	}
	all := []Attribute{
		{"display", s.Display},
		{"position", s.Position},
		{"width", s.Width},
		{"height", s.Height},
		{"margin", s.Margin},
		{"padding", s.Padding},
		{"color", s.Color},
		{"background-color", s.BackgroundColor},
		{"font-size", s.FontSize},
		{"font-family", s.FontFamily},
		{"font-weight", s.FontWeight},
		{"line-height", s.LineHeight},
		{"text-align", s.TextAlign},
		{"border", s.Border},
		{"border-radius", s.BorderRadius},
		{"box-shadow", s.BoxShadow},
		{"opacity", s.Opacity},
		{"z-index", s.ZIndex},
		{"overflow", s.Overflow},
		{"flex-direction", s.FlexDirection},
		{"justify-content", s.JustifyContent},
		{"align-items", s.AlignItems},
		{"gap", s.Gap},
	}
	props := all[:0]
	for _, p := range all {
		if p.Value != "" {
			props = append(props, p)
		}
	}
	return props
}

// CSS formats the snapshot as one "property: value;" declaration per line.
func (s *ComputedStyles) CSS() string {
	props := s.Properties()
	lines := make([]string, 0, len(props))
	for _, p := range props {
		lines = append(lines, p.Name+": "+p.Value+";")
	}
	return strings.Join(lines, "\n")
}
