package types

import "time"

// EnvironmentInfo is the page-level context captured at render time. It is
// computed fresh for every render and never stored on a scope.
type EnvironmentInfo struct {
	UserAgent        string    `json:"userAgent"`
	Viewport         Size      `json:"viewport"`
	DevicePixelRatio float64   `json:"devicePixelRatio"`
	URL              string    `json:"url"`
	Timestamp        time.Time `json:"timestamp"`
	ScrollPosition   Point     `json:"scrollPosition"`
}

// Size is a width/height pair in CSS pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Point is an x/y offset in CSS pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ISOTimestamp formats t the way browsers' Date.toISOString does:
// UTC with millisecond precision.
func ISOTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
