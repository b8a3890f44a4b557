package output

import (
	"net/url"
	"time"

	"agentui/internal/types"
)

// Environment produces the page-level context for a render. Implementations
// must compute a fresh value on every call.
type Environment interface {
	Snapshot() types.EnvironmentInfo
}

// EnvironmentFunc adapts a plain function to Environment.
type EnvironmentFunc func() types.EnvironmentInfo

// Snapshot calls f.
func (f EnvironmentFunc) Snapshot() types.EnvironmentInfo { return f() }

// StaticEnvironment describes a page whose properties are known up front,
// e.g. from configuration or a JSON export. Only the timestamp changes
// between snapshots.
type StaticEnvironment struct {
	URL              string
	UserAgent        string
	Viewport         types.Size
	DevicePixelRatio float64
	ScrollPosition   types.Point
	Now              func() time.Time // nil = time.Now
}

// Snapshot implements Environment.
func (e StaticEnvironment) Snapshot() types.EnvironmentInfo {
	now := e.Now
	if now == nil {
		now = time.Now
	}
	dpr := e.DevicePixelRatio
	if dpr == 0 {
		dpr = 1
	}
	return types.EnvironmentInfo{
		UserAgent:        e.UserAgent,
		Viewport:         e.Viewport,
		DevicePixelRatio: dpr,
		URL:              e.URL,
		Timestamp:        now(),
		ScrollPosition:   e.ScrollPosition,
	}
}

// pagePath returns the path component of a page URL, "/" when it has none.
func pagePath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
