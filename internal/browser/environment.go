package browser

import (
	"context"
	"encoding/json"
	"time"

	"agentui/internal/logging"
	"agentui/internal/types"

	"github.com/go-rod/rod"
	"go.uber.org/zap"
)

// PageEnvironment samples user agent, viewport, scroll offset and URL from
// a live page each time a document is rendered.
type PageEnvironment struct {
	Page    *rod.Page
	Timeout time.Duration
	Now     func() time.Time
	Logger  *zap.Logger
}

// Snapshot evaluates the page state. When the page cannot be read the
// result carries only the timestamp and a device pixel ratio of 1.
func (e *PageEnvironment) Snapshot() types.EnvironmentInfo {
	now := e.Now
	if now == nil {
		now = time.Now
	}
	info := types.EnvironmentInfo{DevicePixelRatio: 1}

	raw, err := e.evaluate()
	if err == nil {
		err = json.Unmarshal([]byte(raw), &info)
	}
	if err != nil {
		logging.OrNop(e.Logger, logging.CategoryBrowser).Warn("failed to read page environment", zap.Error(err))
		info = types.EnvironmentInfo{DevicePixelRatio: 1}
	}
	info.Timestamp = now()
	return info
}

func (e *PageEnvironment) evaluate() (string, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	res, err := e.Page.Context(ctx).Evaluate(rod.Eval(environmentJS))
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}
