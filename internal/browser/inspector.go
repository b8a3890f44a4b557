// Package browser captures element descriptions and page environment from
// a live Chrome tab over the DevTools protocol.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"agentui/internal/logging"
	"agentui/internal/types"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrElementNotFound is returned when a selector matches nothing on the page.
var ErrElementNotFound = errors.New("element not found")

// Config holds browser configuration.
type Config struct {
	DebuggerURL         string   `yaml:"debugger_url"`
	Launch              []string `yaml:"launch"`
	Headless            bool     `yaml:"headless"`
	ViewportWidth       int      `yaml:"viewport_width"`
	ViewportHeight      int      `yaml:"viewport_height"`
	NavigationTimeoutMs int      `yaml:"navigation_timeout_ms"`
	CaptureStyles       bool     `yaml:"capture_styles"`
	MaxParallel         int      `yaml:"max_parallel"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Headless:            true,
		ViewportWidth:       1440,
		ViewportHeight:      900,
		NavigationTimeoutMs: 30000,
		CaptureStyles:       true,
		MaxParallel:         4,
	}
}

// NavigationTimeout returns the navigation timeout.
func (c Config) NavigationTimeout() time.Duration {
	if c.NavigationTimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.NavigationTimeoutMs) * time.Millisecond
}

func (c Config) viewport() types.Size {
	w, h := c.ViewportWidth, c.ViewportHeight
	if w <= 0 {
		w = 1440
	}
	if h <= 0 {
		h = 900
	}
	return types.Size{Width: w, Height: h}
}

// Inspector owns a Chrome connection and reads element facts from its pages.
type Inspector struct {
	cfg    Config
	logger *zap.Logger

	mu         sync.Mutex
	browser    *rod.Browser
	controlURL string
}

// NewInspector creates an Inspector. The browser is started lazily.
func NewInspector(cfg Config, logger *zap.Logger) *Inspector {
	return &Inspector{cfg: cfg, logger: logging.OrNop(logger, logging.CategoryBrowser)}
}

// Start connects to DebuggerURL, or launches Chrome when none is set.
func (i *Inspector) Start(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.browser != nil {
		if _, err := i.browser.Version(); err == nil {
			return nil
		}
		i.logger.Warn("stale browser connection, reconnecting")
		_ = i.browser.Close()
		i.browser = nil
		i.controlURL = ""
	}

	controlURL := i.cfg.DebuggerURL
	if controlURL == "" {
		l := launcher.New().Headless(i.cfg.Headless)
		if len(i.cfg.Launch) > 0 {
			l = l.Bin(i.cfg.Launch[0])
			for _, raw := range i.cfg.Launch[1:] {
				name, val, hasVal := strings.Cut(strings.TrimLeft(raw, "-"), "=")
				if hasVal {
					l = l.Set(flags.Flag(name), val)
				} else {
					l = l.Set(flags.Flag(name))
				}
			}
		}
		url, err := l.Context(ctx).Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}
	i.browser = b
	i.controlURL = controlURL
	i.logger.Debug("browser connected", zap.String("control_url", controlURL))
	return nil
}

// ControlURL returns the DevTools WebSocket URL, "" before Start.
func (i *Inspector) ControlURL() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.controlURL
}

// Open navigates a new tab to url and waits for it to load.
func (i *Inspector) Open(ctx context.Context, url string) (*rod.Page, error) {
	if err := i.Start(ctx); err != nil {
		return nil, err
	}
	i.mu.Lock()
	b := i.browser
	i.mu.Unlock()

	page, err := b.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	vp := i.cfg.viewport()
	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: 1,
	}).Call(page); err != nil {
		i.logger.Warn("failed to set viewport", zap.Error(err))
	}

	nav := page.Timeout(i.cfg.NavigationTimeout())
	if err := nav.Navigate(url); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := nav.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("wait for %s: %w", url, err)
	}
	i.logger.Debug("page opened", zap.String("url", url))
	return page, nil
}

// CaptureElement describes the first element matching selector.
func (i *Inspector) CaptureElement(ctx context.Context, page *rod.Page, selector string) (types.ElementInfo, error) {
	el, err := find(ctx, page, selector)
	if err != nil {
		return types.ElementInfo{}, err
	}

	res, err := el.Evaluate(rod.Eval(captureElementJS, i.cfg.CaptureStyles))
	if err != nil {
		return types.ElementInfo{}, fmt.Errorf("capture %q: %w", selector, err)
	}

	var info types.ElementInfo
	if err := json.Unmarshal([]byte(res.Value.Str()), &info); err != nil {
		return types.ElementInfo{}, fmt.Errorf("decode capture of %q: %w", selector, err)
	}
	if info.ComputedStyles != nil && len(info.ComputedStyles.Properties()) == 0 {
		info.ComputedStyles = nil
	}
	return info, nil
}

// CaptureElements captures several selectors concurrently. Results keep the
// order of selectors; the first failure cancels the rest.
func (i *Inspector) CaptureElements(ctx context.Context, page *rod.Page, selectors []string) ([]types.ElementInfo, error) {
	out := make([]types.ElementInfo, len(selectors))
	g, gctx := errgroup.WithContext(ctx)
	if i.cfg.MaxParallel > 0 {
		g.SetLimit(i.cfg.MaxParallel)
	}
	for idx, sel := range selectors {
		idx, sel := idx, sel
		g.Go(func() error {
			info, err := i.CaptureElement(gctx, page, sel)
			if err != nil {
				return err
			}
			out[idx] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// CaptureSelection returns the text the user has selected inside the
// element, "" when the selection is empty or elsewhere.
func (i *Inspector) CaptureSelection(ctx context.Context, page *rod.Page, selector string) (string, error) {
	el, err := find(ctx, page, selector)
	if err != nil {
		return "", err
	}
	res, err := el.Evaluate(rod.Eval(captureSelectionJS))
	if err != nil {
		return "", fmt.Errorf("read selection in %q: %w", selector, err)
	}
	return res.Value.Str(), nil
}

// Environment returns a live environment source for page.
func (i *Inspector) Environment(page *rod.Page) *PageEnvironment {
	return &PageEnvironment{Page: page, Timeout: 5 * time.Second, Logger: i.logger}
}

// Close shuts the browser down.
func (i *Inspector) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.browser == nil {
		return nil
	}
	err := i.browser.Close()
	i.browser = nil
	i.controlURL = ""
	return err
}

func find(ctx context.Context, page *rod.Page, selector string) (*rod.Element, error) {
	found, el, err := page.Context(ctx).Has(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	if !found {
		return nil, fmt.Errorf("%q: %w", selector, ErrElementNotFound)
	}
	return el, nil
}
