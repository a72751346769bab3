package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
)

// RodController drives Chrome through go-rod
type RodController struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	resolver entities.SelectorResolver
	opts     Options
	logger   *logrus.Logger
}

// NewRodController - launches Chrome and opens a blank page
func NewRodController(opts Options, logger *logrus.Logger) (*RodController, error) {
	opts = opts.withDefaults()

	l := launcher.New().Headless(opts.Headless).NoSandbox(true)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		browser.Close()
		l.Kill()
		return nil, fmt.Errorf("create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.ViewportWidth,
		Height:            opts.ViewportHeight,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		logger.Warnf("failed to set viewport: %v", err)
	}

	logger.Infof("Rod session ready (headless=%t)", opts.Headless)

	return &RodController{
		launcher: l,
		browser:  browser,
		page:     page,
		resolver: entities.NewSelectorResolver(opts.SelectorAttribute),
		opts:     opts,
		logger:   logger,
	}, nil
}

// Navigate - navigates and waits for the load event
func (r *RodController) Navigate(ctx context.Context, url string) error {
	r.logger.Infof("Navigating to: %s", url)
	page := r.page.Context(ctx).Timeout(r.opts.NavigationTimeout)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("page did not load at %s: %w", url, err)
	}
	return nil
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) IsDisplayed(ctx context.Context) (bool, error) {
	return e.el.Context(ctx).Visible()
}

func (e *rodElement) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

// FindElement - checks for a match without waiting
func (r *RodController) FindElement(ctx context.Context, selector string) (interfaces.Element, error) {
	has, el, err := r.page.Context(ctx).Has(r.resolver.Resolve(selector))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", selector, err)
	}
	if !has {
		return nil, nil
	}
	return &rodElement{el: el}, nil
}

// visibleElement waits up to timeout for selector to exist and be visible
func (r *RodController) visibleElement(ctx context.Context, selector string, timeout time.Duration) (*rod.Element, error) {
	page := r.page.Context(ctx).Timeout(timeout)
	el, err := page.Element(r.resolver.Resolve(selector))
	if err != nil {
		return nil, err
	}
	if err := el.WaitVisible(); err != nil {
		return nil, err
	}
	return el.Context(ctx), nil
}

// Click - clicks an element once it is visible
func (r *RodController) Click(ctx context.Context, selector string) error {
	el, err := r.visibleElement(ctx, selector, r.opts.ActionTimeout)
	if err != nil {
		return notFoundError(selector, err)
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

// TypeInto - replaces the input value with text
func (r *RodController) TypeInto(ctx context.Context, selector string, text string) error {
	el, err := r.visibleElement(ctx, selector, r.opts.ActionTimeout)
	if err != nil {
		return notFoundError(selector, err)
	}
	if err := el.SelectAllText(); err != nil {
		r.logger.Warnf("Failed to select existing text in %s: %v", selector, err)
	}
	return el.Input(text)
}

// SendKey - presses key on the focused element
func (r *RodController) SendKey(ctx context.Context, key interfaces.Key) error {
	var k input.Key
	switch key {
	case interfaces.KeyEscape:
		k = input.Escape
	case interfaces.KeyEnter:
		k = input.Enter
	default:
		return fmt.Errorf("unsupported key %q", key)
	}
	return r.page.Context(ctx).Keyboard.Press(k)
}

// WaitFor - waits for an element to be visible
func (r *RodController) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	_, err := r.visibleElement(ctx, selector, timeout)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return timeoutError(selector, timeout, err)
	}
	return fmt.Errorf("failed waiting for %s: %w", selector, err)
}

func (r *RodController) Pause(ctx context.Context, d time.Duration) error {
	return pause(ctx, d)
}

func (r *RodController) AssertTextContains(ctx context.Context, selector string, text string) error {
	return assertTextContains(ctx, r, selector, text)
}

func (r *RodController) AssertTextNotContains(ctx context.Context, selector string, text string) error {
	return assertTextNotContains(ctx, r, selector, text)
}

func (r *RodController) AssertElementAbsent(ctx context.Context, selector string) error {
	return assertElementAbsent(ctx, r, selector)
}

// Screenshot - captures the viewport
func (r *RodController) Screenshot(ctx context.Context) ([]byte, error) {
	return r.page.Context(ctx).Screenshot(false, nil)
}

// Close - closes the browser and kills the launched process
func (r *RodController) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

var _ interfaces.Session = (*RodController)(nil)
