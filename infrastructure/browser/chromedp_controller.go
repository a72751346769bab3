package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/sirupsen/logrus"
)

// ChromedpController drives Chrome over the DevTools protocol
type ChromedpController struct {
	browserCtx    context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
	resolver      entities.SelectorResolver
	opts          Options
	logger        *logrus.Logger
}

// NewChromedpController - starts a Chrome allocator and opens a tab
func NewChromedpController(opts Options, logger *logrus.Logger) (*ChromedpController, error) {
	opts = opts.withDefaults()

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(opts.ViewportWidth, opts.ViewportHeight),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logger.Debugf),
		chromedp.WithErrorf(logger.Errorf),
	)

	// first Run starts the browser
	viewport := emulation.SetDeviceMetricsOverride(int64(opts.ViewportWidth), int64(opts.ViewportHeight), 1, false)
	if err := chromedp.Run(browserCtx, viewport); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	logger.Infof("Chromedp session ready (headless=%t)", opts.Headless)

	return &ChromedpController{
		browserCtx:    browserCtx,
		cancelAlloc:   cancelAlloc,
		cancelBrowser: cancelBrowser,
		resolver:      entities.NewSelectorResolver(opts.SelectorAttribute),
		opts:          opts,
		logger:        logger,
	}, nil
}

// run executes actions on the browser tab, stopping early when ctx ends.
// A zero timeout leaves the run unbounded.
func (c *ChromedpController) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(c.browserCtx)
	defer cancel()
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, timeout)
		defer cancel()
	}

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

// jsQuery - returns a JS expression evaluating to the first node matching selector
func jsQuery(css string) string {
	quoted, _ := json.Marshal(css)
	return fmt.Sprintf("document.querySelector(%s)", quoted)
}

type chromedpElement struct {
	controller *ChromedpController
	css        string
}

func (e *chromedpElement) IsDisplayed(ctx context.Context) (bool, error) {
	script := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return false;
		const style = window.getComputedStyle(el);
		return style.display !== 'none' && style.visibility !== 'hidden' && el.getClientRects().length > 0;
	})()`, jsQuery(e.css))

	var visible bool
	if err := e.controller.run(ctx, 0, chromedp.Evaluate(script, &visible)); err != nil {
		return false, err
	}
	return visible, nil
}

func (e *chromedpElement) Text(ctx context.Context) (string, error) {
	script := fmt.Sprintf(`(() => { const el = %s; return el ? el.innerText : ""; })()`, jsQuery(e.css))

	var text string
	if err := e.controller.run(ctx, 0, chromedp.Evaluate(script, &text)); err != nil {
		return "", err
	}
	return text, nil
}

// Navigate - navigates to the URL and waits for the body
func (c *ChromedpController) Navigate(ctx context.Context, url string) error {
	c.logger.Infof("Navigating to: %s", url)
	err := c.run(ctx, c.opts.NavigationTimeout,
		chromedp.Navigate(url),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// FindElement - checks for a match without waiting
func (c *ChromedpController) FindElement(ctx context.Context, selector string) (interfaces.Element, error) {
	css := c.resolver.Resolve(selector)

	var exists bool
	if err := c.run(ctx, 0, chromedp.Evaluate(jsQuery(css)+" !== null", &exists)); err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", selector, err)
	}
	if !exists {
		return nil, nil
	}
	return &chromedpElement{controller: c, css: css}, nil
}

// Click - clicks an element once it is visible
func (c *ChromedpController) Click(ctx context.Context, selector string) error {
	css := c.resolver.Resolve(selector)
	err := c.run(ctx, c.opts.ActionTimeout,
		chromedp.WaitVisible(css, chromedp.ByQuery),
		chromedp.Click(css, chromedp.ByQuery),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		return notFoundError(selector, err)
	}
	return err
}

// TypeInto - clears the input then sends text as key events
func (c *ChromedpController) TypeInto(ctx context.Context, selector string, text string) error {
	css := c.resolver.Resolve(selector)
	err := c.run(ctx, c.opts.ActionTimeout,
		chromedp.WaitVisible(css, chromedp.ByQuery),
		chromedp.Clear(css, chromedp.ByQuery),
		chromedp.SendKeys(css, text, chromedp.ByQuery),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		return notFoundError(selector, err)
	}
	return err
}

// SendKey - dispatches key to the focused element
func (c *ChromedpController) SendKey(ctx context.Context, key interfaces.Key) error {
	var code string
	switch key {
	case interfaces.KeyEscape:
		code = kb.Escape
	case interfaces.KeyEnter:
		code = kb.Enter
	default:
		code = string(key)
	}
	return c.run(ctx, c.opts.ActionTimeout, chromedp.KeyEvent(code))
}

// WaitFor - waits for an element to be visible
func (c *ChromedpController) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	css := c.resolver.Resolve(selector)
	err := c.run(ctx, timeout, chromedp.WaitVisible(css, chromedp.ByQuery))
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return timeoutError(selector, timeout, err)
	}
	return fmt.Errorf("failed waiting for %s: %w", selector, err)
}

func (c *ChromedpController) Pause(ctx context.Context, d time.Duration) error {
	return pause(ctx, d)
}

func (c *ChromedpController) AssertTextContains(ctx context.Context, selector string, text string) error {
	return assertTextContains(ctx, c, selector, text)
}

func (c *ChromedpController) AssertTextNotContains(ctx context.Context, selector string, text string) error {
	return assertTextNotContains(ctx, c, selector, text)
}

func (c *ChromedpController) AssertElementAbsent(ctx context.Context, selector string) error {
	return assertElementAbsent(ctx, c, selector)
}

// Screenshot - captures the viewport
func (c *ChromedpController) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := c.run(ctx, c.opts.ActionTimeout, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}

// Close - closes the tab and the browser process
func (c *ChromedpController) Close() error {
	var err error
	if c.browserCtx != nil {
		err = chromedp.Cancel(c.browserCtx)
		c.browserCtx = nil
	}
	if c.cancelBrowser != nil {
		c.cancelBrowser()
	}
	if c.cancelAlloc != nil {
		c.cancelAlloc()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to close chrome: %w", err)
	}
	return nil
}

var _ interfaces.Session = (*ChromedpController)(nil)
