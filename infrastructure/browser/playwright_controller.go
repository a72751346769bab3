package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
)

type playwrightController struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	context  playwright.BrowserContext
	page     playwright.Page
	resolver entities.SelectorResolver
	opts     Options
	logger   *logrus.Logger
}

// NewPlaywrightController - launches Chromium through playwright
func NewPlaywrightController(opts Options, logger *logrus.Logger) (interfaces.Session, error) {
	opts = opts.withDefaults()

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--disable-dev-shm-usage",
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-infobars",
			"--disable-notifications",
		},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.OnDialog(func(dialog playwright.Dialog) {
		dialog.Accept()
	})

	logger.Infof("Playwright session ready (headless=%t)", opts.Headless)

	return &playwrightController{
		pw:       pw,
		browser:  browser,
		context:  browserCtx,
		page:     page,
		resolver: entities.NewSelectorResolver(opts.SelectorAttribute),
		opts:     opts,
		logger:   logger,
	}, nil
}

func (b *playwrightController) locator(selector string) playwright.Locator {
	return b.page.Locator(b.resolver.Resolve(selector)).First()
}

func millis(d time.Duration) *float64 {
	return playwright.Float(float64(d / time.Millisecond))
}

// Navigate - navigates to the specified URL
func (b *playwrightController) Navigate(ctx context.Context, url string) error {
	b.logger.Infof("Navigating to: %s", url)
	_, err := b.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   millis(b.opts.NavigationTimeout),
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

type playwrightElement struct {
	locator playwright.Locator
}

func (e *playwrightElement) IsDisplayed(ctx context.Context) (bool, error) {
	return e.locator.IsVisible()
}

func (e *playwrightElement) Text(ctx context.Context) (string, error) {
	return e.locator.InnerText()
}

// FindElement - returns the first match without waiting
func (b *playwrightController) FindElement(ctx context.Context, selector string) (interfaces.Element, error) {
	locator := b.locator(selector)
	count, err := locator.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", selector, err)
	}
	if count == 0 {
		return nil, nil
	}
	return &playwrightElement{locator: locator}, nil
}

// Click - clicks on an element once it is visible
func (b *playwrightController) Click(ctx context.Context, selector string) error {
	locator := b.locator(selector)

	err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: millis(b.opts.ActionTimeout),
	})
	if err != nil {
		return notFoundError(selector, err)
	}

	return locator.Click()
}

// TypeInto - fills an input field
func (b *playwrightController) TypeInto(ctx context.Context, selector string, text string) error {
	locator := b.locator(selector)

	err := locator.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: millis(b.opts.ActionTimeout),
	})
	if err != nil {
		return notFoundError(selector, err)
	}

	return locator.Fill(text)
}

// SendKey - presses key on the focused element
func (b *playwrightController) SendKey(ctx context.Context, key interfaces.Key) error {
	return b.page.Keyboard().Press(string(key))
}

// WaitFor - waits for an element to become visible
func (b *playwrightController) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	err := b.locator(selector).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: millis(timeout),
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return timeoutError(selector, timeout, err)
	}
	return fmt.Errorf("failed waiting for %s: %w", selector, err)
}

func (b *playwrightController) Pause(ctx context.Context, d time.Duration) error {
	return pause(ctx, d)
}

func (b *playwrightController) AssertTextContains(ctx context.Context, selector string, text string) error {
	return assertTextContains(ctx, b, selector, text)
}

func (b *playwrightController) AssertTextNotContains(ctx context.Context, selector string, text string) error {
	return assertTextNotContains(ctx, b, selector, text)
}

func (b *playwrightController) AssertElementAbsent(ctx context.Context, selector string) error {
	return assertElementAbsent(ctx, b, selector)
}

// Screenshot - takes a screenshot of the current page
func (b *playwrightController) Screenshot(ctx context.Context) ([]byte, error) {
	return b.page.Screenshot()
}

// Close - closes the browser and stops the driver
func (b *playwrightController) Close() error {
	var closeErr error

	if b.context != nil {
		if err := b.context.Close(); err != nil && !isClosedError(err) {
			closeErr = fmt.Errorf("failed to close context: %w", err)
		}
		b.context = nil
	}

	if b.browser != nil {
		if err := b.browser.Close(); err != nil && !isClosedError(err) {
			closeErr = errors.Join(closeErr, fmt.Errorf("failed to close browser: %w", err))
		}
		b.browser = nil
	}

	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("failed to stop playwright: %w", err))
		}
		b.pw = nil
	}

	return closeErr
}

// isClosedError - reports errors raised because the target is already gone
func isClosedError(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}
