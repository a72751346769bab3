package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

type SeleniumController struct {
	wd       selenium.WebDriver
	service  *selenium.Service
	resolver entities.SelectorResolver
	opts     Options
	logger   *logrus.Logger
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	candidates := []string{configured, os.Getenv("BROWSER_DRIVER_PATH")}
	candidates = append(candidates,
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	)

	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set HARNESS_CHROMEDRIVER_PATH")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(configured string) string {
	candidates := []string{configured, os.Getenv("CHROME_BINARY_PATH")}
	candidates = append(candidates,
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
	)

	for _, path := range candidates {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// NewSeleniumController - starts chromedriver and opens a remote session
func NewSeleniumController(opts Options, logger *logrus.Logger) (*SeleniumController, error) {
	opts = opts.withDefaults()

	driverPath, err := findChromeDriver(opts.ChromeDriverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}
	logger.Infof("Using ChromeDriver at: %s", driverPath)

	service, err := selenium.NewChromeDriverService(driverPath, opts.ChromeDriverPort)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	args := []string{
		"--disable-dev-shm-usage",
		"--no-sandbox",
		fmt.Sprintf("--window-size=%d,%d", opts.ViewportWidth, opts.ViewportHeight),
	}
	if opts.Headless {
		args = append(args, "--headless=new")
	}

	chromeCaps := chrome.Capabilities{Args: args}
	if chromeBinary := findChromeBinary(opts.ChromeBinaryPath); chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
		chromeCaps.Path = chromeBinary
	}

	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", opts.ChromeDriverPort))
	if err != nil {
		service.Stop()
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found, set HARNESS_CHROME_BINARY_PATH: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	return &SeleniumController{
		wd:       wd,
		service:  service,
		resolver: entities.NewSelectorResolver(opts.SelectorAttribute),
		opts:     opts,
		logger:   logger,
	}, nil
}

// Navigate - navigates browser to specified URL
func (s *SeleniumController) Navigate(ctx context.Context, url string) error {
	s.logger.Infof("Navigating to: %s", url)
	return s.wd.Get(url)
}

type seleniumElement struct {
	el selenium.WebElement
}

func (e *seleniumElement) IsDisplayed(ctx context.Context) (bool, error) {
	return e.el.IsDisplayed()
}

func (e *seleniumElement) Text(ctx context.Context) (string, error) {
	return e.el.Text()
}

// first - returns the first CSS match or nil
func (s *SeleniumController) first(selector string) (selenium.WebElement, error) {
	elements, err := s.wd.FindElements(selenium.ByCSSSelector, s.resolver.Resolve(selector))
	if err != nil {
		if strings.Contains(err.Error(), "no such element") {
			return nil, nil
		}
		return nil, err
	}
	if len(elements) == 0 {
		return nil, nil
	}
	return elements[0], nil
}

// FindElement - checks for a match without waiting
func (s *SeleniumController) FindElement(ctx context.Context, selector string) (interfaces.Element, error) {
	el, err := s.first(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", selector, err)
	}
	if el == nil {
		return nil, nil
	}
	return &seleniumElement{el: el}, nil
}

// visibleElement - waits up to timeout for selector to be present and displayed
func (s *SeleniumController) visibleElement(selector string, timeout time.Duration) (selenium.WebElement, error) {
	var found selenium.WebElement
	err := s.wd.WaitWithTimeoutAndInterval(func(wd selenium.WebDriver) (bool, error) {
		el, err := s.first(selector)
		if err != nil || el == nil {
			return false, nil
		}
		visible, err := el.IsDisplayed()
		if err != nil || !visible {
			return false, nil
		}
		found = el
		return true, nil
	}, timeout, 100*time.Millisecond)
	return found, err
}

// Click - scrolls element into view and clicks it
func (s *SeleniumController) Click(ctx context.Context, selector string) error {
	element, err := s.visibleElement(selector, s.opts.ActionTimeout)
	if err != nil {
		return notFoundError(selector, err)
	}

	script := `arguments[0].scrollIntoView({ block: 'center' }); return true;`
	if _, err := s.wd.ExecuteScript(script, []interface{}{element}); err != nil {
		s.logger.Warnf("Failed to scroll to element: %v", err)
	}

	return element.Click()
}

// TypeInto - clears the input and types text one key at a time
func (s *SeleniumController) TypeInto(ctx context.Context, selector string, text string) error {
	element, err := s.visibleElement(selector, s.opts.ActionTimeout)
	if err != nil {
		return notFoundError(selector, err)
	}

	if err := element.Clear(); err != nil {
		s.logger.Warnf("Failed to clear element: %v", err)
	}

	for _, char := range text {
		if err := element.SendKeys(string(char)); err != nil {
			return fmt.Errorf("failed to type character: %w", err)
		}
		if err := pause(ctx, 50*time.Millisecond); err != nil {
			return err
		}
	}

	return nil
}

// SendKey - sends key to the active element
func (s *SeleniumController) SendKey(ctx context.Context, key interfaces.Key) error {
	var code string
	switch key {
	case interfaces.KeyEscape:
		code = selenium.EscapeKey
	case interfaces.KeyEnter:
		code = selenium.EnterKey
	default:
		return fmt.Errorf("unsupported key %q", key)
	}

	active, err := s.wd.ActiveElement()
	if err != nil {
		return fmt.Errorf("no active element: %w", err)
	}
	return active.SendKeys(code)
}

// WaitFor - polls until the element is displayed
func (s *SeleniumController) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if _, err := s.visibleElement(selector, timeout); err != nil {
		return timeoutError(selector, timeout, err)
	}
	return nil
}

func (s *SeleniumController) Pause(ctx context.Context, d time.Duration) error {
	return pause(ctx, d)
}

func (s *SeleniumController) AssertTextContains(ctx context.Context, selector string, text string) error {
	return assertTextContains(ctx, s, selector, text)
}

func (s *SeleniumController) AssertTextNotContains(ctx context.Context, selector string, text string) error {
	return assertTextNotContains(ctx, s, selector, text)
}

func (s *SeleniumController) AssertElementAbsent(ctx context.Context, selector string) error {
	return assertElementAbsent(ctx, s, selector)
}

// Screenshot - takes screenshot of current page
func (s *SeleniumController) Screenshot(ctx context.Context) ([]byte, error) {
	return s.wd.Screenshot()
}

// Close - closes browser and stops ChromeDriver service
func (s *SeleniumController) Close() error {
	if s.wd != nil {
		s.wd.Quit()
		s.wd = nil
	}
	if s.service != nil {
		s.service.Stop()
		s.service = nil
	}
	return nil
}

var _ interfaces.Session = (*SeleniumController)(nil)
