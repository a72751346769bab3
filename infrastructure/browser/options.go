package browser

import "time"

// Backend names accepted by NewSession
const (
	BackendPlaywright = "playwright"
	BackendChromedp   = "chromedp"
	BackendRod        = "rod"
	BackendSelenium   = "selenium"
	BackendSimulated  = "simulated"
)

// Options configures a browser session
type Options struct {
	Headless          bool
	ViewportWidth     int
	ViewportHeight    int
	SelectorAttribute string

	// ActionTimeout bounds how long click and type wait for their element
	ActionTimeout time.Duration

	// NavigationTimeout bounds page loads
	NavigationTimeout time.Duration

	// Selenium only
	ChromeDriverPath string
	ChromeBinaryPath string
	ChromeDriverPort int
}

// DefaultOptions - returns options for a headless 1280x720 session
func DefaultOptions() Options {
	return Options{
		Headless:          true,
		ViewportWidth:     1280,
		ViewportHeight:    720,
		ActionTimeout:     5 * time.Second,
		NavigationTimeout: 30 * time.Second,
		ChromeDriverPort:  9515,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ViewportWidth == 0 {
		o.ViewportWidth = d.ViewportWidth
	}
	if o.ViewportHeight == 0 {
		o.ViewportHeight = d.ViewportHeight
	}
	if o.ActionTimeout == 0 {
		o.ActionTimeout = d.ActionTimeout
	}
	if o.NavigationTimeout == 0 {
		o.NavigationTimeout = d.NavigationTimeout
	}
	if o.ChromeDriverPort == 0 {
		o.ChromeDriverPort = d.ChromeDriverPort
	}
	return o
}
