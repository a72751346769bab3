package interfaces

import (
	"context"
	"time"
)

// Key names a keyboard key sent to the active element
type Key string

const (
	KeyEscape Key = "Escape"
	KeyEnter  Key = "Enter"
)

// Element is a handle to a DOM node found by a Driver
type Element interface {
	// IsDisplayed reports whether the element is rendered and visible
	IsDisplayed(ctx context.Context) (bool, error)

	// Text returns the visible text of the element
	Text(ctx context.Context) (string, error)
}

// Driver is the browser-automation capability set the search harness consumes.
// Selectors may use "@name" shorthand; drivers resolve it before querying.
type Driver interface {
	// FindElement returns the first match, or nil without error when nothing matches
	FindElement(ctx context.Context, selector string) (Element, error)

	// Click clicks the element matched by selector
	Click(ctx context.Context, selector string) error

	// TypeInto replaces the value of the matched input with text
	TypeInto(ctx context.Context, selector string, text string) error

	// SendKey presses key on whatever element has focus
	SendKey(ctx context.Context, key Key) error

	// WaitFor blocks until selector is present and visible or timeout elapses
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error

	// Pause blocks for d
	Pause(ctx context.Context, d time.Duration) error

	// AssertTextContains fails unless the matched element's text contains text
	AssertTextContains(ctx context.Context, selector string, text string) error

	// AssertTextNotContains fails if the matched element's text contains text
	AssertTextNotContains(ctx context.Context, selector string, text string) error

	// AssertElementAbsent fails if selector matches anything
	AssertElementAbsent(ctx context.Context, selector string) error
}

// Session is a Driver bound to a live browser page
type Session interface {
	Driver

	// Navigate navigates to a URL
	Navigate(ctx context.Context, url string) error

	// Screenshot captures the current viewport as PNG
	Screenshot(ctx context.Context) ([]byte, error)

	// Close closes the browser
	Close() error
}
