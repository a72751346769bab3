package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

type elementFinder interface {
	FindElement(ctx context.Context, selector string) (interfaces.Element, error)
}

// findOrFail - finds selector, ErrElementNotFound when it matches nothing
func findOrFail(ctx context.Context, f elementFinder, selector string) (interfaces.Element, error) {
	el, err := f.FindElement(ctx, selector)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, fmt.Errorf("%w: %s", entities.ErrElementNotFound, selector)
	}
	return el, nil
}

// assertTextContains - fails unless selector's text contains text
func assertTextContains(ctx context.Context, f elementFinder, selector, text string) error {
	el, err := findOrFail(ctx, f, selector)
	if err != nil {
		return err
	}
	actual, err := el.Text(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(actual, text) {
		return entities.AssertionError("did not see %q within %s, found %q", text, selector, actual)
	}
	return nil
}

// assertTextNotContains - fails if selector's text contains text
func assertTextNotContains(ctx context.Context, f elementFinder, selector, text string) error {
	el, err := findOrFail(ctx, f, selector)
	if err != nil {
		return err
	}
	actual, err := el.Text(ctx)
	if err != nil {
		return err
	}
	if strings.Contains(actual, text) {
		return entities.AssertionError("saw unexpected %q within %s", text, selector)
	}
	return nil
}

// assertElementAbsent - fails if selector matches anything
func assertElementAbsent(ctx context.Context, f elementFinder, selector string) error {
	el, err := f.FindElement(ctx, selector)
	if err != nil {
		return err
	}
	if el != nil {
		return entities.AssertionError("element %s is present", selector)
	}
	return nil
}

// pause - sleeps for d unless ctx is done first
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// timeoutError - wraps err as ErrTimeout for selector
func timeoutError(selector string, timeout time.Duration, err error) error {
	return fmt.Errorf("%w: %s after %s: %v", entities.ErrTimeout, selector, timeout, err)
}

// notFoundError - wraps err as ErrElementNotFound for selector
func notFoundError(selector string, err error) error {
	return fmt.Errorf("%w: %s: %v", entities.ErrElementNotFound, selector, err)
}
