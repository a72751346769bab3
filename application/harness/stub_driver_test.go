package harness

import (
	"context"
	"strings"
	"time"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// stubDriver serves a fixed DOM: selector -> text. It never changes state,
// which makes it useful for pinning down exactly what the harness inspects.
type stubDriver struct {
	dom   map[string]string
	calls []string
}

type stubElement struct{ text string }

func (e stubElement) IsDisplayed(ctx context.Context) (bool, error) { return true, nil }
func (e stubElement) Text(ctx context.Context) (string, error)      { return e.text, nil }

func (d *stubDriver) FindElement(ctx context.Context, selector string) (interfaces.Element, error) {
	d.calls = append(d.calls, "find "+selector)
	if text, ok := d.dom[selector]; ok {
		return stubElement{text: text}, nil
	}
	return nil, nil
}

func (d *stubDriver) Click(ctx context.Context, selector string) error {
	d.calls = append(d.calls, "click "+selector)
	return nil
}

func (d *stubDriver) TypeInto(ctx context.Context, selector string, text string) error {
	d.calls = append(d.calls, "type "+selector)
	return nil
}

func (d *stubDriver) SendKey(ctx context.Context, key interfaces.Key) error {
	d.calls = append(d.calls, "key "+string(key))
	return nil
}

func (d *stubDriver) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	d.calls = append(d.calls, "wait "+selector)
	if _, ok := d.dom[selector]; !ok {
		return entities.ErrTimeout
	}
	return nil
}

func (d *stubDriver) Pause(ctx context.Context, dur time.Duration) error {
	d.calls = append(d.calls, "pause "+dur.String())
	return nil
}

func (d *stubDriver) AssertTextContains(ctx context.Context, selector string, text string) error {
	d.calls = append(d.calls, "see "+selector)
	actual, ok := d.dom[selector]
	if !ok {
		return entities.ErrElementNotFound
	}
	if !strings.Contains(actual, text) {
		return entities.AssertionError("did not see %q", text)
	}
	return nil
}

func (d *stubDriver) AssertTextNotContains(ctx context.Context, selector string, text string) error {
	d.calls = append(d.calls, "dont-see "+selector)
	if strings.Contains(d.dom[selector], text) {
		return entities.AssertionError("saw %q", text)
	}
	return nil
}

func (d *stubDriver) AssertElementAbsent(ctx context.Context, selector string) error {
	d.calls = append(d.calls, "absent "+selector)
	if _, ok := d.dom[selector]; ok {
		return entities.AssertionError("%s present", selector)
	}
	return nil
}
