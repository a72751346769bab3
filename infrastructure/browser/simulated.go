package browser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// ErrNoScreen is returned by SimulatedDriver.Screenshot
var ErrNoScreen = errors.New("simulated session has no screen")

// SimulatedField describes a searchable widget rendered by SimulatedDriver
type SimulatedField struct {
	Attribute string   `yaml:"field" json:"field"`
	Mode      string   `yaml:"mode,omitempty" json:"mode,omitempty"`
	Options   []string `yaml:"options" json:"options"`

	// Debounce is how long after the last keystroke results take to render
	Debounce time.Duration `yaml:"debounce,omitempty" json:"debounce,omitempty"`

	// Nullable fields render a clear button while something is selected
	Nullable bool   `yaml:"nullable,omitempty" json:"nullable,omitempty"`
	Selected string `yaml:"selected,omitempty" json:"selected,omitempty"`
}

type simWidget struct {
	SimulatedField
	root    string
	open    bool
	query   string
	typed   bool
	typedAt time.Duration
}

// SimulatedDriver is an in-process model of searchable widgets. Time is
// virtual: Pause and WaitFor advance the clock instead of sleeping, so
// debounce behaviour is deterministic.
type SimulatedDriver struct {
	mu       sync.Mutex
	widgets  map[string]*simWidget
	now      time.Duration
	pollStep time.Duration
	url      string
}

// NewSimulatedDriver - creates simulated session with the given fields
func NewSimulatedDriver(fields ...SimulatedField) *SimulatedDriver {
	d := &SimulatedDriver{
		widgets:  make(map[string]*simWidget),
		pollStep: 50 * time.Millisecond,
	}
	for _, f := range fields {
		d.AddField(f)
	}
	return d
}

// AddField - registers or replaces a widget
func (d *SimulatedDriver) AddField(f SimulatedField) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ref := entities.NewFieldReference(f.Attribute, f.Mode)
	root := strings.TrimPrefix(ref.Selector(), "@")
	d.widgets[root] = &simWidget{SimulatedField: f, root: root}
}

// Elapsed - returns virtual time spent in pauses and waits
func (d *SimulatedDriver) Elapsed() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.now
}

// URL - returns the last navigated URL
func (d *SimulatedDriver) URL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url
}

// IsOpen - reports whether the dropdown of the field is open
func (d *SimulatedDriver) IsOpen(ref entities.FieldReference) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w, ok := d.widgets[strings.TrimPrefix(ref.Selector(), "@")]; ok {
		return w.open
	}
	return false
}

// SelectedValue - returns the current selection of the field
func (d *SimulatedDriver) SelectedValue(ref entities.FieldReference) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if w, ok := d.widgets[strings.TrimPrefix(ref.Selector(), "@")]; ok {
		return w.Selected
	}
	return ""
}

// simTarget is a parsed selector: the widget and which part of it
type simTarget struct {
	widget *simWidget
	part   string
	index  int
}

// lookup resolves a "@root-suffix [css]" selector to a widget part. Must hold mu.
func (d *SimulatedDriver) lookup(selector string) (simTarget, bool) {
	if !strings.HasPrefix(selector, "@") {
		return simTarget{}, false
	}
	name, rest, _ := strings.Cut(strings.TrimPrefix(selector, "@"), " ")
	rest = strings.TrimSpace(rest)

	roots := make([]string, 0, len(d.widgets))
	for root := range d.widgets {
		roots = append(roots, root)
	}
	// longest root first so "a-search-input" never shadows "a-search-input-x"
	sort.Slice(roots, func(i, j int) bool { return len(roots[i]) > len(roots[j]) })

	for _, root := range roots {
		w := d.widgets[root]
		if name == root {
			return simTarget{widget: w, part: "root"}, rest == ""
		}
		suffix, ok := strings.CutPrefix(name, root+"-")
		if !ok {
			continue
		}
		switch {
		case suffix == "dropdown" && rest == `input[type="search"]`:
			return simTarget{widget: w, part: "input"}, true
		case rest != "":
			return simTarget{}, false
		case suffix == "dropdown", suffix == "clear-button", suffix == "selected", suffix == "results":
			return simTarget{widget: w, part: suffix}, true
		case strings.HasPrefix(suffix, "result-"):
			n, err := strconv.Atoi(strings.TrimPrefix(suffix, "result-"))
			if err != nil || n < 0 {
				return simTarget{}, false
			}
			return simTarget{widget: w, part: "result", index: n}, true
		}
	}
	return simTarget{}, false
}

// debouncing reports whether a search is still pending. Must hold mu.
func (d *SimulatedDriver) debouncing(w *simWidget) bool {
	return w.typed && d.now-w.typedAt < w.Debounce
}

// rendered returns the matches currently shown in the dropdown. Must hold mu.
func (d *SimulatedDriver) rendered(w *simWidget) []string {
	if !w.open || d.debouncing(w) {
		return nil
	}
	query := strings.ToLower(w.query)
	var matches []string
	for _, opt := range w.Options {
		if strings.Contains(strings.ToLower(opt), query) {
			matches = append(matches, opt)
		}
	}
	return matches
}

// present reports whether the target is in the DOM. Must hold mu.
func (d *SimulatedDriver) present(t simTarget) bool {
	w := t.widget
	switch t.part {
	case "root":
		return true
	case "dropdown", "input":
		return w.open
	case "results":
		return w.open && !d.debouncing(w)
	case "result":
		return t.index < len(d.rendered(w))
	case "selected":
		return w.Selected != ""
	case "clear-button":
		return w.Nullable && w.Selected != ""
	}
	return false
}

// text returns the visible text of the target. Must hold mu.
func (d *SimulatedDriver) text(t simTarget) string {
	w := t.widget
	switch t.part {
	case "root", "selected":
		return w.Selected
	case "results", "dropdown":
		return strings.Join(d.rendered(w), "\n")
	case "result":
		matches := d.rendered(w)
		if t.index < len(matches) {
			return matches[t.index]
		}
	case "input":
		return w.query
	}
	return ""
}

type simElement struct {
	driver   *SimulatedDriver
	selector string
}

func (e *simElement) IsDisplayed(ctx context.Context) (bool, error) {
	e.driver.mu.Lock()
	defer e.driver.mu.Unlock()
	t, ok := e.driver.lookup(e.selector)
	return ok && e.driver.present(t), nil
}

func (e *simElement) Text(ctx context.Context) (string, error) {
	e.driver.mu.Lock()
	defer e.driver.mu.Unlock()
	t, ok := e.driver.lookup(e.selector)
	if !ok || !e.driver.present(t) {
		return "", fmt.Errorf("%w: %s", entities.ErrElementNotFound, e.selector)
	}
	return e.driver.text(t), nil
}

// FindElement - returns a live handle when selector is present
func (d *SimulatedDriver) FindElement(ctx context.Context, selector string) (interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.lookup(selector)
	if !ok || !d.present(t) {
		return nil, nil
	}
	return &simElement{driver: d, selector: selector}, nil
}

// Click - clicks root (opens), a result (selects) or the clear button (clears)
func (d *SimulatedDriver) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.lookup(selector)
	if !ok || !d.present(t) {
		return fmt.Errorf("%w: %s", entities.ErrElementNotFound, selector)
	}

	w := t.widget
	switch t.part {
	case "root":
		w.open = true
	case "result":
		w.Selected = d.rendered(w)[t.index]
		d.close(w)
	case "clear-button":
		w.Selected = ""
	}
	return nil
}

// close must hold mu
func (d *SimulatedDriver) close(w *simWidget) {
	w.open = false
	w.query = ""
	w.typed = false
}

// TypeInto - sets the query of an open dropdown and restarts its debounce
func (d *SimulatedDriver) TypeInto(ctx context.Context, selector string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.lookup(selector)
	if !ok || t.part != "input" || !d.present(t) {
		return fmt.Errorf("%w: %s", entities.ErrElementNotFound, selector)
	}
	t.widget.query = text
	t.widget.typed = true
	t.widget.typedAt = d.now
	return nil
}

// SendKey - Escape closes open dropdowns, Enter picks the first rendered result
func (d *SimulatedDriver) SendKey(ctx context.Context, key interfaces.Key) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, w := range d.widgets {
		if !w.open {
			continue
		}
		switch key {
		case interfaces.KeyEscape:
			d.close(w)
		case interfaces.KeyEnter:
			if matches := d.rendered(w); len(matches) > 0 {
				w.Selected = matches[0]
				d.close(w)
			}
		default:
			return fmt.Errorf("unsupported key %q", key)
		}
	}
	return nil
}

// WaitFor - advances the virtual clock until selector is visible or timeout
func (d *SimulatedDriver) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	var waited time.Duration
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		d.mu.Lock()
		t, ok := d.lookup(selector)
		visible := ok && d.present(t)
		if !visible && waited < timeout {
			d.now += d.pollStep
			waited += d.pollStep
		}
		d.mu.Unlock()

		if visible {
			return nil
		}
		if waited >= timeout {
			return fmt.Errorf("%w: %s after %s", entities.ErrTimeout, selector, timeout)
		}
	}
}

// Pause - advances the virtual clock by dur
func (d *SimulatedDriver) Pause(ctx context.Context, dur time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if dur > 0 {
		d.now += dur
	}
	return nil
}

func (d *SimulatedDriver) AssertTextContains(ctx context.Context, selector string, text string) error {
	return assertTextContains(ctx, d, selector, text)
}

func (d *SimulatedDriver) AssertTextNotContains(ctx context.Context, selector string, text string) error {
	return assertTextNotContains(ctx, d, selector, text)
}

func (d *SimulatedDriver) AssertElementAbsent(ctx context.Context, selector string) error {
	return assertElementAbsent(ctx, d, selector)
}

// Navigate - records url and returns every widget to its resting state
func (d *SimulatedDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = url
	for _, w := range d.widgets {
		d.close(w)
	}
	return nil
}

func (d *SimulatedDriver) Screenshot(ctx context.Context) ([]byte, error) {
	return nil, ErrNoScreen
}

func (d *SimulatedDriver) Close() error {
	return nil
}

var _ interfaces.Session = (*SimulatedDriver)(nil)
