package browser

import (
	"context"
	"sync"
	"time"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// Recorder wraps a Session and journals every call made through it
type Recorder struct {
	session interfaces.Session
	now     func() time.Time

	mu    sync.Mutex
	steps []entities.Step
}

// NewRecorder - creates recorder around session, now defaults to time.Now
func NewRecorder(session interfaces.Session, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{session: session, now: now}
}

// Session - returns the wrapped session
func (r *Recorder) Session() interfaces.Session {
	return r.session
}

// Steps - returns a copy of the recorded steps
func (r *Recorder) Steps() []entities.Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entities.Step, len(r.steps))
	copy(out, r.steps)
	return out
}

// Reset - drops recorded steps
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = nil
}

func (r *Recorder) record(action entities.ActionType, selector, text string, started time.Time, err error) {
	step := entities.Step{
		Action:   action,
		Selector: selector,
		Text:     text,
		Duration: r.now().Sub(started),
	}
	if err != nil {
		step.Error = err.Error()
	}

	r.mu.Lock()
	r.steps = append(r.steps, step)
	r.mu.Unlock()
}

func (r *Recorder) FindElement(ctx context.Context, selector string) (interfaces.Element, error) {
	started := r.now()
	el, err := r.session.FindElement(ctx, selector)
	r.record(entities.ActionFind, selector, "", started, err)
	return el, err
}

func (r *Recorder) Click(ctx context.Context, selector string) error {
	started := r.now()
	err := r.session.Click(ctx, selector)
	r.record(entities.ActionClick, selector, "", started, err)
	return err
}

func (r *Recorder) TypeInto(ctx context.Context, selector string, text string) error {
	started := r.now()
	err := r.session.TypeInto(ctx, selector, text)
	r.record(entities.ActionTypeText, selector, text, started, err)
	return err
}

func (r *Recorder) SendKey(ctx context.Context, key interfaces.Key) error {
	started := r.now()
	err := r.session.SendKey(ctx, key)
	r.record(entities.ActionKey, "", string(key), started, err)
	return err
}

func (r *Recorder) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	started := r.now()
	err := r.session.WaitFor(ctx, selector, timeout)
	r.record(entities.ActionWait, selector, timeout.String(), started, err)
	return err
}

func (r *Recorder) Pause(ctx context.Context, d time.Duration) error {
	started := r.now()
	err := r.session.Pause(ctx, d)
	r.record(entities.ActionPause, "", d.String(), started, err)
	return err
}

func (r *Recorder) AssertTextContains(ctx context.Context, selector string, text string) error {
	started := r.now()
	err := r.session.AssertTextContains(ctx, selector, text)
	r.record(entities.ActionAssertContains, selector, text, started, err)
	return err
}

func (r *Recorder) AssertTextNotContains(ctx context.Context, selector string, text string) error {
	started := r.now()
	err := r.session.AssertTextNotContains(ctx, selector, text)
	r.record(entities.ActionAssertNotContains, selector, text, started, err)
	return err
}

func (r *Recorder) AssertElementAbsent(ctx context.Context, selector string) error {
	started := r.now()
	err := r.session.AssertElementAbsent(ctx, selector)
	r.record(entities.ActionAssertAbsent, selector, "", started, err)
	return err
}

func (r *Recorder) Navigate(ctx context.Context, url string) error {
	started := r.now()
	err := r.session.Navigate(ctx, url)
	r.record(entities.ActionNavigate, "", url, started, err)
	return err
}

func (r *Recorder) Screenshot(ctx context.Context) ([]byte, error) {
	started := r.now()
	png, err := r.session.Screenshot(ctx)
	r.record(entities.ActionScreenshot, "", "", started, err)
	return png, err
}

func (r *Recorder) Close() error {
	return r.session.Close()
}

var _ interfaces.Session = (*Recorder)(nil)
