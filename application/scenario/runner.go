package scenario

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"ui_automation/application/harness"
	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// StepSource is implemented by sessions that journal their own calls
type StepSource interface {
	Steps() []entities.Step
	Reset()
}

// Runner executes scenarios one step at a time on a single session
type Runner struct {
	session interfaces.Session
	store   interfaces.JournalStore
	timings entities.Timings
	baseURL string
	logger  *logrus.Logger
	now     func() time.Time
}

// NewRunner - creates runner; store may be nil to skip persisting journals
func NewRunner(session interfaces.Session, store interfaces.JournalStore, timings entities.Timings, baseURL string, logger *logrus.Logger) *Runner {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Runner{
		session: session,
		store:   store,
		timings: timings.WithDefaults(),
		baseURL: baseURL,
		logger:  logger,
		now:     time.Now,
	}
}

// Harness - returns a harness for field bound to the runner's session
func (r *Runner) Harness(field, mode string) *harness.SearchInput {
	return harness.New(r.session, field,
		harness.WithMode(mode),
		harness.WithTimings(r.timings),
		harness.WithLogger(r.logger),
	)
}

// ResolveURL - joins a scenario URL onto the base URL unless it is absolute
func (r *Runner) ResolveURL(url string) string {
	if strings.Contains(url, "://") || r.baseURL == "" {
		return url
	}
	return strings.TrimRight(r.baseURL, "/") + "/" + strings.TrimLeft(url, "/")
}

// Navigate - opens url, relative to the base URL
func (r *Runner) Navigate(ctx context.Context, url string) error {
	return r.session.Navigate(ctx, r.ResolveURL(url))
}

// Run - executes sc, stopping at the first failing step. The journal is
// returned (and saved) whether or not the scenario passed.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*entities.Journal, error) {
	journal := &entities.Journal{
		ID:        uuid.NewString(),
		Scenario:  sc.Name,
		StartedAt: r.now(),
	}
	log := r.logger.WithFields(logrus.Fields{"scenario": sc.Name, "run": journal.ID})

	source, recording := r.session.(StepSource)
	if recording {
		source.Reset()
	}

	log.Info("Scenario started")
	runErr := r.runSteps(ctx, sc, log)

	if runErr != nil {
		log.WithError(runErr).Error("Scenario failed")
		journal.Error = runErr.Error()
		r.captureScreenshot(ctx, journal, log)
	} else {
		log.Info("Scenario passed")
	}

	journal.Passed = runErr == nil
	journal.FinishedAt = r.now()
	if recording {
		journal.Steps = source.Steps()
	}

	if r.store != nil {
		if err := r.store.SaveJournal(journal); err != nil {
			log.Warnf("Failed to save journal: %v", err)
		}
	}

	return journal, runErr
}

func (r *Runner) runSteps(ctx context.Context, sc *Scenario, log *logrus.Entry) error {
	if sc.URL != "" {
		if err := r.Navigate(ctx, sc.URL); err != nil {
			return err
		}
	}

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("scenario canceled: %w", err)
		}

		stepLog := log.WithField("step", i+1)
		stepLog.Infof("Step: %s", step)

		err := r.RunStep(ctx, step)
		if step.ExpectError != "" {
			if kind := entities.ErrorKind(err); kind != step.ExpectError {
				return fmt.Errorf("step %d (%s): expected %s error, got %v", i+1, step, step.ExpectError, err)
			}
			stepLog.Infof("Step failed as expected: %v", err)
			continue
		}
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}
	}
	return nil
}

// RunStep - performs one step's harness operation
func (r *Runner) RunStep(ctx context.Context, step Step) error {
	h := r.Harness(step.Field, step.Mode)

	switch step.Action {
	case ActionAssertPresent:
		return h.AssertPresent(ctx)
	case ActionShow:
		return h.ShowDropdown(ctx)
	case ActionSearch:
		if step.Settle > 0 {
			return h.SearchWithSettle(ctx, step.Query, step.Settle)
		}
		return h.Search(ctx, step.Query)
	case ActionSelect:
		return h.SelectResult(ctx, step.Index)
	case ActionSearchAndSelect:
		return h.SearchAndSelect(ctx, step.Query, step.Index)
	case ActionSelectFirst:
		return h.SelectFirstResult(ctx)
	case ActionSearchAndSelectFirst:
		return h.SearchAndSelectFirstResult(ctx, step.Query)
	case ActionCancel:
		return h.Cancel(ctx)
	case ActionReset:
		return h.ResetSelection(ctx)
	case ActionAssertSelected:
		return h.AssertSelectedValue(ctx, step.Expect)
	case ActionAssertFirstResult:
		return h.AssertFirstResultIs(ctx, step.Expect)
	case ActionAssertEmpty:
		return h.AssertEmpty(ctx)
	case ActionAssertContains:
		return h.AssertResultsContain(ctx, step.Keywords...)
	case ActionAssertNotContains:
		return h.AssertResultsDoNotContain(ctx, step.Keywords...)
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
}

func (r *Runner) captureScreenshot(ctx context.Context, journal *entities.Journal, log *logrus.Entry) {
	if r.store == nil {
		return
	}
	png, err := r.session.Screenshot(ctx)
	if err != nil {
		log.Warnf("Failed to take screenshot: %v", err)
		return
	}
	path, err := r.store.SaveScreenshot(journal.ID, png)
	if err != nil {
		log.Warnf("Failed to save screenshot: %v", err)
		return
	}
	journal.Screenshot = path
}
