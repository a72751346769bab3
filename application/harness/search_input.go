// Package harness drives and verifies debounced search-and-select widgets
// through a browser-automation Driver.
package harness

import (
	"context"
	"errors"
	"io"
	"time"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// SearchInput drives one searchable field. The live DOM is the only state;
// nothing about results or selection is cached here. Not safe for
// concurrent use against the same session.
type SearchInput struct {
	driver  interfaces.Driver
	field   entities.FieldReference
	timings entities.Timings
	logger  *logrus.Logger
}

// Option configures a SearchInput
type Option func(*SearchInput)

// WithMode - sets the presentation variant of the field
func WithMode(mode string) Option {
	return func(s *SearchInput) {
		s.field = entities.NewFieldReference(s.field.Attribute(), mode)
	}
}

// WithTimings - overrides settle delays, pauses and the wait timeout
func WithTimings(t entities.Timings) Option {
	return func(s *SearchInput) {
		s.timings = t.WithDefaults()
	}
}

// WithLogger - sets the logger used for per-operation debug output
func WithLogger(logger *logrus.Logger) Option {
	return func(s *SearchInput) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New - creates harness for attribute on driver
func New(driver interfaces.Driver, attribute string, opts ...Option) *SearchInput {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &SearchInput{
		driver:  driver,
		field:   entities.NewFieldReference(attribute, entities.DefaultMode),
		timings: entities.DefaultTimings(),
		logger:  discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Field - returns the field reference the harness is bound to
func (s *SearchInput) Field() entities.FieldReference {
	return s.field
}

// Selector - returns the root selector of the field
func (s *SearchInput) Selector() string {
	return s.field.Selector()
}

// Timings - returns the effective timings
func (s *SearchInput) Timings() entities.Timings {
	return s.timings
}

func (s *SearchInput) log(op string) *logrus.Entry {
	return s.logger.WithFields(logrus.Fields{
		"field": s.field.Attribute(),
		"mode":  s.field.Mode(),
		"op":    op,
	})
}

// ShowDropdown - opens the dropdown unless it is already present and visible
func (s *SearchInput) ShowDropdown(ctx context.Context) error {
	dropdown := s.field.Dropdown()

	el, err := s.driver.FindElement(ctx, dropdown)
	if err != nil {
		return entities.NewStepError("show dropdown", dropdown, err)
	}

	if el != nil {
		visible, err := el.IsDisplayed(ctx)
		if err != nil {
			return entities.NewStepError("show dropdown", dropdown, err)
		}
		if visible {
			return nil
		}
	}

	s.log("show dropdown").Debug("opening dropdown")
	return entities.NewStepError("show dropdown", s.field.Selector(), s.driver.Click(ctx, s.field.Selector()))
}

// Search - types query and waits the default settle delay
func (s *SearchInput) Search(ctx context.Context, query string) error {
	return s.SearchWithSettle(ctx, query, s.timings.TypeSettle)
}

// SearchWithSettle - types query into the dropdown and waits up to settle for results
func (s *SearchInput) SearchWithSettle(ctx context.Context, query string, settle time.Duration) error {
	if err := s.ShowDropdown(ctx); err != nil {
		return err
	}

	dropdown := s.field.Dropdown()
	if err := s.driver.WaitFor(ctx, dropdown, s.timings.WaitTimeout); err != nil {
		return entities.NewStepError("search", dropdown, err)
	}

	var before string
	if s.timings.PollInterval > 0 {
		text, err := s.resultsText(ctx)
		if err != nil {
			return entities.NewStepError("search", s.field.Results(), err)
		}
		before = text
	}

	s.log("search").WithField("query", query).Debug("typing query")

	input := s.field.SearchInput()
	if err := s.driver.TypeInto(ctx, input, query); err != nil {
		return entities.NewStepError("search", input, err)
	}

	return s.settle(ctx, settle, before)
}

// resultsText returns the text of the results container, empty when it is
// absent or hidden.
func (s *SearchInput) resultsText(ctx context.Context) (string, error) {
	el, err := s.driver.FindElement(ctx, s.field.Results())
	if err != nil || el == nil {
		return "", err
	}
	visible, err := el.IsDisplayed(ctx)
	if err != nil || !visible {
		return "", err
	}
	return el.Text(ctx)
}

// rendered reports whether results for the new query are showing: result-0
// is visible and the container no longer holds the text it had before typing.
func (s *SearchInput) rendered(ctx context.Context, before string) (bool, error) {
	el, err := s.driver.FindElement(ctx, s.field.Result(0))
	if err != nil || el == nil {
		return false, err
	}
	visible, err := el.IsDisplayed(ctx)
	if err != nil || !visible {
		return false, err
	}
	text, err := s.resultsText(ctx)
	if err != nil {
		return false, err
	}
	return text != before, nil
}

// settle waits for the debounce-fetch-render cycle. A fixed pause unless
// PollInterval is set, in which case it returns as soon as fresh results
// are rendered. Reaching the ceiling is not an error; a query with no
// matches or the same matches as before always runs to the ceiling.
func (s *SearchInput) settle(ctx context.Context, ceiling time.Duration, before string) error {
	if s.timings.PollInterval <= 0 {
		return s.driver.Pause(ctx, ceiling)
	}

	var waited time.Duration
	for {
		done, err := s.rendered(ctx, before)
		if err != nil {
			return entities.NewStepError("settle", s.field.Results(), err)
		}
		if done || waited >= ceiling {
			return nil
		}

		step := s.timings.PollInterval
		if remaining := ceiling - waited; step > remaining {
			step = remaining
		}
		if err := s.driver.Pause(ctx, step); err != nil {
			return err
		}
		waited += step
	}
}

// SelectResult - clicks the result at index once it is available
func (s *SearchInput) SelectResult(ctx context.Context, index int) error {
	dropdown := s.field.Dropdown()
	if err := s.driver.WaitFor(ctx, dropdown, s.timings.WaitTimeout); err != nil {
		return entities.NewStepError("select result", dropdown, err)
	}

	result := s.field.Result(index)
	if err := s.driver.WaitFor(ctx, result, s.timings.WaitTimeout); err != nil {
		return entities.NewStepError("select result", result, err)
	}

	s.log("select result").WithField("index", index).Debug("clicking result")

	if err := s.driver.Click(ctx, result); err != nil {
		return entities.NewStepError("select result", result, err)
	}
	return s.driver.Pause(ctx, s.timings.SelectPause)
}

// SelectFirstResult - selects the result at index 0
func (s *SearchInput) SelectFirstResult(ctx context.Context) error {
	return s.SelectResult(ctx, 0)
}

// SearchAndSelect - searches with the longer select settle delay, then selects index
func (s *SearchInput) SearchAndSelect(ctx context.Context, query string, index int) error {
	if err := s.SearchWithSettle(ctx, query, s.timings.SelectSettle); err != nil {
		return err
	}
	return s.SelectResult(ctx, index)
}

// SearchAndSelectFirstResult - searches and selects the result at index 0
func (s *SearchInput) SearchAndSelectFirstResult(ctx context.Context, query string) error {
	return s.SearchAndSelect(ctx, query, 0)
}

// SearchFirstRelation - same as SearchAndSelectFirstResult, named for relation fields
func (s *SearchInput) SearchFirstRelation(ctx context.Context, query string) error {
	return s.SearchAndSelectFirstResult(ctx, query)
}

// Cancel - dismisses the dropdown with Escape without selecting anything
func (s *SearchInput) Cancel(ctx context.Context) error {
	if err := s.driver.SendKey(ctx, interfaces.KeyEscape); err != nil {
		return entities.NewStepError("cancel", "", err)
	}
	return s.driver.Pause(ctx, s.timings.CancelPause)
}

// ResetSelection - cancels, then clears the selection if a clear button is showing
func (s *SearchInput) ResetSelection(ctx context.Context) error {
	if err := s.Cancel(ctx); err != nil {
		return err
	}

	clearButton := s.field.ClearButton()
	el, err := s.driver.FindElement(ctx, clearButton)
	if err != nil {
		return entities.NewStepError("reset selection", clearButton, err)
	}
	if el == nil {
		return nil
	}

	visible, err := el.IsDisplayed(ctx)
	if err != nil {
		return entities.NewStepError("reset selection", clearButton, err)
	}
	if !visible {
		return nil
	}

	s.log("reset selection").Debug("clearing selection")

	if err := s.driver.Click(ctx, clearButton); err != nil {
		return entities.NewStepError("reset selection", clearButton, err)
	}
	return s.driver.Pause(ctx, s.timings.ResetPause)
}

// InspectResults - opens the dropdown, runs fn against it and always cancels afterwards.
// A callback failure is returned; a cancel failure is joined onto it.
func (s *SearchInput) InspectResults(ctx context.Context, fn func(ctx context.Context, scope *ResultScope) error) (err error) {
	if err := s.ShowDropdown(ctx); err != nil {
		return err
	}

	dropdown := s.field.Dropdown()
	if err := s.driver.WaitFor(ctx, dropdown, s.timings.WaitTimeout); err != nil {
		return entities.NewStepError("inspect results", dropdown, err)
	}

	defer func() {
		if cancelErr := s.Cancel(ctx); cancelErr != nil {
			err = errors.Join(err, cancelErr)
		}
	}()

	return fn(ctx, &ResultScope{driver: s.driver, field: s.field})
}

// AssertSelectedValue - asserts the selected value contains expected
func (s *SearchInput) AssertSelectedValue(ctx context.Context, expected string) error {
	selected := s.field.Selected()
	return entities.NewStepError("assert selected", selected, s.driver.AssertTextContains(ctx, selected, expected))
}

// AssertFirstResultIs - asserts expected is selected and is the only result in the window
func (s *SearchInput) AssertFirstResultIs(ctx context.Context, expected string) error {
	if err := s.AssertSelectedValue(ctx, expected); err != nil {
		return err
	}

	return s.InspectResults(ctx, func(ctx context.Context, scope *ResultScope) error {
		if err := scope.AssertResultContains(ctx, 0, expected); err != nil {
			return err
		}
		for i := 1; i < entities.ResultWindow; i++ {
			if err := scope.AssertResultAbsent(ctx, i); err != nil {
				return err
			}
		}
		return nil
	})
}

// AssertEmpty - asserts no result is rendered in positions 0..ResultWindow-1.
// Results past the window are not inspected.
func (s *SearchInput) AssertEmpty(ctx context.Context) error {
	return s.InspectResults(ctx, func(ctx context.Context, scope *ResultScope) error {
		for i := 0; i < entities.ResultWindow; i++ {
			if err := scope.AssertResultAbsent(ctx, i); err != nil {
				return err
			}
		}
		return nil
	})
}

// AssertResultsContain - asserts each keyword appears in the results container
func (s *SearchInput) AssertResultsContain(ctx context.Context, keywords ...string) error {
	return s.InspectResults(ctx, func(ctx context.Context, scope *ResultScope) error {
		for _, keyword := range keywords {
			if err := scope.AssertResultsContain(ctx, keyword); err != nil {
				return err
			}
		}
		return nil
	})
}

// AssertResultsDoNotContain - asserts no keyword appears in the results container
func (s *SearchInput) AssertResultsDoNotContain(ctx context.Context, keywords ...string) error {
	return s.InspectResults(ctx, func(ctx context.Context, scope *ResultScope) error {
		for _, keyword := range keywords {
			if err := scope.AssertResultsDoNotContain(ctx, keyword); err != nil {
				return err
			}
		}
		return nil
	})
}

// AssertPresent - waits for the field to appear on the page
func (s *SearchInput) AssertPresent(ctx context.Context) error {
	root := s.field.Selector()
	return entities.NewStepError("assert present", root, s.driver.WaitFor(ctx, root, s.timings.WaitTimeout))
}
