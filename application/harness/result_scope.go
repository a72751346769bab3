package harness

import (
	"context"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// ResultScope is handed to InspectResults callbacks while the dropdown is open
type ResultScope struct {
	driver interfaces.Driver
	field  entities.FieldReference
}

// Driver - returns the page-wide driver. It is not confined to the dropdown;
// stay inside it by querying the selectors Field derives.
func (r *ResultScope) Driver() interfaces.Driver { return r.driver }

// Field - returns the field whose dropdown is open
func (r *ResultScope) Field() entities.FieldReference { return r.field }

// AssertResultContains - asserts the result at index contains text
func (r *ResultScope) AssertResultContains(ctx context.Context, index int, text string) error {
	sel := r.field.Result(index)
	return entities.NewStepError("assert result", sel, r.driver.AssertTextContains(ctx, sel, text))
}

// AssertResultAbsent - asserts no result is rendered at index
func (r *ResultScope) AssertResultAbsent(ctx context.Context, index int) error {
	sel := r.field.Result(index)
	return entities.NewStepError("assert result absent", sel, r.driver.AssertElementAbsent(ctx, sel))
}

// AssertResultsContain - asserts the results container text contains text
func (r *ResultScope) AssertResultsContain(ctx context.Context, text string) error {
	sel := r.field.Results()
	return entities.NewStepError("assert results contain", sel, r.driver.AssertTextContains(ctx, sel, text))
}

// AssertResultsDoNotContain - asserts the results container text lacks text
func (r *ResultScope) AssertResultsDoNotContain(ctx context.Context, text string) error {
	sel := r.field.Results()
	return entities.NewStepError("assert results lack", sel, r.driver.AssertTextNotContains(ctx, sel, text))
}
