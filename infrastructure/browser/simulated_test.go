package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCitySim() (*SimulatedDriver, entities.FieldReference) {
	sim := NewSimulatedDriver(SimulatedField{
		Attribute: "city",
		Options:   []string{"Amsterdam", "Rotterdam", "Berlin"},
		Debounce:  200 * time.Millisecond,
		Nullable:  true,
	})
	return sim, entities.NewFieldReference("city", "")
}

func TestSimulatedClosedWidget(t *testing.T) {
	ctx := context.Background()
	sim, ref := newCitySim()

	root, err := sim.FindElement(ctx, ref.Selector())
	require.NoError(t, err)
	require.NotNil(t, root)

	for _, sel := range []string{ref.Dropdown(), ref.SearchInput(), ref.Results(), ref.Result(0), ref.Selected(), ref.ClearButton()} {
		el, err := sim.FindElement(ctx, sel)
		require.NoError(t, err)
		assert.Nil(t, el, sel)
	}
}

func TestSimulatedUnknownSelectors(t *testing.T) {
	ctx := context.Background()
	sim, _ := newCitySim()

	for _, sel := range []string{
		"#city",
		"@country-search-input",
		"@city-search-input-result-x",
		"@city-search-input-selected span",
		"@city-search-input extra",
	} {
		el, err := sim.FindElement(ctx, sel)
		require.NoError(t, err)
		assert.Nil(t, el, sel)
	}
}

func TestSimulatedOpenTypeAndDebounce(t *testing.T) {
	ctx := context.Background()
	sim, ref := newCitySim()

	require.NoError(t, sim.Click(ctx, ref.Selector()))
	assert.True(t, sim.IsOpen(ref))

	// open with no query lists everything
	require.NoError(t, sim.AssertTextContains(ctx, ref.Results(), "Berlin"))

	require.NoError(t, sim.TypeInto(ctx, ref.SearchInput(), "DAM"))

	el, err := sim.FindElement(ctx, ref.Results())
	require.NoError(t, err)
	assert.Nil(t, el, "results hidden while debouncing")

	require.NoError(t, sim.Pause(ctx, 200*time.Millisecond))
	require.NoError(t, sim.AssertTextContains(ctx, ref.Result(0), "Amsterdam"))
	require.NoError(t, sim.AssertTextContains(ctx, ref.Result(1), "Rotterdam"))
	require.NoError(t, sim.AssertElementAbsent(ctx, ref.Result(2)))
	require.NoError(t, sim.AssertTextNotContains(ctx, ref.Results(), "Berlin"))
}

func TestSimulatedTypeIntoRequiresOpenInput(t *testing.T) {
	ctx := context.Background()
	sim, ref := newCitySim()

	err := sim.TypeInto(ctx, ref.SearchInput(), "Ber")
	assert.True(t, errors.Is(err, entities.ErrElementNotFound))

	require.NoError(t, sim.Click(ctx, ref.Selector()))
	err = sim.TypeInto(ctx, ref.Dropdown(), "Ber")
	assert.True(t, errors.Is(err, entities.ErrElementNotFound), "only the search input takes text")
}

func TestSimulatedSelectAndClear(t *testing.T) {
	ctx := context.Background()
	sim, ref := newCitySim()

	require.NoError(t, sim.Click(ctx, ref.Selector()))
	require.NoError(t, sim.Click(ctx, ref.Result(2)))
	assert.Equal(t, "Berlin", sim.SelectedValue(ref))
	assert.False(t, sim.IsOpen(ref))

	require.NoError(t, sim.AssertTextContains(ctx, ref.Selected(), "Berlin"))

	clearButton, err := sim.FindElement(ctx, ref.ClearButton())
	require.NoError(t, err)
	require.NotNil(t, clearButton)
	visible, err := clearButton.IsDisplayed(ctx)
	require.NoError(t, err)
	assert.True(t, visible)

	require.NoError(t, sim.Click(ctx, ref.ClearButton()))
	assert.Empty(t, sim.SelectedValue(ref))

	// the handle is live: it reflects the DOM at call time
	visible, err = clearButton.IsDisplayed(ctx)
	require.NoError(t, err)
	assert.False(t, visible)
	_, err = clearButton.Text(ctx)
	assert.True(t, errors.Is(err, entities.ErrElementNotFound))
}

func TestSimulatedClickMissing(t *testing.T) {
	ctx := context.Background()
	sim, ref := newCitySim()

	err := sim.Click(ctx, ref.Result(0))
	assert.True(t, errors.Is(err, entities.ErrElementNotFound))
}

func TestSimulatedKeys(t *testing.T) {
	ctx := context.Background()
	sim, ref := newCitySim()

	require.NoError(t, sim.Click(ctx, ref.Selector()))
	require.NoError(t, sim.TypeInto(ctx, ref.SearchInput(), "ber"))
	require.NoError(t, sim.SendKey(ctx, interfaces.KeyEnter))
	assert.Empty(t, sim.SelectedValue(ref), "enter does nothing while debouncing")

	require.NoError(t, sim.Pause(ctx, time.Second))
	require.NoError(t, sim.SendKey(ctx, interfaces.KeyEnter))
	assert.Equal(t, "Berlin", sim.SelectedValue(ref))

	require.NoError(t, sim.Click(ctx, ref.Selector()))
	require.NoError(t, sim.SendKey(ctx, interfaces.KeyEscape))
	assert.False(t, sim.IsOpen(ref))
	assert.Equal(t, "Berlin", sim.SelectedValue(ref), "escape keeps the selection")

	require.NoError(t, sim.Click(ctx, ref.Selector()))
	assert.Error(t, sim.SendKey(ctx, interfaces.Key("Tab")))
}

func TestSimulatedWaitFor(t *testing.T) {
	ctx := context.Background()
	sim, ref := newCitySim()

	require.NoError(t, sim.Click(ctx, ref.Selector()))
	require.NoError(t, sim.TypeInto(ctx, ref.SearchInput(), "Berlin"))

	require.NoError(t, sim.WaitFor(ctx, ref.Result(0), time.Second))
	assert.Equal(t, 200*time.Millisecond, sim.Elapsed())

	err := sim.WaitFor(ctx, ref.Result(1), time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrTimeout))
	assert.Equal(t, 1200*time.Millisecond, sim.Elapsed())
}

func TestSimulatedNavigateResets(t *testing.T) {
	ctx := context.Background()
	sim, ref := newCitySim()

	require.NoError(t, sim.Click(ctx, ref.Selector()))
	require.NoError(t, sim.Navigate(ctx, "http://localhost/cities"))
	assert.False(t, sim.IsOpen(ref))
	assert.Equal(t, "http://localhost/cities", sim.URL())

	_, err := sim.Screenshot(ctx)
	assert.ErrorIs(t, err, ErrNoScreen)
	assert.NoError(t, sim.Close())
}

func TestSimulatedModesAreDistinctWidgets(t *testing.T) {
	ctx := context.Background()
	sim := NewSimulatedDriver(
		SimulatedField{Attribute: "tag", Options: []string{"go"}},
		SimulatedField{Attribute: "tag", Mode: "modal", Options: []string{"rust"}},
	)
	input := entities.NewFieldReference("tag", "input")
	modal := entities.NewFieldReference("tag", "modal")

	require.NoError(t, sim.Click(ctx, modal.Selector()))
	assert.True(t, sim.IsOpen(modal))
	assert.False(t, sim.IsOpen(input))
	require.NoError(t, sim.AssertTextContains(ctx, modal.Result(0), "rust"))
}

func TestSimulatedCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sim, ref := newCitySim()

	assert.ErrorIs(t, sim.Click(ctx, ref.Selector()), context.Canceled)
	assert.ErrorIs(t, sim.WaitFor(ctx, ref.Selector(), time.Second), context.Canceled)
	assert.ErrorIs(t, sim.Pause(ctx, time.Second), context.Canceled)
	assert.Zero(t, sim.Elapsed())
}
