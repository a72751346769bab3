package browser_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"ui_automation/application/harness"
	"ui_automation/domain/entities"
	"ui_automation/infrastructure/browser"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWidgetEndToEnd drives testdata/widget.html in a real browser.
// Set HARNESS_E2E=1 to run it, HARNESS_E2E_DRIVER to pick the backend.
func TestWidgetEndToEnd(t *testing.T) {
	if os.Getenv("HARNESS_E2E") != "1" {
		t.Skip("set HARNESS_E2E=1 to run browser tests")
	}
	backend := os.Getenv("HARNESS_E2E_DRIVER")
	if backend == "" {
		backend = browser.BackendChromedp
	}

	server := httptest.NewServer(http.FileServer(http.Dir("testdata")))
	defer server.Close()

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	session, err := browser.NewSession(backend, browser.DefaultOptions(), logger)
	require.NoError(t, err)
	defer session.Close()

	ctx := context.Background()
	require.NoError(t, session.Navigate(ctx, server.URL+"/widget.html"))

	h := harness.New(session, "author", harness.WithLogger(logger))

	require.NoError(t, h.AssertPresent(ctx))
	require.NoError(t, h.SearchAndSelect(ctx, "Melville", 0))
	require.NoError(t, h.AssertSelectedValue(ctx, "Melville"))

	err = h.AssertFirstResultIs(ctx, "Melville")
	assert.True(t, errors.Is(err, entities.ErrAssertionFailed), "reopening lists every author: %v", err)

	require.NoError(t, h.AssertResultsContain(ctx, "Hesse", "Shelley"))

	err = h.SearchAndSelect(ctx, "zzz-no-match", 0)
	assert.True(t, errors.Is(err, entities.ErrTimeout), "got %v", err)
	require.NoError(t, h.AssertEmpty(ctx))

	require.NoError(t, h.ResetSelection(ctx))
	clearButton, err := session.FindElement(ctx, h.Field().ClearButton())
	require.NoError(t, err)
	require.NotNil(t, clearButton)
	visible, err := clearButton.IsDisplayed(ctx)
	require.NoError(t, err)
	assert.False(t, visible, "clear button hides once nothing is selected")

	png, err := session.Screenshot(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}
