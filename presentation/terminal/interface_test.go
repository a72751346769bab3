package terminal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ui_automation/application/scenario"
	"ui_automation/domain/entities"
	"ui_automation/infrastructure/browser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStep(t *testing.T) {
	tests := []struct {
		line string
		want scenario.Step
	}{
		{"present author", scenario.Step{Field: "author", Action: scenario.ActionAssertPresent}},
		{"show author:modal", scenario.Step{Field: "author", Mode: "modal", Action: scenario.ActionShow}},
		{"cancel author", scenario.Step{Field: "author", Action: scenario.ActionCancel}},
		{"reset author", scenario.Step{Field: "author", Action: scenario.ActionReset}},
		{"empty author", scenario.Step{Field: "author", Action: scenario.ActionAssertEmpty}},
		{"search author Herman Mel", scenario.Step{Field: "author", Action: scenario.ActionSearch, Query: "Herman Mel"}},
		{"selected author Melville", scenario.Step{Field: "author", Action: scenario.ActionAssertSelected, Expect: "Melville"}},
		{"first author Melville", scenario.Step{Field: "author", Action: scenario.ActionAssertFirstResult, Expect: "Melville"}},
		{"contains book Moby, Dick", scenario.Step{Field: "book", Action: scenario.ActionAssertContains, Keywords: []string{"Moby", "Dick"}}},
		{"lacks book Melville", scenario.Step{Field: "book", Action: scenario.ActionAssertNotContains, Keywords: []string{"Melville"}}},
		{"select author 2", scenario.Step{Field: "author", Action: scenario.ActionSelect, Index: 2}},
		{"pick author 0 Mary Shelley", scenario.Step{Field: "author", Action: scenario.ActionSearchAndSelect, Query: "Mary Shelley"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			fields := strings.Fields(tt.line)
			got, err := parseStep(fields[0], fields[1:])
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStepErrors(t *testing.T) {
	tests := map[string]string{
		"show":              "show: missing field",
		"search author":     "search: missing text",
		"selected author":   "selected: missing text",
		"contains author ,": "contains: missing keywords",
		"select author":     "select: missing index",
		"select author -1":  `select: bad index "-1"`,
		"pick author x q":   `pick: bad index "x"`,
		"pick author 0":     "pick: missing query",
		"dance author":      `unknown command "dance"`,
		"dance":             `unknown command "dance"`,
	}

	for line, want := range tests {
		t.Run(line, func(t *testing.T) {
			fields := strings.Fields(line)
			_, err := parseStep(fields[0], fields[1:])
			require.Error(t, err)
			assert.Contains(t, err.Error(), want)
		})
	}
}

func newTestTerminal(t *testing.T, input string) (*TerminalInterface, *browser.SimulatedDriver, *bytes.Buffer) {
	t.Helper()
	sim := browser.NewSimulatedDriver(browser.SimulatedField{
		Attribute: "author",
		Options:   []string{"Herman Melville", "Mary Shelley"},
	})
	runner := scenario.NewRunner(sim, nil, entities.DefaultTimings(), "http://app.test", nil)
	out := &bytes.Buffer{}
	seed := func(fixtures []scenario.Fixture) {
		for _, f := range fixtures {
			sim.AddField(browser.SimulatedField{Attribute: f.Field, Mode: f.Mode, Options: f.Options})
		}
	}
	return NewTerminalInterface(runner, seed, nil, strings.NewReader(input), out), sim, out
}

func TestRunSession(t *testing.T) {
	input := strings.Join([]string{
		"open /books/new",
		"",
		"pick author 0 Shelley",
		"selected author Shelley",
		"selected author Melville",
		"bogus",
		"quit",
		"present author",
	}, "\n")
	term, sim, out := newTestTerminal(t, input)

	require.NoError(t, term.Run(context.Background()))

	assert.Equal(t, "http://app.test/books/new", sim.URL())
	assert.Equal(t, "Mary Shelley", sim.SelectedValue(entities.NewFieldReference("author", "")))

	output := out.String()
	assert.Contains(t, output, "Search harness")
	assert.Equal(t, 3, strings.Count(output, "ok\n"))
	assert.Contains(t, output, "FAIL: assert selected @author-search-input-selected: assertion failed")
	assert.Contains(t, output, `FAIL: unknown command "bogus"`)
	assert.True(t, strings.HasSuffix(output, "Bye\n"), "stops at quit")
}

func TestRunEndsAtEOF(t *testing.T) {
	term, _, out := newTestTerminal(t, "help\n")

	require.NoError(t, term.Run(context.Background()))
	assert.Contains(t, out.String(), "run <scenario.yaml>")
	assert.NotContains(t, out.String(), "Bye")
}

func TestExecuteRunScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tags.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: tags
fixtures:
  - field: tag
    options: [go, rust]
steps:
  - field: tag
    action: search_and_select_first
    query: rust
  - field: tag
    action: assert_selected
    expect: rust
`), 0644))

	term, _, out := newTestTerminal(t, "")
	require.NoError(t, term.Execute(context.Background(), "run "+path))
	assert.Contains(t, out.String(), "tags passed")

	assert.Error(t, term.Execute(context.Background(), "run"))
	assert.Error(t, term.Execute(context.Background(), "open"))
}
