package scenario

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "author_lookup.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "book author lookup", sc.Name)
	assert.Equal(t, "/resources/books/new", sc.URL)

	wantFixtures := []Fixture{{
		Field:    "author",
		Options:  []string{"Herman Melville", "Herman Hesse", "Mary Shelley"},
		Debounce: 300 * time.Millisecond,
		Nullable: true,
	}}
	if diff := cmp.Diff(wantFixtures, sc.Fixtures); diff != "" {
		t.Errorf("fixtures mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, sc.Steps, 7)
	assert.Equal(t, Step{Field: "author", Action: ActionSearchAndSelect, Query: "Melville"}, sc.Steps[1])
	assert.Equal(t, "timeout", sc.Steps[3].ExpectError)
	assert.Equal(t, []string{"Hesse", "Shelley"}, sc.Steps[6].Keywords)
}

func TestLoadScenarioMissing(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario")
}

func TestParseSettle(t *testing.T) {
	sc, err := Parse([]byte(`
name: slow search
steps:
  - field: tag
    mode: modal
    action: search
    query: go
    settle: 2s
`))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, sc.Steps[0].Settle)
	assert.Equal(t, "search tag(modal)", sc.Steps[0].String())
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "no name",
			doc:     "steps:\n  - {field: a, action: cancel}\n",
			wantErr: "invalid scenario",
		},
		{
			name:    "no steps",
			doc:     "name: empty\n",
			wantErr: "invalid scenario",
		},
		{
			name:    "unknown action",
			doc:     "name: x\nsteps:\n  - {field: a, action: explode}\n",
			wantErr: "invalid scenario",
		},
		{
			name:    "unknown key",
			doc:     "name: x\nsteps:\n  - {field: a, action: cancel, colour: red}\n",
			wantErr: "failed to decode scenario",
		},
		{
			name:    "search without query",
			doc:     "name: x\nsteps:\n  - {field: a, action: search}\n",
			wantErr: "step 1 (search a) needs a query",
		},
		{
			name:    "assert selected without expect",
			doc:     "name: x\nsteps:\n  - {field: a, action: cancel}\n  - {field: a, action: assert_selected}\n",
			wantErr: "step 2 (assert_selected a) needs expect",
		},
		{
			name:    "contains without keywords",
			doc:     "name: x\nsteps:\n  - {field: a, action: assert_not_contains}\n",
			wantErr: "needs keywords",
		},
		{
			name:    "negative index",
			doc:     "name: x\nsteps:\n  - {field: a, action: select, index: -1}\n",
			wantErr: "invalid scenario",
		},
		{
			name:    "unknown error kind",
			doc:     "name: x\nsteps:\n  - {field: a, action: cancel, expect_error: panic}\n",
			wantErr: "invalid scenario",
		},
		{
			name:    "fixture without field",
			doc:     "name: x\nfixtures:\n  - {options: [a]}\nsteps:\n  - {field: a, action: cancel}\n",
			wantErr: "invalid scenario",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
