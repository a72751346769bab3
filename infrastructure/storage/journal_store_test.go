package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ui_automation/domain/entities"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJournalRoundTrip(t *testing.T) {
	store, err := NewJournalStore(t.TempDir())
	require.NoError(t, err)

	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	journal := &entities.Journal{
		ID:         "run-1",
		Scenario:   "author lookup",
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
		Steps: []entities.Step{
			{Action: entities.ActionClick, Selector: "@author-search-input", Duration: 3 * time.Millisecond},
			{Action: entities.ActionWait, Selector: "@author-search-input-result-0", Text: "5s", Error: "timed out waiting for element"},
		},
		Error: "step 2 (select author): timed out waiting for element",
	}
	require.NoError(t, store.SaveJournal(journal))

	loaded, err := store.LoadJournal("run-1")
	require.NoError(t, err)
	if diff := cmp.Diff(journal, loaded); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadJournalMissing(t *testing.T) {
	store, err := NewJournalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.LoadJournal("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal nope not found")
}

func TestLoadJournalCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewJournalStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0644))

	_, err = store.LoadJournal("bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode journal bad")
}

func TestJournalIDsCannotEscape(t *testing.T) {
	store, err := NewJournalStore(t.TempDir())
	require.NoError(t, err)

	for _, id := range []string{"", ".", "..", "../etc/passwd", `a\b`} {
		assert.Error(t, store.SaveJournal(&entities.Journal{ID: id}), id)
		_, err := store.SaveScreenshot(id, []byte{1})
		assert.Error(t, err, id)
	}
}

func TestSaveScreenshot(t *testing.T) {
	dir := t.TempDir()
	store, err := NewJournalStore(dir)
	require.NoError(t, err)

	path, err := store.SaveScreenshot("run-2", []byte{0x89, 'P', 'N', 'G'})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "run-2.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
}

func TestListJournalsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	store, err := NewJournalStore(dir)
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, store.SaveJournal(&entities.Journal{ID: id}))
		mod := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(filepath.Join(dir, id+".json"), mod, mod))
	}
	// screenshots and stray files are not journals
	_, err = store.SaveScreenshot("new", []byte{1})
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	ids, err := store.ListJournals()
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "mid", "old"}, ids)
}

func TestNewJournalStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "journals")
	_, err := NewJournalStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
