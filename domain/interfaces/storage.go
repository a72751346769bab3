package interfaces

import "ui_automation/domain/entities"

// JournalStore persists scenario run journals
type JournalStore interface {
	// SaveJournal writes the journal, replacing any previous one with the same ID
	SaveJournal(journal *entities.Journal) error

	// LoadJournal reads a journal by ID
	LoadJournal(id string) (*entities.Journal, error)

	// SaveScreenshot stores a failure screenshot and returns where it went
	SaveScreenshot(id string, png []byte) (string, error)

	// ListJournals returns IDs of stored journals, newest first
	ListJournals() ([]string, error)
}
