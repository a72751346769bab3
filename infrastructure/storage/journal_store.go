package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

const journalExt = ".json"

type journalStore struct {
	dir string
}

// NewJournalStore - creates journal storage rooted at dir, creating it if needed
func NewJournalStore(dir string) (interfaces.JournalStore, error) {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		dir = filepath.Join(homeDir, ".ui_automation", "journals")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	return &journalStore{dir: dir}, nil
}

func (s *journalStore) path(id, ext string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid journal id %q", id)
	}
	return filepath.Join(s.dir, id+ext), nil
}

// SaveJournal - writes journal as indented JSON
func (s *journalStore) SaveJournal(journal *entities.Journal) error {
	path, err := s.path(journal.ID, journalExt)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(journal, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadJournal - reads journal by id
func (s *journalStore) LoadJournal(id string) (*entities.Journal, error) {
	path, err := s.path(id, journalExt)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("journal %s not found", id)
		}
		return nil, err
	}

	var journal entities.Journal
	if err := json.Unmarshal(data, &journal); err != nil {
		return nil, fmt.Errorf("failed to decode journal %s: %w", id, err)
	}
	return &journal, nil
}

// SaveScreenshot - writes png next to the journal
func (s *journalStore) SaveScreenshot(id string, png []byte) (string, error) {
	path, err := s.path(id, ".png")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, png, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// ListJournals - returns journal ids, most recently modified first
func (s *journalStore) ListJournals() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	type item struct {
		id      string
		modUnix int64
	}
	items := make([]item, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != journalExt {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, item{id: strings.TrimSuffix(e.Name(), journalExt), modUnix: info.ModTime().UnixNano()})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].modUnix == items[j].modUnix {
			return items[i].id > items[j].id
		}
		return items[i].modUnix > items[j].modUnix
	})

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.id
	}
	return ids, nil
}
