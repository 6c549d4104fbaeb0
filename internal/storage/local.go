package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tomei-lab/tomei/pkg/report"

	"github.com/tidwall/gjson"
)

// LocalStore keeps reports as JSON files in a directory, one file per
// report ID.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if dir == "" {
		dir = "data/output"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save persists the report under its ID and returns the file path.
func (s *LocalStore) Save(r *report.Report) (string, error) {
	path := s.path(r.ID)
	if err := r.Write(path); err != nil {
		return "", err
	}
	return path, nil
}

// Load returns the raw JSON document for a report ID.
func (s *LocalStore) Load(id string) ([]byte, error) {
	if strings.ContainsAny(id, "/\\") {
		return nil, fmt.Errorf("invalid report id: %s", id)
	}
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", id, err)
	}
	return data, nil
}

// Entry is a report listing item.
type Entry struct {
	ID           string `json:"id"`
	CompanyName  string `json:"company_name"`
	AnalysisDate string `json:"analysis_date"`
}

// List returns all stored reports, newest first.
func (s *LocalStore) List() ([]Entry, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	entries := make([]Entry, 0, len(files))
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		entry := Entry{ID: strings.TrimSuffix(file.Name(), ".json")}
		if data, err := os.ReadFile(filepath.Join(s.dir, file.Name())); err == nil {
			entry.CompanyName = gjson.GetBytes(data, "company_name").String()
			entry.AnalysisDate = gjson.GetBytes(data, "analysis_date").String()
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].AnalysisDate > entries[j].AnalysisDate
	})

	return entries, nil
}
