package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"themerr/internal/catalog"
	"themerr/internal/logging"
)

// Store owns the on-disk record layout under one database root. Each record
// is a single JSON file at {category-dir}/{id}.json.
type Store struct {
	root   string
	logger *slog.Logger
}

// NewStore constructs a Store rooted at databaseDir.
func NewStore(databaseDir string, logger *slog.Logger) *Store {
	return &Store{
		root:   databaseDir,
		logger: logging.NewComponentLogger(logger, "database"),
	}
}

// Root returns the database root directory.
func (s *Store) Root() string { return s.root }

// RecordPath returns the primary file path for a record.
func (s *Store) RecordPath(category catalog.Category, id int64) string {
	return filepath.Join(category.StorageDir(s.root), fmt.Sprintf("%d.json", id))
}

// Load reads the existing record for (category, id). A missing file is not an
// error; it reports found=false for first-time creation.
func (s *Store) Load(category catalog.Category, id int64) (Record, bool, error) {
	data, err := os.ReadFile(s.RecordPath(category, id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, false, nil
		}
		return nil, false, fmt.Errorf("read record: %w", err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, false, fmt.Errorf("decode record %s/%d: %w", category.Name, id, err)
	}
	return record, true, nil
}

// Write persists the record to its primary destination and, for categories
// with an IMDB cross-reference id present, an identical copy keyed by that
// id. It returns every path written.
func (s *Store) Write(category catalog.Category, record Record) ([]string, error) {
	id, ok := record.ID()
	if !ok {
		return nil, fmt.Errorf("record for %s has no id", category.Name)
	}

	destinations := []string{s.RecordPath(category, id)}
	if category.HasIMDBCrossRef {
		if imdbID := record.String(FieldIMDBID); imdbID != "" {
			destinations = append(destinations, filepath.Join(s.root, filepath.FromSlash(catalog.IMDBDir), imdbID+".json"))
		} else {
			s.logger.Info("record has no imdb_id, skipping cross-reference copy",
				logging.String(logging.FieldCategory, category.Name),
				logging.Int64(logging.FieldItemID, id),
			)
		}
	}

	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode record %s/%d: %w", category.Name, id, err)
	}
	data = append(data, '\n')

	for _, destination := range destinations {
		if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
			return nil, fmt.Errorf("create record directory: %w", err)
		}
		if err := os.WriteFile(destination, data, 0o644); err != nil {
			return nil, fmt.Errorf("write record %s: %w", destination, err)
		}
	}
	return destinations, nil
}

// ListIDs enumerates the record ids stored for a category, derived from the
// JSON filenames. A missing category directory yields an empty list.
func (s *Store) ListIDs(category catalog.Category) ([]string, error) {
	entries, err := os.ReadDir(category.StorageDir(s.root))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list category %s: %w", category.Name, err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// IMDBCount counts cross-reference files under the IMDB root. Only files with
// the tt id prefix are counted.
func (s *Store) IMDBCount() (int, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, filepath.FromSlash(catalog.IMDBDir)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("list imdb cross-references: %w", err)
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), "tt") {
			count++
		}
	}
	return count, nil
}
