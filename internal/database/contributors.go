package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ContributorStats counts one contributor's submissions within a category
// group.
type ContributorStats struct {
	ItemsAdded  int `json:"items_added"`
	ItemsEdited int `json:"items_edited"`
}

const contributorsFile = "contributors.json"

// UpdateContributor increments the contributor's counters in the category
// group's contributors.json: items_added when this ingestion created the
// record, items_edited otherwise. The read-modify-write cycle runs under a
// file lock and the result is renamed into place, so concurrent submissions
// cannot lose an update.
func (s *Store) UpdateContributor(groupDir, contributor string, original bool) error {
	if contributor == "" {
		return errors.New("contributor id is empty")
	}
	if err := os.MkdirAll(groupDir, 0o755); err != nil {
		return fmt.Errorf("create group directory: %w", err)
	}

	path := filepath.Join(groupDir, contributorsFile)
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock contributors file: %w", err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	stats, err := readContributors(path)
	if err != nil {
		return err
	}

	entry := stats[contributor]
	if original {
		entry.ItemsAdded++
	} else {
		entry.ItemsEdited++
	}
	stats[contributor] = entry

	return writeContributors(path, stats)
}

// Contributors reads the contributor counters for a category group. A missing
// file yields an empty map.
func (s *Store) Contributors(groupDir string) (map[string]ContributorStats, error) {
	return readContributors(filepath.Join(groupDir, contributorsFile))
}

func readContributors(path string) (map[string]ContributorStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]ContributorStats{}, nil
		}
		return nil, fmt.Errorf("read contributors: %w", err)
	}
	stats := map[string]ContributorStats{}
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("decode contributors: %w", err)
	}
	return stats, nil
}

func writeContributors(path string, stats map[string]ContributorStats) error {
	data, err := json.MarshalIndent(stats, "", "    ")
	if err != nil {
		return fmt.Errorf("encode contributors: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), contributorsFile+".*")
	if err != nil {
		return fmt.Errorf("create temp contributors file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write contributors: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close contributors file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace contributors file: %w", err)
	}
	return nil
}
