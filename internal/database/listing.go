package database

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ItemsPerPage is the fixed page size for category listings.
const ItemsPerPage = 10

// ListingItem is one entry in a category's paginated listing. Groups that
// carry the IMDB cross-reference always emit the imdb_id key, null when the
// record has none; other groups omit the key entirely.
type ListingItem struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	IMDBID     string `json:"imdb_id"`
	WithIMDBID bool   `json:"-"`
}

func (l ListingItem) MarshalJSON() ([]byte, error) {
	type plain struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	}
	if !l.WithIMDBID {
		return json.Marshal(plain{ID: l.ID, Title: l.Title})
	}
	var imdbID *string
	if l.IMDBID != "" {
		imdbID = &l.IMDBID
	}
	return json.Marshal(struct {
		plain
		IMDBID *string `json:"imdb_id"`
	}{plain{ID: l.ID, Title: l.Title}, imdbID})
}

// PageSummary is the pages.json payload for a category group.
type PageSummary struct {
	Count     int  `json:"count"`
	Pages     int  `json:"pages"`
	IMDBCount *int `json:"imdb_count,omitempty"`
}

// SortByTitle orders listing items by title ascending using a case-insensitive
// collation, so "the witness" and "The Witcher" interleave the way a reader
// expects.
func SortByTitle(items []ListingItem) {
	collator := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		return collator.CompareString(items[i].Title, items[j].Title) < 0
	})
}

// WritePages writes the paginated listing (all_page_N.json) and summary
// (pages.json) for a category group. Items must already be sorted. The
// imdbCount pointer is included for groups carrying the cross-reference.
func WritePages(groupDir string, items []ListingItem, imdbCount *int) (int, error) {
	if err := os.MkdirAll(groupDir, 0o755); err != nil {
		return 0, fmt.Errorf("create group directory: %w", err)
	}

	pages := 0
	for start := 0; start < len(items); start += ItemsPerPage {
		end := start + ItemsPerPage
		if end > len(items) {
			end = len(items)
		}
		pages++
		data, err := json.Marshal(items[start:end])
		if err != nil {
			return 0, fmt.Errorf("encode listing page %d: %w", pages, err)
		}
		path := filepath.Join(groupDir, fmt.Sprintf("all_page_%d.json", pages))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return 0, fmt.Errorf("write listing page: %w", err)
		}
	}

	summary := PageSummary{Count: len(items), Pages: pages, IMDBCount: imdbCount}
	data, err := json.Marshal(summary)
	if err != nil {
		return 0, fmt.Errorf("encode page summary: %w", err)
	}
	if err := os.WriteFile(filepath.Join(groupDir, "pages.json"), data, 0o644); err != nil {
		return 0, fmt.Errorf("write page summary: %w", err)
	}
	return pages, nil
}
