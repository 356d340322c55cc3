package catalog

import (
	"path/filepath"
	"regexp"
	"strconv"
)

// Provider identifies the upstream metadata source for a category.
type Provider string

const (
	// ProviderIGDB is the game catalog API, queried by slug or numeric id.
	ProviderIGDB Provider = "igdb"
	// ProviderTMDB is the movie/TV catalog API, queried by numeric id.
	ProviderTMDB Provider = "tmdb"
)

// IMDBDir is the secondary cross-reference root for movies, keyed by IMDB id,
// relative to the database root.
const IMDBDir = "movies/imdb"

// Category is the static descriptor for one partition of the database. Not
// mutated at runtime.
type Category struct {
	// Name is the category key, e.g. "game" or "movie_collection".
	Name string
	// Title is the human-readable label used for listings and charts.
	Title string
	// Provider selects the upstream API.
	Provider Provider
	// Endpoint is the provider endpoint, e.g. "games" (IGDB) or "movie" (TMDB).
	Endpoint string
	// Fields is the IGDB field projection. Empty for TMDB categories, which
	// return their full payload.
	Fields []string
	// Dir is the storage directory relative to the database root.
	Dir string
	// TitleField names the upstream field holding the display title.
	TitleField string
	// SlugAddressed reports whether provider URLs carry a slug rather than a
	// numeric id.
	SlugAddressed bool
	// URLPattern matches the category's provider URL shape, capturing the id
	// or slug.
	URLPattern *regexp.Regexp
	// DeprecatedFields are removed from records during merge.
	DeprecatedFields []string
	// HasIMDBCrossRef marks categories mirrored under IMDBDir.
	HasIMDBCrossRef bool
}

// StorageDir returns the absolute storage directory for the category.
func (c Category) StorageDir(databaseRoot string) string {
	return filepath.Join(databaseRoot, filepath.FromSlash(c.Dir))
}

// GroupDir returns the category group directory (parent of the provider
// directory), which holds contributors.json, listings, and chart data.
func (c Category) GroupDir(databaseRoot string) string {
	return filepath.Dir(c.StorageDir(databaseRoot))
}

var categories = []Category{
	{
		Name:     "game",
		Title:    "Games",
		Provider: ProviderIGDB,
		Endpoint: "games",
		Fields: []string{
			"cover.url",
			"name",
			"release_dates.y",
			"slug",
			"summary",
			"url",
		},
		Dir:              "games/igdb",
		TitleField:       "name",
		SlugAddressed:    true,
		URLPattern:       regexp.MustCompile(`^https://www\.igdb\.com/games/([^/?#]+)`),
		DeprecatedFields: []string{"igdb_id"},
	},
	{
		Name:          "game_collection",
		Title:         "Game Collections",
		Provider:      ProviderIGDB,
		Endpoint:      "collections",
		Fields:        []string{"name", "slug", "url"},
		Dir:           "game_collections/igdb",
		TitleField:    "name",
		SlugAddressed: true,
		URLPattern:    regexp.MustCompile(`^https://www\.igdb\.com/collections/([^/?#]+)`),
	},
	{
		Name:          "game_franchise",
		Title:         "Game Franchises",
		Provider:      ProviderIGDB,
		Endpoint:      "franchises",
		Fields:        []string{"name", "slug", "url"},
		Dir:           "game_franchises/igdb",
		TitleField:    "name",
		SlugAddressed: true,
		URLPattern:    regexp.MustCompile(`^https://www\.igdb\.com/franchises/([^/?#]+)`),
	},
	{
		Name:            "movie",
		Title:           "Movies",
		Provider:        ProviderTMDB,
		Endpoint:        "movie",
		Dir:             "movies/themoviedb",
		TitleField:      "title",
		URLPattern:      regexp.MustCompile(`^https://www\.themoviedb\.org/movie/(\d+)`),
		HasIMDBCrossRef: true,
	},
	{
		Name:       "movie_collection",
		Title:      "Movie Collections",
		Provider:   ProviderTMDB,
		Endpoint:   "collection",
		Dir:        "movie_collections/themoviedb",
		TitleField: "name",
		URLPattern: regexp.MustCompile(`^https://www\.themoviedb\.org/collection/(\d+)`),
	},
	{
		Name:       "tv_show",
		Title:      "TV Shows",
		Provider:   ProviderTMDB,
		Endpoint:   "tv",
		Dir:        "tv_shows/themoviedb",
		TitleField: "name",
		URLPattern: regexp.MustCompile(`^https://www\.themoviedb\.org/tv/(\d+)`),
	},
}

// All returns every category in fixed declaration order. URL matching relies
// on this order being stable.
func All() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ByName looks up a category by its key.
func ByName(name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Match resolves a provider URL to its category and captured id or slug.
// Patterns are tried in declaration order; the shapes are mutually exclusive
// by provider domain.
func Match(databaseURL string) (Category, string, bool) {
	for _, c := range categories {
		if m := c.URLPattern.FindStringSubmatch(databaseURL); m != nil {
			return c, m[1], true
		}
	}
	return Category{}, "", false
}

// IsNumericID reports whether the lookup key is a numeric provider id rather
// than a slug.
func IsNumericID(key string) bool {
	if key == "" {
		return false
	}
	_, err := strconv.ParseInt(key, 10, 64)
	return err == nil
}
