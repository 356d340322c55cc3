package report

import (
	"fmt"
	"strings"

	"themerr/internal/catalog"
	"themerr/internal/database"
)

// tmdbPosterBase is the image CDN prefix for TMDB poster paths.
const tmdbPosterBase = "https://image.tmdb.org/t/p/w185"

var issueLabels = map[string]string{
	"game":             "GAME",
	"game_collection":  "GAME COLLECTION",
	"game_franchise":   "GAME FRANCHISE",
	"movie":            "MOVIE",
	"movie_collection": "MOVIE COLLECTION",
	"tv_show":          "TV SHOW",
}

// IssueSummary is the rendered title and property table for one processed
// item.
type IssueSummary struct {
	Title   string
	Comment string
}

// BuildIssueSummary renders the issue title and comment block from the
// item's upstream payload. The title carries the category label and, where
// the payload dates it, the release year. The comment is a markdown property
// table with the poster rendered inline.
func BuildIssueSummary(category catalog.Category, record database.Record) IssueSummary {
	label, ok := issueLabels[category.Name]
	if !ok {
		label = "UNKNOWN"
	}

	title := record.String(category.TitleField)
	year := releaseYear(category, record)
	summary := itemSummary(category, record)
	poster := posterMarkdown(category, record)

	issueTitle := fmt.Sprintf("[%s]: %s", label, title)
	if year != "" {
		issueTitle = fmt.Sprintf("[%s]: %s (%s)", label, title, year)
	}

	id := ""
	if itemID, ok := record.ID(); ok {
		id = fmt.Sprintf("%d", itemID)
	}

	comment := fmt.Sprintf(`
| Property | Value |
| --- | --- |
| title | %s |
| year | %s |
| summary | %s |
| id | %s |
| poster | %s |
`, title, year, summary, id, poster)

	return IssueSummary{Title: issueTitle, Comment: comment}
}

func releaseYear(category catalog.Category, record database.Record) string {
	switch category.Name {
	case "game":
		dates, ok := record["release_dates"].([]any)
		if !ok || len(dates) == 0 {
			return ""
		}
		first, ok := dates[0].(map[string]any)
		if !ok {
			return ""
		}
		if year, ok := first["y"].(float64); ok {
			return fmt.Sprintf("%d", int64(year))
		}
	case "movie":
		return yearOfDate(record.String("release_date"))
	case "tv_show":
		return yearOfDate(record.String("first_air_date"))
	}
	return ""
}

func yearOfDate(date string) string {
	if date == "" {
		return ""
	}
	year, _, _ := strings.Cut(date, "-")
	return year
}

func itemSummary(category catalog.Category, record database.Record) string {
	var text string
	switch category.Provider {
	case catalog.ProviderIGDB:
		text = record.String("summary")
	case catalog.ProviderTMDB:
		text = record.String("overview")
	}
	text = strings.ReplaceAll(text, "\r\n", "<br>")
	text = strings.ReplaceAll(text, "\n", "<br>")
	return strings.ReplaceAll(text, "\r", "<br>")
}

func posterMarkdown(category catalog.Category, record database.Record) string {
	switch category.Provider {
	case catalog.ProviderIGDB:
		cover, ok := record["cover"].(map[string]any)
		if !ok {
			return ""
		}
		coverURL, _ := cover["url"].(string)
		if coverURL == "" {
			return ""
		}
		// IGDB serves scheme-relative thumbnail URLs; swap in the larger size.
		coverURL = strings.Replace(coverURL, "/t_thumb/", "/t_cover_big/", 1)
		if strings.HasPrefix(coverURL, "//") {
			coverURL = "https:" + coverURL
		}
		return fmt.Sprintf("![poster](%s)", coverURL)
	case catalog.ProviderTMDB:
		path := record.String("poster_path")
		if path == "" {
			return ""
		}
		return fmt.Sprintf("![poster](%s%s)", tmdbPosterBase, path)
	}
	return ""
}
