// Package database implements the file-backed record store: one JSON
// document per (category, id), a contributors counter file per category
// group, paginated listings, and the cumulative adoption series used for
// growth charts.
package database
