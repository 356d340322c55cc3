// Package report writes the markdown run artifacts: the accumulated
// exception log, the per-run comment body, and the issue title for
// single-item processing.
package report
