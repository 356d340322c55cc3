// Package pipeline orchestrates the two run modes: the bulk daily refresh
// over the whole database and the single-item submission flow. Both share
// the resolver's fetch-merge-write cycle and a fixed worker pool with
// per-task error isolation.
package pipeline
