// Package main hosts the themerr CLI entrypoint and command graph.
//
// The Cobra-based command tree exposes the two run modes (the daily bulk
// refresh and single-submission processing) plus configuration scaffolding.
// It centralizes configuration resolution, client wiring, and structured
// logging setup so subcommands can focus on user experience instead of
// plumbing.
package main
