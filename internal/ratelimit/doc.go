// Package ratelimit provides the per-provider request throttle shared by all
// pipeline workers. Each upstream provider gets exactly one Limiter; creating
// one per call would defeat the cap.
package ratelimit
