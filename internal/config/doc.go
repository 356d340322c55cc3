// Package config loads, normalizes, and validates the TOML configuration for
// the updater. Credentials fall back to environment variables so CI runs can
// keep secrets out of the config file.
package config
