// Package config loads and validates the intervox client configuration.
// Configuration lives in a TOML file (~/.config/intervox/config.toml by
// default, or ./intervox.toml for project-local setups); every field has a
// usable default so the client runs without a file at all.
package config
