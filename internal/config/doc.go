// Package config loads, validates, and defaults the chronophoto
// configuration file.
//
// Configuration lives in a TOML file, by default at
// ~/.config/chronophoto/config.toml, with a project-local chronophoto.toml as
// fallback. Every value has a default so the tool runs without any file;
// command-line flags override file values.
package config
