// Package config defines the immutable run configuration shared by every
// component.
//
// A Config is assembled exactly once per invocation: repository defaults,
// then an optional TOML file, then CLI flags and positional arguments bound
// by the command layer. Finalize normalizes path separators, resolves
// file-based API keys and validates mode combinations so that conflicting
// options abort before the first API call.
package config
