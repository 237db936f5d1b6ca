// Package config loads and validates the keygate-server YAML configuration.
// Missing fields are filled with defaults; secrets (the operator API key)
// are resolved from the environment, never stored in the file itself.
package config
