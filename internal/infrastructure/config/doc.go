// Package config loads and validates Conduit Core configuration.
//
// Configuration is read from a YAML file, merged over hardcoded defaults,
// and finally overridden by CONDUIT_* environment variables. Validation
// happens once at load; a *Config is immutable after Load returns.
package config
