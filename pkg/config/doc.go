// Package config provides configuration management for Callisto.
//
// Configuration is loaded from YAML files with sensible defaults, validated
// at startup, and optionally overridden by CALLISTO_* environment variables.
// The loading sequence is:
//
//  1. Load YAML from file
//  2. Apply default values for unset fields
//  3. Apply environment variable overrides
//  4. Validate the final configuration
//
// The engine's tuning thresholds live under the engine section and are not
// hot-reloadable; restart the process to change them.
package config
