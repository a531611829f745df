// Package config loads and validates the exporter's YAML configuration.
//
// Configuration is split across files:
//   - config.go: struct definitions with yaml tags
//   - loader.go: file loading with ${ENV} expansion
//   - defaults.go: default values for optional fields
//   - validate.go: required-field and range checks
//
// API keys are expected to arrive via ${ENV} references in the YAML so they
// never live in the file itself.
package config
