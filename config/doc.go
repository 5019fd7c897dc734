// Package config loads the process configuration from a YAML file into
// nested structs with defaults and validation.
package config
