// Package config centralizes application configuration and filesystem layout.
//
// Configuration is loaded from environment variables (CYBERLENS_* prefix) and
// an optional config.yaml file, with environment values taking precedence.
// The Paths type is the single source of truth for every file the pipeline
// reads or writes; no package outside config builds data paths by hand.
package config
