// Package server holds the HTTP server configuration and constants.
//
// While the main application entry point handles the server startup, this
// package defines the configuration structures and valid values for server
// settings, including the explicit dev/prod environment selector.
//
// # Configuration
//
// The Config struct defines the HTTP port, API key, and the environment the
// process operates on. The environment is an explicit value threaded through
// configuration, so separate dev and prod scopes can run concurrently without
// shared mutable state.
package server
