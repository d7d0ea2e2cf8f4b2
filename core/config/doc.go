// Package config provides configuration management for the automation suite.
//
// It utilizes Viper for loading configuration from environment variables and
// a local .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP server settings (port, API key, dev/prod environment)
//   - Database: record store mirror connection details
//   - Storage: archive bucket credentials and settings
//   - Workorder: work-order platform API settings
//   - Automation: run controller tunables
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
