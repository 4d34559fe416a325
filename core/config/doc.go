// Package config provides configuration management for oppgave-sync.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP server settings (port, API key, application name)
//   - Database: MySQL connection details for the local oppgave copy store
//   - Log: Logging level, format and the restricted sink path
//   - Kafka: Brokers, topic and group id for the change-event stream
//   - Oppgave: Remote API location, page size, intake filter codes and the
//     legal-reference whitelist override
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
