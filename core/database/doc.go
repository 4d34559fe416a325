// Package database handles database connections for the oppgave copy store.
//
// It provides a wrapper around GORM to properly configure MySQL connections
// based on the application's configuration. A sqlite driver is supported for
// local development and tests (in-memory databases).
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
