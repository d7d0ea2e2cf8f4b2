// Package database handles the MySQL connection for the record store mirror.
//
// It provides a wrapper around GORM to configure the connection from the
// application's configuration, with pooling and timeouts applied.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
