// Package database manages the SQLite persistent store for Rhapsody Core.
//
// It provides connection lifecycle management (WAL mode, busy timeout,
// foreign keys), health checks, and schema migrations from SQL files
// embedded into the binary.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: "./data/rhapsody.db", WALMode: true, BusyTimeout: 5})
//	if err != nil { ... }
//	defer db.Close()
//	if err := db.Migrate(ctx); err != nil { ... }
package database
