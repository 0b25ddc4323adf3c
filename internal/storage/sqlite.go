package storage

import (
	_ "github.com/mattn/go-sqlite3"

	"attendance-backend/internal/config"
)

type SQLiteProvider struct {
	SQLProvider
}

func NewSQLiteProvider(config *config.Storage) (provider *SQLiteProvider) {
	sql := NewSQLProvider(config, "sqlite3", config.SQLite.Path)
	if sql == nil {
		return nil
	}
	if config.SQLite.Path == ":memory:" {
		// Every pooled connection gets its own in-memory database, so the
		// pool must stay on a single connection.
		sql.db.SetMaxOpenConns(1)
	}
	return &SQLiteProvider{
		SQLProvider: *sql,
	}
}
