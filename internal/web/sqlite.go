// SQLite media metadata service

package web

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

const SQLDriver = "sqlite3"

type SQLiteMediaMetadataService struct {
	dbFile string  // database file path
	db     *sql.DB // database connection pool
}

var _ MediaMetadataService = (*SQLiteMediaMetadataService)(nil)

func NewSQLiteMediaMetadataService(dbFile string) (*SQLiteMediaMetadataService, error) {
	dbConn, err := sql.Open(SQLDriver, dbFile)
	if err != nil {
		return nil, fmt.Errorf("error opening SQL connection: %w", err)
	}

	sqlStmt := `
	CREATE TABLE IF NOT EXISTS media (
		name TEXT NOT NULL PRIMARY KEY,
		length INTEGER NOT NULL,
		content_type TEXT NOT NULL,
		registered_at TIMESTAMP NOT NULL
	);
	`
	if _, err = dbConn.Exec(sqlStmt); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to create media table: %w", err)
	}

	return &SQLiteMediaMetadataService{dbFile: dbFile, db: dbConn}, nil
}

func (ms *SQLiteMediaMetadataService) Read(name string) (*MediaMetadata, error) {
	var meta MediaMetadata

	SQLQuery := "SELECT name, length, content_type, registered_at FROM media WHERE name = ?"

	row := ms.db.QueryRow(SQLQuery, name)
	err := row.Scan(&meta.Name, &meta.Length, &meta.ContentType, &meta.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to extract fields from row: %w", err)
	}

	return &meta, nil
}

// Upsert records meta, replacing any earlier entry with the same name.
func (ms *SQLiteMediaMetadataService) Upsert(meta MediaMetadata) error {
	SQLQuery := `INSERT INTO media(name, length, content_type, registered_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET length = excluded.length, content_type = excluded.content_type, registered_at = excluded.registered_at`

	txn, err := ms.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer txn.Rollback()

	stmt, err := txn.Prepare(SQLQuery)
	if err != nil {
		return fmt.Errorf("failed to create prepared statement: %w", err)
	}
	defer stmt.Close()

	if _, err = stmt.Exec(meta.Name, meta.Length, meta.ContentType, meta.RegisteredAt.UTC()); err != nil {
		return fmt.Errorf("failed to execute stmt: %w", err)
	}

	if err = txn.Commit(); err != nil {
		return fmt.Errorf("error while committing transaction: %w", err)
	}
	return nil
}

func (ms *SQLiteMediaMetadataService) Close() error {
	log.Debugf("closing metadata DB %v", ms.dbFile)
	return ms.db.Close()
}
