/*
Copyright 2025 The helpdesk-responder-sim Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package archive records served replies in a SQLite database, allowing the
// transcripts of a simulated helpdesk session to be inspected afterwards.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	_ "github.com/mattn/go-sqlite3"
)

const (
	tableName = "transcript"

	createTableStmt = `CREATE TABLE IF NOT EXISTS ` + tableName + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_id TEXT NOT NULL,
		words JSON NOT NULL,
		keyword TEXT,
		matched INTEGER NOT NULL,
		reply TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`
)

// Entry is one recorded reply.
type Entry struct {
	RequestID string
	Words     []string
	Keyword   string
	Matched   bool
	Reply     string
	CreatedAt int64
}

// Archive is a SQLite backed store of served replies.
type Archive struct {
	logger logr.Logger
	db     *sql.DB
}

// New opens (creating as needed) the archive at path. With inMemory set the
// database lives in memory and path is ignored after validation, the archive
// is then lost on Close.
func New(logger logr.Logger, path string, inMemory bool) (*Archive, error) {
	dsn := path
	if inMemory {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	if _, err := db.Exec(createTableStmt); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error(closeErr, "failed to close archive database after create table failure")
		}
		return nil, fmt.Errorf("failed to create transcript table: %w", err)
	}

	logger.Info("Reply archive opened", "path", dsn)
	return &Archive{logger: logger, db: db}, nil
}

// Record inserts one served reply into the transcript table.
func (a *Archive) Record(ctx context.Context, entry Entry) error {
	words, err := json.Marshal(entry.Words)
	if err != nil {
		return fmt.Errorf("failed to marshal words: %w", err)
	}

	_, err = a.db.ExecContext(ctx,
		`INSERT INTO `+tableName+` (request_id, words, keyword, matched, reply, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.RequestID, string(words), entry.Keyword, entry.Matched, entry.Reply, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record reply: %w", err)
	}
	return nil
}

// Count returns the number of recorded replies.
func (a *Archive) Count(ctx context.Context) (int, error) {
	var count int
	err := a.db.QueryRowContext(ctx, `SELECT COUNT(id) FROM `+tableName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to query archive: %w", err)
	}
	return count, nil
}

// Recent returns up to limit recorded replies, newest first.
func (a *Archive) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT request_id, words, keyword, matched, reply, created_at FROM `+tableName+` ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query archive: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			a.logger.Error(cerr, "failed to close rows after querying transcripts")
		}
	}()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var words string
		if err := rows.Scan(&entry.RequestID, &words, &entry.Keyword, &entry.Matched, &entry.Reply, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transcript row: %w", err)
		}
		if err := json.Unmarshal([]byte(words), &entry.Words); err != nil {
			return nil, fmt.Errorf("failed to unmarshal words JSON: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
