package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

const (
	maxReaders = 4

	// filePragmas apply to on-disk databases. WAL lets cache reads proceed
	// while an upsert or purge holds the writer.
	filePragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=cache_size(-8000)"

	// memoryPragmas omit journal_mode; WAL does not apply to in-memory databases.
	memoryPragmas = "mode=memory&cache=shared&_pragma=busy_timeout(5000)"
)

// DB holds a single-connection writer and a small reader pool over the same
// SQLite database. Cache writes serialize on Writer; lookups use Reader.
type DB struct {
	Writer *sql.DB
	Reader *sql.DB
	path   string
}

// NewDB opens the card cache database file at dbPath.
func NewDB(ctx context.Context, dbPath string) (*DB, error) {
	return open(ctx, fmt.Sprintf("file:%s?%s", dbPath, filePragmas), dbPath)
}

// NewMemoryDB opens a named in-memory database shared by the writer and
// readers. Distinct names give isolated databases within one process.
func NewMemoryDB(ctx context.Context, name string) (*DB, error) {
	return open(ctx, fmt.Sprintf("file:%s?%s", url.PathEscape(name), memoryPragmas), ":memory:"+name)
}

func open(ctx context.Context, dsn, path string) (*DB, error) {
	writer, err := connect(ctx, dsn, 1)
	if err != nil {
		return nil, fmt.Errorf("writer: %w", err)
	}

	reader, err := connect(ctx, dsn, maxReaders)
	if err != nil {
		_ = writer.Close()
		return nil, fmt.Errorf("reader: %w", err)
	}

	return &DB{Writer: writer, Reader: reader, path: path}, nil
}

func connect(ctx context.Context, dsn string, maxConns int) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	conn.SetMaxOpenConns(maxConns)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return conn, nil
}

// Path returns the database file path, or ":memory:<name>" for NewMemoryDB.
func (db *DB) Path() string {
	return db.path
}

// Close closes both connection pools.
func (db *DB) Close() error {
	return errors.Join(db.Reader.Close(), db.Writer.Close())
}
