package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"mosaic-gallery/internal/logging"
	"mosaic-gallery/internal/metrics"
)

const defaultTimeout = 5 * time.Second

// pragmas are applied through the go-sqlite3 DSN. WAL lets API reads run
// while an index batch is open.
var pragmas = [][2]string{
	{"_journal_mode", "WAL"},
	{"_synchronous", "NORMAL"},
	{"_busy_timeout", "5000"},
	{"_cache_size", "10000"},
	{"_temp_store", "MEMORY"},
}

func dsn(path string) string {
	q := make(url.Values, len(pragmas))
	for _, p := range pragmas {
		q.Set(p[0], p[1])
	}
	return path + "?" + q.Encode()
}

// Database manages the image catalog.
type Database struct {
	db      *sql.DB
	mu      sync.RWMutex
	stats   IndexStats
	statsMu sync.RWMutex
	txStart time.Time
}

// New opens (creating if needed) the catalog database at dbPath. The parent
// directory must already exist and be writable.
func New(ctx context.Context, dbPath string) (*Database, error) {
	repairReadOnlyFiles(dbPath)

	db, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	d := &Database{db: db}
	if err := d.prepare(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
		return nil, err
	}

	logging.Info("Catalog database ready at %s", dbPath)
	return d, nil
}

func (d *Database) prepare(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := d.initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}
	return nil
}

func (d *Database) initialize(ctx context.Context) error {
	schema := `
	-- updated_at holds the UnixNano start time of the last index run that saw the row
	CREATE TABLE IF NOT EXISTS images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL,
		base_url TEXT NOT NULL,
		width INTEGER NOT NULL DEFAULT 0,
		height INTEGER NOT NULL DEFAULT 0,
		orientation TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		year INTEGER,
		nudity INTEGER NOT NULL DEFAULT 0,
		always_show INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		updated_at INTEGER NOT NULL DEFAULT 0,
		UNIQUE(author, filename)
	);

	CREATE INDEX IF NOT EXISTS idx_images_author ON images(author);
	CREATE INDEX IF NOT EXISTS idx_images_author_nudity ON images(author, nudity);
	CREATE INDEX IF NOT EXISTS idx_images_author_always_show ON images(author, always_show, orientation);
	CREATE INDEX IF NOT EXISTS idx_images_updated_at ON images(updated_at);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT
	);
	`

	_, err := d.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// BeginBatch starts a transaction for batch operations.
// The caller is responsible for calling EndBatch when done.
func (d *Database) BeginBatch() (*sql.Tx, error) {
	d.mu.Lock()
	txStart := time.Now()

	// Transaction lifetime is managed by EndBatch, not a timeout.
	tx, err := d.db.BeginTx(context.Background(), nil)
	d.mu.Unlock()

	if err != nil {
		return nil, err
	}

	d.txStart = txStart
	return tx, nil
}

// EndBatch commits the transaction, or rolls it back when err is non-nil.
func (d *Database) EndBatch(tx *sql.Tx, err error) error {
	duration := time.Since(d.txStart).Seconds()

	if err != nil {
		metrics.DBTransactionDuration.WithLabelValues("rollback").Observe(duration)
		rbErr := tx.Rollback()
		if rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback also failed: %w", rbErr))
		}
		return err
	}

	metrics.DBTransactionDuration.WithLabelValues("commit").Observe(duration)
	return tx.Commit()
}

// UpdateStats updates the cached statistics.
func (d *Database) UpdateStats(stats IndexStats) {
	d.statsMu.Lock()
	defer d.statsMu.Unlock()
	d.stats = stats
}

// GetStats returns the statistics cached by the last index run.
func (d *Database) GetStats() IndexStats {
	d.statsMu.RLock()
	defer d.statsMu.RUnlock()
	return d.stats
}

// recordQuery records database query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}

func (d *Database) recordPoolStats() {
	metrics.DBConnectionsOpen.Set(float64(d.db.Stats().OpenConnections))
}

// repairReadOnlyFiles makes existing database files writable. Files restored
// from a backup or copied in by another user often arrive read-only, which
// only surfaces later as failed index batches.
func repairReadOnlyFiles(dbPath string) {
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		info, err := os.Stat(p)
		if err != nil || info.Mode().Perm()&0o200 != 0 {
			continue
		}
		if err := os.Chmod(p, info.Mode().Perm()|0o600); err != nil {
			logging.Error("%s is read-only and could not be fixed: %v", p, err)
			continue
		}
		logging.Warn("%s was read-only, made it writable", p)
	}
}
