// Package buildcache persists emitted backend output keyed by a hash
// of (source, backend, memory size), so rebuilding the same program
// against the same backend skips codegen entirely. The default driver
// is the pure-Go modernc.org/sqlite; the package also blank-imports
// the mysql, postgres, and SQL Server drivers and accepts their names,
// the same register-every-driver-dispatch-on-a-string pattern the
// teacher's own database package uses. The SQL it issues is SQLite
// syntax (CREATE TABLE IF NOT EXISTS, TEXT primary key columns, BLOB,
// `?` placeholders, ON CONFLICT upsert), so with the other three
// drivers creating the table in Open fails.
package buildcache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Driver names accepted by Open, mirroring the teacher's DBManager
// dbType switch.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverMSSQL    = "sqlserver"
)

// Cache wraps a database/sql handle holding one row per distinct
// (key, backend, memSize) build ever seen.
type Cache struct {
	db *sql.DB
}

// Open connects to dsn using driver and ensures the cache table
// exists.
func Open(ctx context.Context, driver, dsn string) (*Cache, error) {
	sqlDriver, err := driverName(driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("buildcache: open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("buildcache: ping %s: %w", driver, err)
	}

	c := &Cache{db: db}
	if err := c.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func driverName(driver string) (string, error) {
	switch driver {
	case DriverSQLite, "sqlite3":
		return "sqlite", nil
	case DriverMySQL:
		return "mysql", nil
	case DriverPostgres, "postgresql":
		return "postgres", nil
	case DriverMSSQL, "mssql":
		return "sqlserver", nil
	default:
		return "", fmt.Errorf("buildcache: unsupported driver %q", driver)
	}
}

func (c *Cache) ensureSchema(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS builds (
	cache_key   TEXT NOT NULL,
	backend     TEXT NOT NULL,
	mem_size    INTEGER NOT NULL,
	build_id    TEXT NOT NULL,
	output      BLOB NOT NULL,
	PRIMARY KEY (cache_key, backend, mem_size)
)`)
	return err
}

// Key hashes the inputs that fully determine a build's output.
func Key(source string, backend string, memSize int) string {
	h := blake2b.Sum256([]byte(fmt.Sprintf("%s\x00%s\x00%d", source, backend, memSize)))
	return fmt.Sprintf("%x", h)
}

// Entry is one cached build.
type Entry struct {
	BuildID string
	Output  []byte
}

// Lookup returns the cached output for key/backend/memSize, if any.
func (c *Cache) Lookup(ctx context.Context, key, backend string, memSize int) (*Entry, bool, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT build_id, output FROM builds WHERE cache_key = ? AND backend = ? AND mem_size = ?`,
		key, backend, memSize)

	var e Entry
	if err := row.Scan(&e.BuildID, &e.Output); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("buildcache: lookup: %w", err)
	}
	return &e, true, nil
}

// Store records a build's output, replacing any prior entry for the
// same key/backend/memSize, and returns the build ID assigned to it.
func (c *Cache) Store(ctx context.Context, key, backend string, memSize int, output []byte) (string, error) {
	buildID := uuid.New().String()
	_, err := c.db.ExecContext(ctx, `
INSERT INTO builds (cache_key, backend, mem_size, build_id, output)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (cache_key, backend, mem_size) DO UPDATE SET
	build_id = excluded.build_id,
	output   = excluded.output`,
		key, backend, memSize, buildID, output)
	if err != nil {
		return "", fmt.Errorf("buildcache: store: %w", err)
	}
	return buildID, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error { return c.db.Close() }
