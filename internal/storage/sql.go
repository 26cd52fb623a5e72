package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver

	"github.com/klabast/wb-services/menu-planer/internal/config"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLBackend stores resources as rows of a single table, one row per path.
// The version token is an integer revision bumped on every update.
type SQLBackend struct {
	db     *sql.DB
	driver string
	table  string
}

// NewSQLBackend wraps an open database. driver selects the placeholder style.
func NewSQLBackend(db *sql.DB, driver, table string) (*SQLBackend, error) {
	if table == "" {
		table = config.DefaultSQLTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &SQLBackend{db: db, driver: driver, table: table}, nil
}

// OpenSQL opens the configured database and creates the table if needed
func OpenSQL(ctx context.Context, cfg config.SQLConfig) (*SQLBackend, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	b, err := NewSQLBackend(db, cfg.Driver, cfg.Table)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := b.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return b, nil
}

// EnsureSchema creates the backing table if it does not exist
func (b *SQLBackend) EnsureSchema(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			path    TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			version BIGINT NOT NULL
		)`, b.table))
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", b.table, err)
	}
	return nil
}

func (b *SQLBackend) Get(ctx context.Context, path string) ([]byte, string, error) {
	var content string
	var version int64
	err := b.db.QueryRowContext(ctx,
		b.rebind(fmt.Sprintf(`SELECT content, version FROM %s WHERE path = ?`, b.table)),
		path,
	).Scan(&content, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, "", err
	}
	return []byte(content), strconv.FormatInt(version, 10), nil
}

func (b *SQLBackend) Create(ctx context.Context, path string, data []byte) error {
	if _, _, err := b.Get(ctx, path); err == nil {
		return fmt.Errorf("%s: %w", path, ErrExists)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	_, err := b.db.ExecContext(ctx,
		b.rebind(fmt.Sprintf(`INSERT INTO %s (path, content, version) VALUES (?, ?, 1)`, b.table)),
		path, string(data),
	)
	return err
}

// Update overwrites the row in a single statement. The version token is not
// compared, matching the other backends.
func (b *SQLBackend) Update(ctx context.Context, path string, data []byte, version string) error {
	res, err := b.db.ExecContext(ctx,
		b.rebind(fmt.Sprintf(`UPDATE %s SET content = ?, version = version + 1 WHERE path = ?`, b.table)),
		string(data), path,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return nil
}

func (b *SQLBackend) Close() error {
	return b.db.Close()
}

// rebind converts ? placeholders to $n for PostgreSQL
func (b *SQLBackend) rebind(query string) string {
	if b.driver != "pgx" {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
