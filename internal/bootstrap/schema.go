package bootstrap

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/idilsaglam/storelocator/internal/logger"
)

const (
	createTable = "CREATE TABLE IF NOT EXISTS TestTable ( item_id INT, item_name VARCHAR(20) )"
	countRows   = "SELECT COUNT(item_id) FROM TestTable"
	seedRows    = "INSERT INTO TestTable(item_id, item_name) VALUES (1, 'Test'), (2, 'Jeremy')"
)

// Session is the slice of a database connection EnsureSchema needs.
type Session interface {
	Exec(ctx context.Context, query string) error
	Count(ctx context.Context, query string) (int64, error)
}

// EnsureSchema creates TestTable when missing and seeds it when empty.
// Running it again is a no-op. It reports whether rows were inserted.
func EnsureSchema(ctx context.Context, s Session, log *zap.SugaredLogger) (bool, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := s.Exec(ctx, createTable); err != nil {
		return false, errors.Wrap(err, "create TestTable")
	}

	n, err := s.Count(ctx, countRows)
	if err != nil {
		return false, errors.Wrap(err, "count TestTable")
	}
	if n > 0 {
		log.Infow("TestTable already seeded", "rows", n)
		return false, nil
	}

	if err := s.Exec(ctx, seedRows); err != nil {
		return false, errors.Wrap(err, "seed TestTable")
	}
	log.Infow("TestTable seeded", "rows", 2)
	return true, nil
}

// DB adapts *sql.DB to Session.
type DB struct {
	*sql.DB
}

// Open connects with the mysql driver and pings the server.
func Open(ctx context.Context, cfg *Config) (*DB, error) {
	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "open db")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "ping db %s", cfg.addr())
	}
	return &DB{DB: db}, nil
}

func (d *DB) Exec(ctx context.Context, query string) error {
	_, err := d.DB.ExecContext(ctx, query)
	return err
}

func (d *DB) Count(ctx context.Context, query string) (int64, error) {
	var n int64
	err := d.DB.QueryRowContext(ctx, query).Scan(&n)
	return n, err
}
