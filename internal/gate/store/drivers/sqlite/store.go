package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/millhouse-dev/taskgate/internal/gate/store"
	"github.com/millhouse-dev/taskgate/pkg/cryptox"
	_ "modernc.org/sqlite"
)

// Store is the sqlite-backed credential store. Credential values are
// sealed with the device key before they touch disk.
type Store struct {
	db     *sql.DB
	sealer *cryptox.Sealer
}

func NewStore(dsn string, sealer *cryptox.Sealer) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// All access is serialized through one connection. The gate has a
	// single writer per device installation, so pooling buys nothing and
	// keeps in-memory databases coherent for tests.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, sealer: sealer}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Credentials() store.Credentials {
	return &credentialsRepo{db: s.db, sealer: s.sealer}
}

func (s *Store) AuthEvents() store.AuthEvents {
	return &authEventsRepo{db: s.db}
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
