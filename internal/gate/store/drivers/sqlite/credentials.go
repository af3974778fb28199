package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/millhouse-dev/taskgate/pkg/cryptox"
)

type credentialsRepo struct {
	db     *sql.DB
	sealer *cryptox.Sealer
}

func (r *credentialsRepo) Get(ctx context.Context, key string) (string, error) {
	var sealed string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM credentials WHERE key = ?`, key,
	).Scan(&sealed)
	if err != nil {
		return "", mapNotFound(err)
	}

	value, err := r.sealer.Open(sealed)
	if err != nil {
		return "", fmt.Errorf("failed to unseal credential %q: %w", key, err)
	}
	return value, nil
}

func (r *credentialsRepo) Set(ctx context.Context, key string, value string) error {
	sealed, err := r.sealer.Seal(value)
	if err != nil {
		return fmt.Errorf("failed to seal credential %q: %w", key, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO credentials (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, sealed, time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (r *credentialsRepo) Delete(ctx context.Context, key string) error {
	// No-op when the key is absent; delete is idempotent.
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key)
	return err
}

func (r *credentialsRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials`)
	return err
}
