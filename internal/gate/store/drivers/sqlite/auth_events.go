package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/millhouse-dev/taskgate/internal/gate/domain"
)

type authEventsRepo struct {
	db *sql.DB
}

func (r *authEventsRepo) Append(ctx context.Context, ev domain.AuthEvent) error {
	success := 0
	if ev.Success {
		success = 1
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO auth_events (id, method, success, error_code, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		ev.ID, ev.Method, success, string(ev.Error),
		ev.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

func (r *authEventsRepo) ListRecent(ctx context.Context, limit int) ([]domain.AuthEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, method, success, error_code, created_at
		FROM auth_events
		ORDER BY id DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.AuthEvent, 0, limit)
	for rows.Next() {
		var (
			ev        domain.AuthEvent
			success   int
			errorCode string
			createdAt string
		)
		if err := rows.Scan(&ev.ID, &ev.Method, &success, &errorCode, &createdAt); err != nil {
			return nil, err
		}

		ev.Success = success == 1
		ev.Error = domain.ErrorCode(errorCode)
		ev.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse auth event timestamp: %w", err)
		}

		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *authEventsRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM auth_events WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	return err
}
