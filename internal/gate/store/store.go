package store

import (
	"context"
	"errors"
	"time"

	"github.com/millhouse-dev/taskgate/internal/gate/domain"
)

var (
	ErrNotFound = errors.New("store: not found")
)

// Credential store keys owned by the gate. TodoItems belongs to the todo
// component; the gate only ever touches it through Clear.
const (
	KeyPINHash       = "pin_hash"
	KeySessionMarker = "last_auth_at"
	KeyTodoItems     = "todo_items"
)

// Store is the root data access interface over the device-local credential
// database. Concrete drivers (sqlite) implement this. Values written through
// Credentials are confidential and sealed at rest by the driver.
type Store interface {
	Credentials() Credentials
	AuthEvents() AuthEvents

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Credentials is the durable, confidential key-value contract the engine
// depends on. Each operation is independently failable.
type Credentials interface {
	// Get returns the value for key, or ErrNotFound when absent.
	Get(ctx context.Context, key string) (string, error)

	// Set writes (or overwrites) the value for key.
	Set(ctx context.Context, key string, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every gate-owned key, including the todo blob. Used by
	// the full local-data wipe, never by the engine itself.
	Clear(ctx context.Context) error
}

// AuthEvents is the append-only audit trail of authentication attempts.
type AuthEvents interface {
	// Append records one attempt (id is provided by the caller via ULID).
	Append(ctx context.Context, ev domain.AuthEvent) error

	// ListRecent returns up to limit events, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.AuthEvent, error)

	// DeleteOlderThan prunes events created before cutoff (housekeeping).
	DeleteOlderThan(ctx context.Context, cutoff time.Time) error
}
