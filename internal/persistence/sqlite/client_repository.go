package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/salon-scheduler/internal/persistence"
)

// ClientRepository implements persistence.ClientRepository using SQLite.
type ClientRepository struct {
	pool *ConnectionPool
}

var _ persistence.ClientRepository = (*ClientRepository)(nil)

// NewClientRepository creates a new SQLite client repository.
func NewClientRepository(pool *ConnectionPool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

// UpsertClient inserts or replaces a client preference record.
func (r *ClientRepository) UpsertClient(ctx context.Context, client persistence.Client) error {
	if client.ID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if client.CreatedAt.IsZero() {
		client.CreatedAt = now
	}
	client.UpdatedAt = now

	var preferredEmployee sql.NullString
	if client.PreferredEmployeeID != nil {
		preferredEmployee.String = *client.PreferredEmployeeID
		preferredEmployee.Valid = true
	}
	var preferredBucket sql.NullString
	if client.PreferredTimeBucket != nil {
		preferredBucket.String = string(*client.PreferredTimeBucket)
		preferredBucket.Valid = true
	}

	query := `
		INSERT INTO clients (id, display_name, preferred_employee_id, preferred_time_bucket, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			preferred_employee_id = excluded.preferred_employee_id,
			preferred_time_bucket = excluded.preferred_time_bucket,
			updated_at = excluded.updated_at
	`
	_, err := r.pool.DB().ExecContext(ctx, query,
		client.ID,
		client.DisplayName,
		preferredEmployee,
		preferredBucket,
		formatTime(client.CreatedAt),
		formatTime(client.UpdatedAt),
	)
	if err != nil {
		return MapError(err)
	}
	return nil
}

// GetClient retrieves a client by id.
func (r *ClientRepository) GetClient(ctx context.Context, id string) (persistence.Client, error) {
	if id == "" {
		return persistence.Client{}, persistence.ErrNotFound
	}

	query := `
		SELECT id, display_name, preferred_employee_id, preferred_time_bucket, created_at, updated_at
		FROM clients
		WHERE id = ?
	`
	var client persistence.Client
	var preferredEmployee, preferredBucket sql.NullString
	var createdAt, updatedAt string

	err := r.pool.DB().QueryRowContext(ctx, query, id).Scan(
		&client.ID,
		&client.DisplayName,
		&preferredEmployee,
		&preferredBucket,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.Client{}, persistence.ErrNotFound
		}
		return persistence.Client{}, MapError(err)
	}

	if preferredEmployee.Valid {
		client.PreferredEmployeeID = &preferredEmployee.String
	}
	if preferredBucket.Valid {
		bucket := persistence.TimeBucket(preferredBucket.String)
		client.PreferredTimeBucket = &bucket
	}
	if client.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Client{}, fmt.Errorf("parse created_at: %w", err)
	}
	if client.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Client{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return client, nil
}
