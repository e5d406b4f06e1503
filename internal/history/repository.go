package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Query limit boundaries for ListByDevice.
const (
	// defaultQueryLimit is used when no limit is specified.
	defaultQueryLimit = 100

	// maxQueryLimit caps the records returned in a single query.
	maxQueryLimit = 1000
)

// Repository defines the interface for actuation history persistence.
type Repository interface {
	// Append persists one actuation record. A missing ID and timestamp
	// are filled in. Each append is atomic per record; no cross-record
	// transaction is needed.
	Append(ctx context.Context, record *Record) error

	// ListByDevice retrieves records for a device within a time range,
	// newest first. Zero from/to mean unbounded; limit is clamped to
	// [1, 1000] with a default of 100.
	ListByDevice(ctx context.Context, deviceID string, from, to time.Time, limit int) ([]Record, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Append persists one actuation record.
func (r *SQLiteRepository) Append(ctx context.Context, record *Record) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	params, err := json.Marshal(record.Parameters)
	if err != nil {
		return fmt.Errorf("marshalling parameters: %w", err)
	}

	query := `
		INSERT INTO actuations (id, device_id, component_id, command, parameters, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		record.ID, record.DeviceID, record.ComponentID, record.Command,
		string(params), record.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting actuation record: %w", err)
	}
	return nil
}

// ListByDevice retrieves records for a device within a time range.
func (r *SQLiteRepository) ListByDevice(ctx context.Context, deviceID string, from, to time.Time, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	if limit > maxQueryLimit {
		limit = maxQueryLimit
	}

	query := `
		SELECT id, device_id, component_id, command, parameters, created_at
		FROM actuations
		WHERE device_id = ?`
	args := []any{deviceID}

	if !from.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, from.UTC().Format(time.RFC3339Nano))
	}
	if !to.IsZero() {
		query += " AND created_at <= ?"
		args = append(args, to.UTC().Format(time.RFC3339Nano))
	}

	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying actuation history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var params, createdAt string

		if err := rows.Scan(&rec.ID, &rec.DeviceID, &rec.ComponentID, &rec.Command, &params, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning actuation record: %w", err)
		}

		if params != "" {
			if err := json.Unmarshal([]byte(params), &rec.Parameters); err != nil {
				return nil, fmt.Errorf("unmarshalling parameters: %w", err)
			}
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt) //nolint:errcheck // Format is controlled

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating actuation records: %w", err)
	}
	return records, nil
}
