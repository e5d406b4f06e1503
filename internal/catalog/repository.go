package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for catalog persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// GetByID retrieves a component type entry by its identifier.
	// Returns ErrEntryNotFound if the entry does not exist.
	GetByID(ctx context.Context, id string) (*Entry, error)

	// List retrieves all published entries.
	List(ctx context.Context) ([]Entry, error)

	// Create inserts a new entry.
	// Returns ErrEntryExists if an entry with the same ID already exists.
	Create(ctx context.Context, entry *Entry) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
// The db parameter should be an open SQLite connection.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByID retrieves a component type entry by its identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Entry, error) {
	query := `
		SELECT id, data_type, command_name, parameters, created_at
		FROM component_types
		WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("querying catalog entry by id: %w", err)
	}
	return entry, nil
}

// List retrieves all published entries.
func (r *SQLiteRepository) List(ctx context.Context) ([]Entry, error) {
	query := `
		SELECT id, data_type, command_name, parameters, created_at
		FROM component_types
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying catalog entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning catalog entry: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog entries: %w", err)
	}
	return entries, nil
}

// Create inserts a new entry.
func (r *SQLiteRepository) Create(ctx context.Context, entry *Entry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}

	params, err := json.Marshal(entry.Command.Parameters)
	if err != nil {
		return fmt.Errorf("marshalling parameters: %w", err)
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO component_types (id, data_type, command_name, parameters, created_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		entry.ID,
		string(entry.DataType),
		entry.Command.Name,
		string(params),
		entry.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrEntryExists
		}
		return fmt.Errorf("inserting catalog entry: %w", err)
	}
	return nil
}

// validateEntry checks entry fields before persistence.
func validateEntry(entry *Entry) error {
	if entry.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidEntry)
	}
	if !entry.DataType.IsValid() {
		return fmt.Errorf("%w: unknown data type %q", ErrInvalidEntry, entry.DataType)
	}
	if entry.Command.Name == "" {
		return fmt.Errorf("%w: command name is required", ErrInvalidEntry)
	}
	for _, p := range entry.Command.Parameters {
		if p.Name == "" {
			return fmt.Errorf("%w: parameter name is required", ErrInvalidEntry)
		}
		if p.Values == "" {
			return fmt.Errorf("%w: parameter %q has no value spec", ErrInvalidEntry, p.Name)
		}
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanEntry.
type scanner interface {
	Scan(dest ...any) error
}

// scanEntry scans a database row into an Entry, parsing the value specs
// so callers always receive a validation-ready contract.
func scanEntry(row scanner) (*Entry, error) {
	var entry Entry
	var dataType, params, createdAt string

	err := row.Scan(&entry.ID, &dataType, &entry.Command.Name, &params, &createdAt)
	if err != nil {
		return nil, err
	}

	entry.DataType = DataType(dataType)

	if params != "" {
		if err := json.Unmarshal([]byte(params), &entry.Command.Parameters); err != nil {
			return nil, fmt.Errorf("unmarshalling parameters: %w", err)
		}
	}

	entry.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	entry.ParseSpecs()
	return &entry, nil
}
