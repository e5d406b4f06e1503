package template

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for template persistence operations.
type Repository interface {
	// GetByID retrieves a template by account and ID.
	// Returns ErrTemplateNotFound if no template matches.
	GetByID(ctx context.Context, accountID, id string) (*Template, error)

	// ListByAccount retrieves all templates owned by an account.
	ListByAccount(ctx context.Context, accountID string) ([]Template, error)

	// Create inserts a new template. A missing ID is generated.
	// Returns ErrTemplateExists if the ID is already taken.
	Create(ctx context.Context, tmpl *Template) error

	// Replace swaps a template's payload wholesale. The payload itself is
	// immutable; this is the only mutation path.
	// Returns ErrTemplateNotFound if no template matches.
	Replace(ctx context.Context, tmpl *Template) error

	// Delete removes a template by account and ID.
	// Returns ErrTemplateNotFound if no template matches.
	Delete(ctx context.Context, accountID, id string) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByID retrieves a template by account and ID.
func (r *SQLiteRepository) GetByID(ctx context.Context, accountID, id string) (*Template, error) {
	query := `
		SELECT id, account_id, name, commands, created_at, updated_at
		FROM complex_commands
		WHERE account_id = ? AND id = ?`

	row := r.db.QueryRowContext(ctx, query, accountID, id)
	tmpl, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("querying template by id: %w", err)
	}
	return tmpl, nil
}

// ListByAccount retrieves all templates owned by an account.
func (r *SQLiteRepository) ListByAccount(ctx context.Context, accountID string) ([]Template, error) {
	query := `
		SELECT id, account_id, name, commands, created_at, updated_at
		FROM complex_commands
		WHERE account_id = ?
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("querying templates: %w", err)
	}
	defer rows.Close()

	var templates []Template
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning template: %w", err)
		}
		templates = append(templates, *tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating templates: %w", err)
	}
	return templates, nil
}

// Create inserts a new template. A missing ID is generated.
func (r *SQLiteRepository) Create(ctx context.Context, tmpl *Template) error {
	if tmpl.ID == "" {
		tmpl.ID = uuid.NewString()
	}

	now := time.Now().UTC()
	if tmpl.CreatedAt.IsZero() {
		tmpl.CreatedAt = now
	}
	tmpl.UpdatedAt = now

	commands, err := json.Marshal(tmpl.Commands)
	if err != nil {
		return fmt.Errorf("marshalling commands: %w", err)
	}

	query := `
		INSERT INTO complex_commands (id, account_id, name, commands, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err = r.db.ExecContext(ctx, query,
		tmpl.ID, tmpl.AccountID, tmpl.Name, string(commands),
		tmpl.CreatedAt.Format(time.RFC3339),
		tmpl.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrTemplateExists
		}
		return fmt.Errorf("inserting template: %w", err)
	}
	return nil
}

// Replace swaps a template's payload wholesale.
func (r *SQLiteRepository) Replace(ctx context.Context, tmpl *Template) error {
	tmpl.UpdatedAt = time.Now().UTC()

	commands, err := json.Marshal(tmpl.Commands)
	if err != nil {
		return fmt.Errorf("marshalling commands: %w", err)
	}

	query := `
		UPDATE complex_commands
		SET name = ?, commands = ?, updated_at = ?
		WHERE account_id = ? AND id = ?`

	result, err := r.db.ExecContext(ctx, query,
		tmpl.Name, string(commands),
		tmpl.UpdatedAt.Format(time.RFC3339),
		tmpl.AccountID, tmpl.ID,
	)
	if err != nil {
		return fmt.Errorf("replacing template: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// Delete removes a template by account and ID.
func (r *SQLiteRepository) Delete(ctx context.Context, accountID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM complex_commands WHERE account_id = ? AND id = ?`,
		accountID, id,
	)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows for scanTemplate.
type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row scanner) (*Template, error) {
	var tmpl Template
	var commands, createdAt, updatedAt string

	err := row.Scan(&tmpl.ID, &tmpl.AccountID, &tmpl.Name, &commands, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if commands != "" {
		if err := json.Unmarshal([]byte(commands), &tmpl.Commands); err != nil {
			return nil, fmt.Errorf("unmarshalling commands: %w", err)
		}
	}

	tmpl.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // Format is controlled
	tmpl.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // Format is controlled

	return &tmpl, nil
}
