package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for device persistence operations.
// This abstraction allows for different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	// GetByID retrieves a device by its unique identifier, with components.
	// Returns ErrDeviceNotFound if the device does not exist.
	GetByID(ctx context.Context, id string) (*Device, error)

	// GetComponent resolves a component instance by account and CID,
	// returning both the owning device and the component record.
	// Returns ErrComponentNotFound if no component matches.
	GetComponent(ctx context.Context, accountID, cid string) (*Device, *Component, error)

	// ListByAccount retrieves all devices owned by an account.
	ListByAccount(ctx context.Context, accountID string) ([]Device, error)

	// Create inserts a new device together with its components.
	// Returns ErrDeviceExists if a device with the same ID already exists.
	Create(ctx context.Context, dev *Device) error

	// AddComponent attaches a component to an existing device.
	// Returns ErrComponentExists if the CID is taken within the account.
	AddComponent(ctx context.Context, comp *Component) error

	// RenameComponent updates a component's name, the only mutable field.
	RenameComponent(ctx context.Context, accountID, cid, name string) error

	// RemoveComponent detaches a component from its device.
	RemoveComponent(ctx context.Context, accountID, cid string) error
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

// GetByID retrieves a device by its unique identifier, with components.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Device, error) {
	query := `
		SELECT id, account_id, gateway_id, name, created_at
		FROM devices
		WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	dev, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device by id: %w", err)
	}

	dev.Components, err = r.queryComponents(ctx, "WHERE device_id = ?", id)
	if err != nil {
		return nil, err
	}
	return dev, nil
}

// GetComponent resolves a component instance by account and CID.
//
// This is the hot path for command dispatch: one query joins the component
// to its owning device so callers get both records in a single round trip.
func (r *SQLiteRepository) GetComponent(ctx context.Context, accountID, cid string) (*Device, *Component, error) {
	query := `
		SELECT d.id, d.account_id, d.gateway_id, d.name, d.created_at,
			c.cid, c.account_id, c.device_id, c.type, c.name, c.created_at
		FROM components c
		JOIN devices d ON d.id = c.device_id
		WHERE c.account_id = ? AND c.cid = ?`

	var dev Device
	var comp Component
	var devCreated, compCreated string

	err := r.db.QueryRowContext(ctx, query, accountID, cid).Scan(
		&dev.ID, &dev.AccountID, &dev.GatewayID, &dev.Name, &devCreated,
		&comp.CID, &comp.AccountID, &comp.DeviceID, &comp.Type, &comp.Name, &compCreated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrComponentNotFound
		}
		return nil, nil, fmt.Errorf("resolving component: %w", err)
	}

	dev.CreatedAt, _ = time.Parse(time.RFC3339, devCreated)   //nolint:errcheck // Format is controlled
	comp.CreatedAt, _ = time.Parse(time.RFC3339, compCreated) //nolint:errcheck // Format is controlled

	return &dev, &comp, nil
}

// ListByAccount retrieves all devices owned by an account.
func (r *SQLiteRepository) ListByAccount(ctx context.Context, accountID string) ([]Device, error) {
	query := `
		SELECT id, account_id, gateway_id, name, created_at
		FROM devices
		WHERE account_id = ?
		ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		dev, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		devices = append(devices, *dev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}

	for i := range devices {
		devices[i].Components, err = r.queryComponents(ctx, "WHERE device_id = ?", devices[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return devices, nil
}

// Create inserts a new device together with its components.
func (r *SQLiteRepository) Create(ctx context.Context, dev *Device) error {
	if err := validateDevice(dev); err != nil {
		return err
	}

	if dev.CreatedAt.IsZero() {
		dev.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO devices (id, account_id, gateway_id, name, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		dev.ID, dev.AccountID, dev.GatewayID, dev.Name,
		dev.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDeviceExists
		}
		return fmt.Errorf("inserting device: %w", err)
	}

	for i := range dev.Components {
		comp := &dev.Components[i]
		comp.AccountID = dev.AccountID
		comp.DeviceID = dev.ID
		if comp.CreatedAt.IsZero() {
			comp.CreatedAt = dev.CreatedAt
		}
		if err := insertComponent(ctx, tx, comp); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing device: %w", err)
	}
	return nil
}

// AddComponent attaches a component to an existing device.
func (r *SQLiteRepository) AddComponent(ctx context.Context, comp *Component) error {
	if err := validateComponent(comp); err != nil {
		return err
	}
	if comp.CreatedAt.IsZero() {
		comp.CreatedAt = time.Now().UTC()
	}
	return insertComponent(ctx, r.db, comp)
}

// RenameComponent updates a component's name, the only mutable field.
func (r *SQLiteRepository) RenameComponent(ctx context.Context, accountID, cid, name string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE components SET name = ? WHERE account_id = ? AND cid = ?`,
		name, accountID, cid,
	)
	if err != nil {
		return fmt.Errorf("renaming component: %w", err)
	}
	return requireRow(result, ErrComponentNotFound)
}

// RemoveComponent detaches a component from its device.
func (r *SQLiteRepository) RemoveComponent(ctx context.Context, accountID, cid string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM components WHERE account_id = ? AND cid = ?`,
		accountID, cid,
	)
	if err != nil {
		return fmt.Errorf("removing component: %w", err)
	}
	return requireRow(result, ErrComponentNotFound)
}

// execer abstracts sql.DB and sql.Tx for insertComponent.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertComponent(ctx context.Context, db execer, comp *Component) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO components (cid, account_id, device_id, type, name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		comp.CID, comp.AccountID, comp.DeviceID, comp.Type, comp.Name,
		comp.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrComponentExists
		}
		return fmt.Errorf("inserting component: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) queryComponents(ctx context.Context, where string, args ...any) ([]Component, error) {
	query := `
		SELECT cid, account_id, device_id, type, name, created_at
		FROM components ` + where + ` ORDER BY cid`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying components: %w", err)
	}
	defer rows.Close()

	var comps []Component
	for rows.Next() {
		var comp Component
		var created string
		if err := rows.Scan(&comp.CID, &comp.AccountID, &comp.DeviceID, &comp.Type, &comp.Name, &created); err != nil {
			return nil, fmt.Errorf("scanning component: %w", err)
		}
		comp.CreatedAt, _ = time.Parse(time.RFC3339, created) //nolint:errcheck // Format is controlled
		comps = append(comps, comp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating components: %w", err)
	}
	return comps, nil
}

// scanner abstracts sql.Row and sql.Rows for scanDevice.
type scanner interface {
	Scan(dest ...any) error
}

func scanDevice(row scanner) (*Device, error) {
	var dev Device
	var created string

	err := row.Scan(&dev.ID, &dev.AccountID, &dev.GatewayID, &dev.Name, &created)
	if err != nil {
		return nil, err
	}

	dev.CreatedAt, err = time.Parse(time.RFC3339, created)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &dev, nil
}

func validateDevice(dev *Device) error {
	if dev.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidDevice)
	}
	if dev.AccountID == "" {
		return fmt.Errorf("%w: account_id is required", ErrInvalidDevice)
	}
	if dev.GatewayID == "" {
		return fmt.Errorf("%w: gateway_id is required", ErrInvalidDevice)
	}
	for i := range dev.Components {
		comp := dev.Components[i]
		if comp.CID == "" {
			return fmt.Errorf("%w: cid is required", ErrInvalidComponent)
		}
		if comp.Type == "" {
			return fmt.Errorf("%w: component %q has no type", ErrInvalidComponent, comp.CID)
		}
	}
	return nil
}

func validateComponent(comp *Component) error {
	if comp.CID == "" {
		return fmt.Errorf("%w: cid is required", ErrInvalidComponent)
	}
	if comp.AccountID == "" || comp.DeviceID == "" {
		return fmt.Errorf("%w: account_id and device_id are required", ErrInvalidComponent)
	}
	if comp.Type == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidComponent)
	}
	return nil
}

func requireRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
