package device

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE devices (
			id TEXT PRIMARY KEY,
			account_id TEXT NOT NULL,
			gateway_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
		CREATE TABLE components (
			cid TEXT NOT NULL,
			account_id TEXT NOT NULL,
			device_id TEXT NOT NULL REFERENCES devices(id),
			type TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			PRIMARY KEY (account_id, cid)
		);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating schema: %v", err)
	}

	return db
}

func testDevice() *Device {
	return &Device{
		ID:        "D1",
		AccountID: "A1",
		GatewayID: "G1",
		Name:      "Living Room Hub",
		Components: []Component{
			{CID: "cid1", Type: "actuator1.v1.0", Name: "LED Strip"},
			{CID: "cid2", Type: "sensor1.v1.0", Name: "Temp Sensor"},
		},
	}
}

func TestCreateAndGetDevice(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, testDevice()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "D1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.GatewayID != "G1" {
		t.Errorf("gateway_id = %q, want G1", got.GatewayID)
	}
	if len(got.Components) != 2 {
		t.Errorf("components = %d, want 2", len(got.Components))
	}
}

func TestGetComponent(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, testDevice()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dev, comp, err := repo.GetComponent(ctx, "A1", "cid1")
	if err != nil {
		t.Fatalf("GetComponent() error = %v", err)
	}
	if dev.ID != "D1" || dev.GatewayID != "G1" {
		t.Errorf("device = %+v, want D1/G1", dev)
	}
	if comp.Type != "actuator1.v1.0" || comp.DeviceID != "D1" {
		t.Errorf("component = %+v, want type actuator1.v1.0 on D1", comp)
	}
}

func TestGetComponentWrongAccount(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, testDevice()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// CID exists but belongs to account A1; lookup under A2 must miss.
	_, _, err := repo.GetComponent(ctx, "A2", "cid1")
	if !errors.Is(err, ErrComponentNotFound) {
		t.Errorf("GetComponent() error = %v, want ErrComponentNotFound", err)
	}
}

func TestGetComponentNotFound(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	_, _, err := repo.GetComponent(context.Background(), "A1", "ghost")
	if !errors.Is(err, ErrComponentNotFound) {
		t.Errorf("GetComponent() error = %v, want ErrComponentNotFound", err)
	}
}

func TestAddComponentDuplicateCID(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, testDevice()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	err := repo.AddComponent(ctx, &Component{
		CID: "cid1", AccountID: "A1", DeviceID: "D1", Type: "actuator1.v1.0",
	})
	if !errors.Is(err, ErrComponentExists) {
		t.Errorf("AddComponent() error = %v, want ErrComponentExists", err)
	}
}

func TestRenameAndRemoveComponent(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, testDevice()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.RenameComponent(ctx, "A1", "cid1", "Hall LED"); err != nil {
		t.Fatalf("RenameComponent() error = %v", err)
	}
	_, comp, err := repo.GetComponent(ctx, "A1", "cid1")
	if err != nil {
		t.Fatalf("GetComponent() error = %v", err)
	}
	if comp.Name != "Hall LED" {
		t.Errorf("name = %q, want Hall LED", comp.Name)
	}

	if err := repo.RemoveComponent(ctx, "A1", "cid1"); err != nil {
		t.Fatalf("RemoveComponent() error = %v", err)
	}
	_, _, err = repo.GetComponent(ctx, "A1", "cid1")
	if !errors.Is(err, ErrComponentNotFound) {
		t.Errorf("after remove: error = %v, want ErrComponentNotFound", err)
	}

	if err := repo.RemoveComponent(ctx, "A1", "cid1"); !errors.Is(err, ErrComponentNotFound) {
		t.Errorf("double remove: error = %v, want ErrComponentNotFound", err)
	}
}

func TestListByAccount(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	if err := repo.Create(ctx, testDevice()); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	other := &Device{ID: "D2", AccountID: "A2", GatewayID: "G2"}
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create() second error = %v", err)
	}

	devices, err := repo.ListByAccount(ctx, "A1")
	if err != nil {
		t.Fatalf("ListByAccount() error = %v", err)
	}
	if len(devices) != 1 || devices[0].ID != "D1" {
		t.Errorf("ListByAccount(A1) = %+v, want just D1", devices)
	}
}
