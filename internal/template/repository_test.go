package template

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/conduitiot/conduit-core/internal/catalog"
	"github.com/conduitiot/conduit-core/internal/device"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE complex_commands (
			id TEXT PRIMARY KEY,
			account_id TEXT NOT NULL,
			name TEXT NOT NULL,
			commands TEXT NOT NULL DEFAULT '[]',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating schema: %v", err)
	}

	return db
}

func testTemplate() *Template {
	return &Template{
		AccountID: "A1",
		Name:      "evening-scene",
		Commands: []Command{
			{
				ComponentID: "cid1",
				Parameters:  []Parameter{{Name: "led", Value: "on"}},
				Transport:   TransportMQTT,
			},
			{
				ComponentID: "cid2",
				Parameters:  []Parameter{{Name: "level", Value: "40"}},
				Transport:   TransportWS,
			},
		},
	}
}

func TestCreateAndGetTemplate(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	tmpl := testTemplate()
	if err := repo.Create(ctx, tmpl); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if tmpl.ID == "" {
		t.Fatal("Create() did not generate an ID")
	}

	got, err := repo.GetByID(ctx, "A1", tmpl.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if len(got.Commands) != 2 {
		t.Fatalf("commands = %d, want 2", len(got.Commands))
	}
	if got.Commands[0].Transport != TransportMQTT {
		t.Errorf("transport = %q, want mqtt", got.Commands[0].Transport)
	}
	if got.Commands[1].Parameters[0].Value != "40" {
		t.Errorf("parameter value = %q, want 40", got.Commands[1].Parameters[0].Value)
	}
}

func TestGetTemplateWrongAccount(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	tmpl := testTemplate()
	if err := repo.Create(ctx, tmpl); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err := repo.GetByID(ctx, "A2", tmpl.ID)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("GetByID() error = %v, want ErrTemplateNotFound", err)
	}
}

func TestReplaceTemplate(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	tmpl := testTemplate()
	if err := repo.Create(ctx, tmpl); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tmpl.Commands = tmpl.Commands[:1]
	tmpl.Name = "evening-scene-v2"
	if err := repo.Replace(ctx, tmpl); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	got, err := repo.GetByID(ctx, "A1", tmpl.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "evening-scene-v2" || len(got.Commands) != 1 {
		t.Errorf("replace not applied: %+v", got)
	}
}

func TestReplaceMissingTemplate(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	tmpl := testTemplate()
	tmpl.ID = "ghost"
	if err := repo.Replace(context.Background(), tmpl); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("Replace() error = %v, want ErrTemplateNotFound", err)
	}
}

func TestDeleteTemplate(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	tmpl := testTemplate()
	if err := repo.Create(ctx, tmpl); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(ctx, "A1", tmpl.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, "A1", tmpl.ID); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("second Delete() error = %v, want ErrTemplateNotFound", err)
	}
}

// fakeComponents satisfies ComponentResolver for validator tests.
type fakeComponents struct {
	comps map[string]*device.Component
}

func (f *fakeComponents) GetComponent(_ context.Context, accountID, cid string) (*device.Device, *device.Component, error) {
	comp, ok := f.comps[cid]
	if !ok || comp.AccountID != accountID {
		return nil, nil, device.ErrComponentNotFound
	}
	dev := &device.Device{ID: comp.DeviceID, AccountID: accountID, GatewayID: "G1"}
	return dev, comp, nil
}

// fakeCatalog satisfies CatalogResolver for validator tests.
type fakeCatalog struct {
	entries map[string]*catalog.Entry
}

func (f *fakeCatalog) GetEntry(_ context.Context, id string) (*catalog.Entry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, catalog.ErrEntryNotFound
	}
	return entry, nil
}

func setupValidator() *Validator {
	entry := &catalog.Entry{
		ID:       "actuator1.v1.0",
		DataType: catalog.DataTypeString,
		Command: catalog.Command{
			Name: "cmd_actuator1",
			Parameters: []catalog.ParameterSpec{
				{Name: "led", Values: "on,off"},
				{Name: "level", Values: "0-100"},
			},
		},
	}
	entry.ParseSpecs()

	return NewValidator(
		&fakeComponents{comps: map[string]*device.Component{
			"cid1": {CID: "cid1", AccountID: "A1", DeviceID: "D1", Type: "actuator1.v1.0"},
		}},
		&fakeCatalog{entries: map[string]*catalog.Entry{entry.ID: entry}},
	)
}

func TestValidateTemplate(t *testing.T) {
	v := setupValidator()
	ctx := context.Background()

	valid := &Template{
		AccountID: "A1",
		Name:      "ok",
		Commands: []Command{{
			ComponentID: "cid1",
			Parameters:  []Parameter{{Name: "led", Value: "on"}},
			Transport:   TransportMQTT,
		}},
	}
	if err := v.Validate(ctx, valid); err != nil {
		t.Errorf("Validate() valid template error = %v", err)
	}

	tests := []struct {
		name string
		mut  func(*Template)
	}{
		{"bad value", func(tm *Template) { tm.Commands[0].Parameters[0].Value = "maybe" }},
		{"unknown parameter", func(tm *Template) { tm.Commands[0].Parameters[0].Name = "colour" }},
		{"unknown component", func(tm *Template) { tm.Commands[0].ComponentID = "ghost" }},
		{"bad transport", func(tm *Template) { tm.Commands[0].Transport = "pigeon" }},
		{"no commands", func(tm *Template) { tm.Commands = nil }},
		{"no name", func(tm *Template) { tm.Name = "" }},
	}

	for _, tt := range tests {
		tmpl := valid.DeepCopy()
		tt.mut(tmpl)
		if err := v.Validate(ctx, tmpl); !errors.Is(err, ErrInvalidTemplate) {
			t.Errorf("%s: Validate() error = %v, want ErrInvalidTemplate", tt.name, err)
		}
	}
}
