package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/conduitiot/conduit-core/internal/catalog"
	"github.com/conduitiot/conduit-core/internal/connection"
	"github.com/conduitiot/conduit-core/internal/device"
	"github.com/conduitiot/conduit-core/internal/history"
	"github.com/conduitiot/conduit-core/internal/template"
)

// fakeComponents resolves components from an in-memory map.
type fakeComponents struct {
	devices map[string]*device.Device    // by device ID
	comps   map[string]*device.Component // by CID
}

func (f *fakeComponents) GetComponent(_ context.Context, accountID, cid string) (*device.Device, *device.Component, error) {
	comp, ok := f.comps[cid]
	if !ok || comp.AccountID != accountID {
		return nil, nil, device.ErrComponentNotFound
	}
	return f.devices[comp.DeviceID], comp, nil
}

// fakeCatalog resolves entries from an in-memory map.
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

// fakeTemplates loads templates from an in-memory map.
type fakeTemplates struct {
	templates map[string]*template.Template
}

func (f *fakeTemplates) GetByID(_ context.Context, accountID, id string) (*template.Template, error) {
	tmpl, ok := f.templates[id]
	if !ok || tmpl.AccountID != accountID {
		return nil, template.ErrTemplateNotFound
	}
	return tmpl, nil
}

// memHistory records appends in memory.
type memHistory struct {
	mu      sync.Mutex
	records []history.Record
}

func (m *memHistory) Append(_ context.Context, record *history.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, *record)
	return nil
}

// memEmitter collects emitted messages.
type memEmitter struct {
	mu       sync.Mutex
	messages []Message
}

func (m *memEmitter) Emit(msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, *msg)
	return nil
}

// harness wires the dispatch core against in-memory collaborators.
type harness struct {
	dispatcher *Dispatcher
	resolver   *ActuationResolver
	tracker    *connection.MemoryTracker
	history    *memHistory
	emitter    *memEmitter
}

// newHarness sets up account A1 with device D1 (components cid1, cid2 of
// type actuator1.v1.0) and device D2 (component cid3), plus a template
// "tpl-evening" commanding cid1 and cid3.
func newHarness(t *testing.T) *harness {
	t.Helper()

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

	components := &fakeComponents{
		devices: map[string]*device.Device{
			"D1": {ID: "D1", AccountID: "A1", GatewayID: "G1"},
			"D2": {ID: "D2", AccountID: "A1", GatewayID: "G2"},
		},
		comps: map[string]*device.Component{
			"cid1": {CID: "cid1", AccountID: "A1", DeviceID: "D1", Type: "actuator1.v1.0"},
			"cid2": {CID: "cid2", AccountID: "A1", DeviceID: "D1", Type: "actuator1.v1.0"},
			"cid3": {CID: "cid3", AccountID: "A1", DeviceID: "D2", Type: "actuator1.v1.0"},
		},
	}

	entries := &fakeCatalog{entries: map[string]*catalog.Entry{entry.ID: entry}}

	templates := &fakeTemplates{templates: map[string]*template.Template{
		"tpl-evening": {
			ID:        "tpl-evening",
			AccountID: "A1",
			Name:      "evening",
			Commands: []template.Command{
				{
					ComponentID: "cid1",
					Parameters:  []template.Parameter{{Name: "led", Value: "on"}},
					Transport:   template.TransportMQTT,
				},
				{
					ComponentID: "cid3",
					Parameters:  []template.Parameter{{Name: "level", Value: "40"}},
					Transport:   template.TransportMQTT,
				},
			},
		},
	}}

	hist := &memHistory{}
	emitter := &memEmitter{}
	sink := NewSink(hist, emitter)
	expander := NewExpander(templates)
	tracker := connection.NewMemoryTracker(0)

	return &harness{
		dispatcher: NewDispatcher(components, entries, expander, sink),
		resolver:   NewActuationResolver(components, entries, expander, tracker, sink),
		tracker:    tracker,
		history:    hist,
		emitter:    emitter,
	}
}

func TestDispatchEndToEnd(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	err := h.dispatcher.Dispatch(ctx, "A1", []Request{
		{ComponentID: "cid1", Parameters: []Parameter{{Name: "led", Value: "on"}}},
	}, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if len(h.history.records) != 1 {
		t.Fatalf("history records = %d, want 1", len(h.history.records))
	}
	rec := h.history.records[0]
	if rec.DeviceID != "D1" || rec.ComponentID != "cid1" || rec.Command != "cmd_actuator1" {
		t.Errorf("record = %+v", rec)
	}
	if len(rec.Parameters) != 1 || rec.Parameters[0].Name != "led" || rec.Parameters[0].Value != "on" {
		t.Errorf("record parameters = %+v", rec.Parameters)
	}

	if len(h.emitter.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(h.emitter.messages))
	}
	msg := h.emitter.messages[0]
	if msg.Type != MessageTypeCommand {
		t.Errorf("message type = %q, want command", msg.Type)
	}
	want := MessageContent{
		DomainID: "A1", DeviceID: "D1", GatewayID: "G1",
		ComponentID: "cid1", Command: "cmd_actuator1",
		Params: []Parameter{{Name: "led", Value: "on"}},
	}
	if msg.Content.DomainID != want.DomainID || msg.Content.DeviceID != want.DeviceID ||
		msg.Content.GatewayID != want.GatewayID || msg.Content.ComponentID != want.ComponentID ||
		msg.Content.Command != want.Command {
		t.Errorf("content = %+v, want %+v", msg.Content, want)
	}
}

func TestDispatchAtomicity(t *testing.T) {
	h := newHarness(t)

	// cid1 is valid, cid2 carries an invalid value: nothing may be emitted
	// for either.
	err := h.dispatcher.Dispatch(context.Background(), "A1", []Request{
		{ComponentID: "cid1", Parameters: []Parameter{{Name: "led", Value: "on"}}},
		{ComponentID: "cid2", Parameters: []Parameter{{Name: "led", Value: "maybe"}}},
	}, nil)
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("Dispatch() error = %v, want ErrInvalidValue", err)
	}

	if len(h.history.records) != 0 {
		t.Errorf("history records = %d, want 0 (all-or-nothing)", len(h.history.records))
	}
	if len(h.emitter.messages) != 0 {
		t.Errorf("messages = %d, want 0 (all-or-nothing)", len(h.emitter.messages))
	}
}

func TestDispatchUnknownComponentShortCircuits(t *testing.T) {
	h := newHarness(t)

	err := h.dispatcher.Dispatch(context.Background(), "A1", []Request{
		{ComponentID: "cid1", Parameters: []Parameter{{Name: "led", Value: "on"}}},
		{ComponentID: "ghost", Parameters: []Parameter{{Name: "led", Value: "on"}}},
	}, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Dispatch() error = %v, want ErrNotFound", err)
	}

	if len(h.history.records) != 0 || len(h.emitter.messages) != 0 {
		t.Error("unknown component must suppress all side effects")
	}
}

func TestDispatchUnknownParameterName(t *testing.T) {
	h := newHarness(t)

	err := h.dispatcher.Dispatch(context.Background(), "A1", []Request{
		{ComponentID: "cid1", Parameters: []Parameter{{Name: "colour", Value: "red"}}},
	}, nil)
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Dispatch() error = %v, want ErrInvalidValue", err)
	}
}

func TestDispatchBatchingMergesSameComponent(t *testing.T) {
	h := newHarness(t)

	err := h.dispatcher.Dispatch(context.Background(), "A1", []Request{
		{ComponentID: "cid1", Parameters: []Parameter{{Name: "led", Value: "on"}}},
		{ComponentID: "cid1", Parameters: []Parameter{{Name: "led", Value: "off"}}},
	}, nil)
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if len(h.history.records) != 1 {
		t.Fatalf("history records = %d, want 1 (merged)", len(h.history.records))
	}
	if len(h.emitter.messages) != 1 {
		t.Fatalf("messages = %d, want 1 (merged)", len(h.emitter.messages))
	}

	params := h.emitter.messages[0].Content.Params
	if len(params) != 2 {
		t.Fatalf("merged params = %d, want 2", len(params))
	}
	// Request order preserved.
	if params[0].Value != "on" || params[1].Value != "off" {
		t.Errorf("params = %+v, want on then off", params)
	}
}

func TestDispatchWithComplexCommand(t *testing.T) {
	h := newHarness(t)

	err := h.dispatcher.Dispatch(context.Background(), "A1", nil, []string{"tpl-evening"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	// Template commands two distinct components.
	if len(h.emitter.messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(h.emitter.messages))
	}
	if len(h.history.records) != 2 {
		t.Fatalf("history records = %d, want 2", len(h.history.records))
	}
}

func TestDispatchUnknownComplexCommand(t *testing.T) {
	h := newHarness(t)

	err := h.dispatcher.Dispatch(context.Background(), "A1", nil, []string{"ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Dispatch() error = %v, want ErrNotFound", err)
	}
	if len(h.emitter.messages) != 0 {
		t.Error("unknown template must suppress all side effects")
	}
}

func TestDispatchWrongAccount(t *testing.T) {
	h := newHarness(t)

	err := h.dispatcher.Dispatch(context.Background(), "A2", []Request{
		{ComponentID: "cid1", Parameters: []Parameter{{Name: "led", Value: "on"}}},
	}, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Dispatch() error = %v, want ErrNotFound", err)
	}
}

func TestDispatchEmptyBatch(t *testing.T) {
	h := newHarness(t)

	if err := h.dispatcher.Dispatch(context.Background(), "A1", nil, nil); err != nil {
		t.Errorf("Dispatch() empty batch error = %v", err)
	}
	if len(h.emitter.messages) != 0 {
		t.Error("empty batch must emit nothing")
	}
}

func TestTemplateExpansionRoundTrip(t *testing.T) {
	// A saved template's values must always validate against the catalog
	// contract they were built from.
	h := newHarness(t)

	reqs, err := NewExpander(&fakeTemplates{templates: map[string]*template.Template{
		"tpl-evening": {
			ID: "tpl-evening", AccountID: "A1", Name: "evening",
			Commands: []template.Command{
				{ComponentID: "cid1", Parameters: []template.Parameter{{Name: "led", Value: "on"}}, Transport: template.TransportMQTT},
				{ComponentID: "cid2", Parameters: []template.Parameter{{Name: "level", Value: "55"}}, Transport: template.TransportMQTT},
			},
		},
	}}).Expand(context.Background(), "A1", "tpl-evening")
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if len(reqs) != 2 {
		t.Fatalf("expanded requests = %d, want 2", len(reqs))
	}

	err = h.dispatcher.Dispatch(context.Background(), "A1", reqs, nil)
	if err != nil {
		t.Errorf("Dispatch() of expanded requests error = %v", err)
	}
}
