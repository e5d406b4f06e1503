package template

import (
	"context"
	"fmt"

	"github.com/conduitiot/conduit-core/internal/catalog"
	"github.com/conduitiot/conduit-core/internal/device"
)

// ComponentResolver resolves a component instance and its owning device.
// Satisfied by device.Repository.
type ComponentResolver interface {
	GetComponent(ctx context.Context, accountID, cid string) (*device.Device, *device.Component, error)
}

// CatalogResolver resolves a component type to its command contract.
// Satisfied by catalog.Registry.
type CatalogResolver interface {
	GetEntry(ctx context.Context, id string) (*catalog.Entry, error)
}

// Validator checks a template against the device and catalog stores
// before it is saved.
//
// Save-time validation is what lets the alert path trust stored templates:
// a template can never hold a value its own catalog contract rejects, so
// expansion never re-validates.
type Validator struct {
	components ComponentResolver
	entries    CatalogResolver
}

// NewValidator creates a template validator.
func NewValidator(components ComponentResolver, entries CatalogResolver) *Validator {
	return &Validator{components: components, entries: entries}
}

// Validate checks every command in the template: the component must exist
// in the account, the transport must be recognised, every parameter name
// must appear in the component's catalog contract, and every value must
// satisfy its spec. Returns ErrInvalidTemplate describing the first
// offending command.
func (v *Validator) Validate(ctx context.Context, tmpl *Template) error {
	if tmpl.AccountID == "" {
		return fmt.Errorf("%w: account_id is required", ErrInvalidTemplate)
	}
	if tmpl.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTemplate)
	}
	if len(tmpl.Commands) == 0 {
		return fmt.Errorf("%w: at least one command is required", ErrInvalidTemplate)
	}

	for i, cmd := range tmpl.Commands {
		if err := v.validateCommand(ctx, tmpl.AccountID, i, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) validateCommand(ctx context.Context, accountID string, idx int, cmd Command) error {
	if cmd.ComponentID == "" {
		return fmt.Errorf("%w: command %d has no component_id", ErrInvalidTemplate, idx)
	}
	if !cmd.Transport.IsValid() {
		return fmt.Errorf("%w: command %d has unknown transport %q", ErrInvalidTemplate, idx, cmd.Transport)
	}

	_, comp, err := v.components.GetComponent(ctx, accountID, cmd.ComponentID)
	if err != nil {
		return fmt.Errorf("%w: command %d component %q: %w", ErrInvalidTemplate, idx, cmd.ComponentID, err)
	}

	entry, err := v.entries.GetEntry(ctx, comp.Type)
	if err != nil {
		return fmt.Errorf("%w: command %d type %q: %w", ErrInvalidTemplate, idx, comp.Type, err)
	}

	for _, p := range cmd.Parameters {
		spec := entry.Parameter(p.Name)
		if spec == nil {
			return fmt.Errorf("%w: command %d has unknown parameter %q", ErrInvalidTemplate, idx, p.Name)
		}
		if !spec.Spec.Accepts(p.Value) {
			return fmt.Errorf("%w: command %d parameter %q rejects value %q (allowed: %s)",
				ErrInvalidTemplate, idx, p.Name, p.Value, spec.Values)
		}
	}
	return nil
}
