package command

import (
	"fmt"

	"github.com/conduitiot/conduit-core/internal/catalog"
)

// ValidateCommand checks every supplied parameter against the component
// type's command contract.
//
// A command is valid iff every parameter name appears in the contract
// (unknown names are invalid) and every value satisfies the matched
// spec. Pure function, no I/O; the specs were parsed at catalog load.
func ValidateCommand(entry *catalog.Entry, params []Parameter) error {
	for _, p := range params {
		spec := entry.Parameter(p.Name)
		if spec == nil {
			return fmt.Errorf("%w: unknown parameter %q for type %q",
				ErrInvalidValue, p.Name, entry.ID)
		}
		if !spec.Spec.Accepts(p.Value) {
			return fmt.Errorf("%w: parameter %q rejects value %q (allowed: %s)",
				ErrInvalidValue, p.Name, p.Value, spec.Values)
		}
	}
	return nil
}
