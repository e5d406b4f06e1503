package catalog

import (
	"time"
)

// DataType identifies the primitive data family a component type reports.
type DataType string

// Supported data types.
const (
	DataTypeNumber DataType = "number"
	DataTypeString DataType = "string"
	DataTypeBool   DataType = "bool"
)

// IsValid checks if the data type is a recognised value.
func (d DataType) IsValid() bool {
	switch d {
	case DataTypeNumber, DataTypeString, DataTypeBool:
		return true
	}
	return false
}

// Entry is a published component type definition: the contract every
// device component of this type is commanded against.
//
// Entries are immutable once published and shared by all component
// instances of the type, so they are safe to cache aggressively.
type Entry struct {
	// ID is the component type identifier, e.g. "actuator1.v1.0".
	ID string `json:"id"`

	// DataType is the primitive family of values this type reports.
	DataType DataType `json:"data_type"`

	// Command is the actuation contract for this type.
	Command Command `json:"command"`

	// CreatedAt is when the entry was published.
	CreatedAt time.Time `json:"created_at"`
}

// Command describes the single actuation command a component type accepts.
type Command struct {
	// Name is the command string sent to the device, e.g. "cmd_actuator1".
	Name string `json:"name"`

	// Parameters is the ordered list of parameter contracts.
	Parameters []ParameterSpec `json:"parameters"`
}

// ParameterSpec declares one command parameter and its legal value space.
type ParameterSpec struct {
	// Name is the parameter name. Never empty for a published entry.
	Name string `json:"name"`

	// Values is the raw value-space declaration as authored in the
	// catalog, e.g. "50-60", "on,off" or "reset".
	Values string `json:"values"`

	// Spec is the parsed form of Values, populated when the entry is
	// loaded. Validation always goes through Spec, never through
	// re-parsing Values.
	Spec ValueSpec `json:"-"`
}

// ParseSpecs populates the parsed Spec on every parameter.
// Called once when an entry is loaded from the store.
func (e *Entry) ParseSpecs() {
	for i := range e.Command.Parameters {
		p := &e.Command.Parameters[i]
		p.Spec = ParseValueSpec(p.Values)
	}
}

// Parameter returns the parameter spec with the given name, or nil if the
// entry's contract has no such parameter.
func (e *Entry) Parameter(name string) *ParameterSpec {
	for i := range e.Command.Parameters {
		if e.Command.Parameters[i].Name == name {
			return &e.Command.Parameters[i]
		}
	}
	return nil
}

// DeepCopy creates a completely independent copy of the entry.
// Used by the registry cache to prevent external mutation.
func (e *Entry) DeepCopy() *Entry {
	if e == nil {
		return nil
	}

	entry := *e
	if e.Command.Parameters != nil {
		entry.Command.Parameters = make([]ParameterSpec, len(e.Command.Parameters))
		copy(entry.Command.Parameters, e.Command.Parameters)
	}
	return &entry
}
