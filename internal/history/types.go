package history

import "time"

// Parameter is one name/value pair recorded with an actuation.
type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Record is one dispatched component command, persisted at the moment it
// was accepted for delivery. Append-only: never updated or deleted by the
// dispatch subsystem.
type Record struct {
	// ID is a generated unique identifier for this record.
	ID string `json:"id"`

	// DeviceID is the device the command was addressed to.
	DeviceID string `json:"device_id"`

	// ComponentID is the target component instance (CID).
	ComponentID string `json:"component_id"`

	// Command is the catalog command string that was sent.
	Command string `json:"command"`

	// Parameters are the values sent, in request order.
	Parameters []Parameter `json:"parameters"`

	// CreatedAt is when the command was accepted for delivery.
	CreatedAt time.Time `json:"created_at"`
}
