package device

import "time"

// Device is a physical unit owned by an account, reached through a gateway.
// A device carries zero or more components; the component list is mutable
// but each component is immutable once created except for its name.
type Device struct {
	// ID is the device identifier, unique across the system.
	ID string `json:"id"`

	// AccountID is the owning account (domain).
	AccountID string `json:"account_id"`

	// GatewayID is the gateway the device connects through.
	GatewayID string `json:"gateway_id"`

	// Name is the user-facing device name.
	Name string `json:"name"`

	// Components are the sensor/actuator instances attached to this device.
	Components []Component `json:"components,omitempty"`

	// CreatedAt is when the device was registered.
	CreatedAt time.Time `json:"created_at"`
}

// Component is one concrete sensor/actuator instance attached to a device.
// CID is the addressing key used by all command requests; Type references
// a catalog entry that supplies the command contract.
type Component struct {
	// CID is the component instance identifier, unique within the account.
	CID string `json:"cid"`

	// AccountID is the owning account, matching the parent device.
	AccountID string `json:"account_id"`

	// DeviceID is the parent device.
	DeviceID string `json:"device_id"`

	// Type is the component type ID, resolved against the catalog.
	Type string `json:"type"`

	// Name is the user-facing component name. The only mutable field.
	Name string `json:"name"`

	// CreatedAt is when the component was attached.
	CreatedAt time.Time `json:"created_at"`
}

// DeepCopy creates a completely independent copy of the device.
func (d *Device) DeepCopy() *Device {
	if d == nil {
		return nil
	}

	dev := *d
	if d.Components != nil {
		dev.Components = make([]Component, len(d.Components))
		copy(dev.Components, d.Components)
	}
	return &dev
}
