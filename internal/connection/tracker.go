package connection

import (
	"context"
	"errors"
	"time"
)

// ErrNoBinding is returned when a device has no recorded connection.
// On the alert path this is not a failure: it means "nothing to deliver
// to right now" and the command is silently skipped.
var ErrNoBinding = errors.New("connection: no binding for device")

// Transport identifies the channel a device last connected over.
type Transport string

// Supported transports.
const (
	TransportMQTT Transport = "mqtt"
	TransportWS   Transport = "ws"
)

// Binding is the transport layer's record of a device's last live
// connection. Read-only to the dispatch subsystem.
type Binding struct {
	DeviceID        string    `json:"device_id"`
	Transport       Transport `json:"transport"`
	LastConnectedAt time.Time `json:"last_connected_at"`
}

// Tracker reports device reachability. The alert path consults it before
// emitting each command; the direct path never does.
type Tracker interface {
	// LastBinding returns the most recent binding for a device.
	// Returns ErrNoBinding if the device has never connected or the
	// record has expired.
	LastBinding(ctx context.Context, deviceID string) (*Binding, error)

	// Touch records a fresh connection for a device.
	// Called by the transport-facing side when a device connects.
	Touch(ctx context.Context, deviceID string, transport Transport) error
}
