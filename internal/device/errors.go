package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrComponentNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a device ID does not exist.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrComponentNotFound is returned when a component ID does not exist
	// for the given account.
	ErrComponentNotFound = errors.New("device: component not found")

	// ErrDeviceExists is returned when creating a device with an ID that already exists.
	ErrDeviceExists = errors.New("device: already exists")

	// ErrComponentExists is returned when attaching a component whose CID
	// is already taken within the account.
	ErrComponentExists = errors.New("device: component already exists")

	// ErrInvalidDevice is returned when device validation fails.
	ErrInvalidDevice = errors.New("device: invalid")

	// ErrInvalidComponent is returned when component validation fails.
	ErrInvalidComponent = errors.New("device: invalid component")
)
