package command

import "errors"

// Domain errors for the command package. These map onto the error codes
// surfaced to API callers.
//
// Check with errors.Is():
//
//	if errors.Is(err, command.ErrInvalidValue) {
//	    // reject with a 400
//	}
var (
	// ErrInvalidValue is returned when a supplied parameter value does not
	// satisfy its catalog spec, or names a parameter the contract does not
	// declare. On the direct path this aborts the whole batch.
	ErrInvalidValue = errors.New("command: invalid value")

	// ErrNotFound is returned when a referenced component, device, or
	// complex command template does not exist for the account.
	ErrNotFound = errors.New("command: not found")

	// ErrInvalidCommand is returned when a request is structurally invalid
	// (no component ID, no parameters at all).
	ErrInvalidCommand = errors.New("command: invalid command")
)
