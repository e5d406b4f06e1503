package template

import "errors"

// Domain errors for the template package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, template.ErrTemplateNotFound) {
//	    // handle not found case
//	}
var (
	// ErrTemplateNotFound is returned when a template ID does not exist
	// for the given account.
	ErrTemplateNotFound = errors.New("template: not found")

	// ErrTemplateExists is returned when creating a template with an ID
	// that already exists.
	ErrTemplateExists = errors.New("template: already exists")

	// ErrInvalidTemplate is returned when template validation fails.
	ErrInvalidTemplate = errors.New("template: invalid")
)
