package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/conduitiot/conduit-core/internal/template"
)

// TemplateStore loads complex command templates.
// Satisfied by template.Repository.
type TemplateStore interface {
	GetByID(ctx context.Context, accountID, id string) (*template.Template, error)
}

// Expander flattens a stored complex command template into per-component
// command requests.
type Expander struct {
	templates TemplateStore
}

// NewExpander creates a template expander.
func NewExpander(templates TemplateStore) *Expander {
	return &Expander{templates: templates}
}

// Expand loads the template by (account, id) and returns its commands as
// requests, each carrying the template's transport tag.
//
// Expansion does not validate values: templates are validated when saved,
// and the direct path re-validates everything uniformly after merging
// expanded requests with direct ones.
func (e *Expander) Expand(ctx context.Context, accountID, templateID string) ([]Request, error) {
	tmpl, err := e.templates.GetByID(ctx, accountID, templateID)
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			return nil, fmt.Errorf("%w: complex command %q", ErrNotFound, templateID)
		}
		return nil, err
	}

	requests := make([]Request, 0, len(tmpl.Commands))
	for _, cmd := range tmpl.Commands {
		requests = append(requests, Request{
			ComponentID: cmd.ComponentID,
			Parameters:  templateParams(cmd.Parameters),
			Transport:   cmd.Transport,
		})
	}
	return requests, nil
}

func templateParams(params []template.Parameter) []Parameter {
	out := make([]Parameter, len(params))
	for i, p := range params {
		out[i] = Parameter{Name: p.Name, Value: p.Value}
	}
	return out
}
