package template

import "time"

// Transport tags which delivery channel a templated command should use.
type Transport string

// Supported transports.
const (
	TransportMQTT Transport = "mqtt"
	TransportWS   Transport = "ws"
)

// IsValid checks if the transport is a recognised value.
func (t Transport) IsValid() bool {
	return t == TransportMQTT || t == TransportWS
}

// Parameter is one concrete name/value pair stored in a template command.
type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Command is one stored per-component command inside a template.
// Values are concrete (already filled in), validated at save time against
// the component's catalog contract.
type Command struct {
	// ComponentID is the target component instance (CID).
	ComponentID string `json:"component_id"`

	// Parameters are the concrete values to send, in declaration order.
	Parameters []Parameter `json:"parameters"`

	// Transport tags the delivery channel for this command.
	Transport Transport `json:"transport"`
}

// Template is a named, reusable bundle of concrete component commands.
// Referenced by ID from rule actuation actions or direct dispatch calls.
// The payload is immutable; changes go through a full replace.
type Template struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Name      string    `json:"name"`
	Commands  []Command `json:"commands"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeepCopy creates a completely independent copy of the template.
func (t *Template) DeepCopy() *Template {
	if t == nil {
		return nil
	}

	tmpl := *t
	if t.Commands != nil {
		tmpl.Commands = make([]Command, len(t.Commands))
		for i, cmd := range t.Commands {
			tmpl.Commands[i] = cmd
			if cmd.Parameters != nil {
				tmpl.Commands[i].Parameters = make([]Parameter, len(cmd.Parameters))
				copy(tmpl.Commands[i].Parameters, cmd.Parameters)
			}
		}
	}
	return &tmpl
}
