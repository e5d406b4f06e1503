package command

import (
	"github.com/conduitiot/conduit-core/internal/template"
)

// MessageTypeCommand is the type tag on every outbound command message.
const MessageTypeCommand = "command"

// ActionTypeActuation marks rule actions this subsystem resolves.
// Other action types (mail, http) belong to the notification pipeline.
const ActionTypeActuation = "actuation"

// Parameter is one name/value pair in a command request.
type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Request is one requested component command, from the public API or
// expanded out of a complex command template.
type Request struct {
	// ComponentID is the target component instance (CID).
	ComponentID string `json:"component_id"`

	// Parameters are the requested values, in request order.
	Parameters []Parameter `json:"parameters"`

	// Transport tags the delivery channel for template-expanded requests.
	// Direct API requests carry no tag.
	Transport template.Transport `json:"transport,omitempty"`
}

// MessageContent is the addressing and payload of one outbound command.
type MessageContent struct {
	// DomainID is the owning account.
	DomainID string `json:"domain_id"`

	// DeviceID is the target device.
	DeviceID string `json:"device_id"`

	// GatewayID is the gateway the device connects through.
	GatewayID string `json:"gateway_id"`

	// ComponentID is the target component instance (CID).
	ComponentID string `json:"component_id"`

	// Command is the catalog command string for the component's type.
	Command string `json:"command"`

	// Params are the validated values, in request order.
	Params []Parameter `json:"params"`
}

// Message is one outbound command message, consumed by transport bindings.
type Message struct {
	Type    string         `json:"type"`
	Content MessageContent `json:"content"`
}

// RuleAction is one action of a fired rule, handed in by the rule
// evaluation pipeline. Only actuation-type actions are resolved here;
// Target holds a complex command template ID for those.
//
// ResolveActuations attaches the resolved Messages in place.
type RuleAction struct {
	Type     string    `json:"type"`
	Target   string    `json:"target"`
	Messages []Message `json:"messages,omitempty"`
}
