package command

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/conduitiot/conduit-core/internal/infrastructure/mqtt"
)

// Publisher is the slice of the MQTT client the emitter needs.
type Publisher interface {
	PublishDefault(topic string, payload []byte) error
}

// MQTTEmitter publishes command messages onto the per-device command
// topic for gateways to pick up.
type MQTTEmitter struct {
	client Publisher
	topics mqtt.Topics
}

// NewMQTTEmitter creates an emitter backed by the MQTT client.
func NewMQTTEmitter(client Publisher) *MQTTEmitter {
	return &MQTTEmitter{client: client}
}

// Emit publishes the message to conduit/command/{device}/{component}.
func (e *MQTTEmitter) Emit(msg *Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshalling command message: %w", err)
	}

	topic := e.topics.DeviceCommand(msg.Content.DeviceID, msg.Content.ComponentID)
	return e.client.PublishDefault(topic, payload)
}

// MultiEmitter fans one message out to several emitters. Every emitter is
// attempted; errors are joined so one failing channel does not hide the
// others or stop them.
type MultiEmitter []Emitter

// Emit sends the message to every wrapped emitter.
func (m MultiEmitter) Emit(msg *Message) error {
	var errs []error
	for _, e := range m {
		if err := e.Emit(msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
