package command

import (
	"context"
	"fmt"

	"github.com/conduitiot/conduit-core/internal/history"
)

// Emitter publishes an outbound command message for transport bindings
// to consume. Implementations exist for MQTT and the WebSocket event
// feed; MultiEmitter fans out to several.
type Emitter interface {
	Emit(msg *Message) error
}

// HistoryStore appends actuation records.
// Satisfied by history.Repository.
type HistoryStore interface {
	Append(ctx context.Context, record *history.Record) error
}

// Sink is the history writer + emitter shared by both dispatch paths:
// one PersistAndEmit call per finally-accepted component command.
type Sink struct {
	history HistoryStore
	emitter Emitter
	logger  Logger
}

// NewSink creates a sink writing to the given history store and emitter.
func NewSink(historyStore HistoryStore, emitter Emitter) *Sink {
	return &Sink{
		history: historyStore,
		emitter: emitter,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the sink.
func (s *Sink) SetLogger(logger Logger) {
	s.logger = logger
}

// SetEmitter swaps the emitter. Wiring only: the WebSocket hub is built
// after the sink, so composition roots install the final emitter set
// before serving traffic.
func (s *Sink) SetEmitter(emitter Emitter) {
	s.emitter = emitter
}

// PersistAndEmit writes one actuation record, then publishes the message.
//
// A history failure stops the emission: nothing goes out that was not
// recorded. The reverse does not hold — if emission fails after the
// append, the record stands and the error is returned; delivery is
// at-least-once at the transport layer, so callers retry or log rather
// than compensate.
func (s *Sink) PersistAndEmit(ctx context.Context, msg *Message) error {
	record := &history.Record{
		DeviceID:    msg.Content.DeviceID,
		ComponentID: msg.Content.ComponentID,
		Command:     msg.Content.Command,
		Parameters:  historyParams(msg.Content.Params),
	}

	if err := s.history.Append(ctx, record); err != nil {
		return fmt.Errorf("appending actuation record: %w", err)
	}

	if err := s.emitter.Emit(msg); err != nil {
		s.logger.Warn("emit failed after history append",
			"device_id", msg.Content.DeviceID,
			"component_id", msg.Content.ComponentID,
			"error", err,
		)
		return fmt.Errorf("emitting command message: %w", err)
	}

	return nil
}

func historyParams(params []Parameter) []history.Parameter {
	out := make([]history.Parameter, len(params))
	for i, p := range params {
		out[i] = history.Parameter{Name: p.Name, Value: p.Value}
	}
	return out
}
