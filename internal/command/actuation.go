package command

import (
	"context"
	"errors"
	"sync"

	"github.com/conduitiot/conduit-core/internal/connection"
)

// ActuationResolver orchestrates the alert-triggered command path.
//
// Unlike the direct path, failure policy here is best-effort per command:
// a rule fire is an automated event, and one unresolvable or unreachable
// target must never block the rest of the rule's actions (including its
// mail/http notifications, handled elsewhere). Commands are skipped, not
// failed.
type ActuationResolver struct {
	components ComponentResolver
	entries    CatalogResolver
	expander   *Expander
	tracker    connection.Tracker
	sink       *Sink
	logger     Logger
}

// NewActuationResolver creates an alert-path resolver.
func NewActuationResolver(components ComponentResolver, entries CatalogResolver, expander *Expander, tracker connection.Tracker, sink *Sink) *ActuationResolver {
	return &ActuationResolver{
		components: components,
		entries:    entries,
		expander:   expander,
		tracker:    tracker,
		sink:       sink,
		logger:     noopLogger{},
	}
}

// SetLogger sets the logger for the resolver.
func (r *ActuationResolver) SetLogger(logger Logger) {
	r.logger = logger
}

// ResolveActuations attaches resolved command messages to every
// actuation-type action in place. Actions are processed independently
// and concurrently; non-actuation actions are left untouched.
//
// Per action: the target template is expanded, each command is resolved,
// and the device's connection binding is checked. Any failure — missing
// template, unknown component, store error, no binding — skips that one
// command (or action) and logs; it never fails the call. Completion is
// success: an action whose device is offline simply ends with zero
// messages.
func (r *ActuationResolver) ResolveActuations(ctx context.Context, accountID string, actions []*RuleAction) error {
	var wg sync.WaitGroup
	for _, action := range actions {
		if action.Type != ActionTypeActuation {
			continue
		}

		wg.Add(1)
		go func(action *RuleAction) {
			defer wg.Done()
			r.resolveAction(ctx, accountID, action)
		}(action)
	}
	wg.Wait()
	return nil
}

// resolveAction populates one action's messages.
func (r *ActuationResolver) resolveAction(ctx context.Context, accountID string, action *RuleAction) {
	action.Messages = []Message{}

	requests, err := r.expander.Expand(ctx, accountID, action.Target)
	if err != nil {
		r.logger.Warn("skipping actuation action: template expansion failed",
			"account_id", accountID,
			"template_id", action.Target,
			"error", err,
		)
		return
	}

	for _, req := range requests {
		res, err := resolveTarget(ctx, r.components, r.entries, accountID, req.ComponentID)
		if err != nil {
			// Skip this command only; siblings proceed.
			r.logger.Warn("skipping actuation command: resolution failed",
				"account_id", accountID,
				"component_id", req.ComponentID,
				"error", err,
			)
			continue
		}

		if _, err := r.tracker.LastBinding(ctx, res.Device.ID); err != nil {
			if !errors.Is(err, connection.ErrNoBinding) {
				r.logger.Warn("skipping actuation command: connection lookup failed",
					"device_id", res.Device.ID,
					"error", err,
				)
				continue
			}
			// No binding is not an error: nothing to deliver to right now.
			r.logger.Debug("skipping actuation command: device has no connection binding",
				"device_id", res.Device.ID,
				"component_id", req.ComponentID,
			)
			continue
		}

		action.Messages = append(action.Messages, *buildMessage(accountID, res, req.Parameters))
	}
}

// SendActuations persists and emits every message previously assembled by
// ResolveActuations. Called once the rule pipeline has decided to realize
// the fire's side effects. Failures are logged per message and never
// propagate; the record-then-emit policy lives in the shared Sink.
func (r *ActuationResolver) SendActuations(ctx context.Context, actions []*RuleAction) {
	for _, action := range actions {
		if action.Type != ActionTypeActuation {
			continue
		}
		for i := range action.Messages {
			msg := &action.Messages[i]
			if err := r.sink.PersistAndEmit(ctx, msg); err != nil {
				r.logger.Error("persist/emit failed for actuation",
					"device_id", msg.Content.DeviceID,
					"component_id", msg.Content.ComponentID,
					"error", err,
				)
			}
		}
	}
}
