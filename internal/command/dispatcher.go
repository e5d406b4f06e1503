package command

import (
	"context"
	"fmt"
)

// Dispatcher orchestrates the direct (API-issued) command path.
//
// A caller-issued batch represents one semantic operation ("set these
// three actuators together"), so validation is all-or-nothing: any
// resolution or validation failure aborts the whole batch before a single
// side effect, leaving no partial device state.
type Dispatcher struct {
	components ComponentResolver
	entries    CatalogResolver
	expander   *Expander
	sink       *Sink
	logger     Logger
}

// NewDispatcher creates a direct command dispatcher.
func NewDispatcher(components ComponentResolver, entries CatalogResolver, expander *Expander, sink *Sink) *Dispatcher {
	return &Dispatcher{
		components: components,
		entries:    entries,
		expander:   expander,
		sink:       sink,
		logger:     noopLogger{},
	}
}

// SetLogger sets the logger for the dispatcher.
func (d *Dispatcher) SetLogger(logger Logger) {
	d.logger = logger
}

// Dispatch validates and emits a batch of component commands.
//
// Steps:
//  1. Expand every complex command ID and append the results to the
//     direct requests (expanded requests keep their transport tag).
//  2. Resolve every distinct component concurrently. Any failure aborts
//     the batch with ErrNotFound (or the store error) — no side effects.
//  3. Validate every request against its resolved contract. Any failure
//     aborts the batch with ErrInvalidValue — no side effects.
//  4. Merge requests per component (parameters concatenated in request
//     order), then write one history record and emit one message per
//     distinct component.
//
// Past step 3 the batch is committed: a persistence or emission failure
// on one component is logged but does not roll back siblings already
// emitted.
func (d *Dispatcher) Dispatch(ctx context.Context, accountID string, direct []Request, complexCommandIDs []string) error {
	requests := make([]Request, 0, len(direct))
	for _, req := range direct {
		if req.ComponentID == "" {
			return fmt.Errorf("%w: request has no component_id", ErrInvalidCommand)
		}
		requests = append(requests, req)
	}

	for _, id := range complexCommandIDs {
		expanded, err := d.expander.Expand(ctx, accountID, id)
		if err != nil {
			return err
		}
		requests = append(requests, expanded...)
	}

	if len(requests) == 0 {
		return nil
	}

	cids := make([]string, len(requests))
	for i, req := range requests {
		cids[i] = req.ComponentID
	}

	resolutions, err := resolveAll(ctx, d.components, d.entries, accountID, cids)
	if err != nil {
		return err
	}

	for _, req := range requests {
		if err := ValidateCommand(resolutions[req.ComponentID].Entry, req.Parameters); err != nil {
			return fmt.Errorf("component %q: %w", req.ComponentID, err)
		}
	}

	// Point of no return: everything resolved and validated.
	for _, merged := range mergeRequests(requests) {
		res := resolutions[merged.ComponentID]
		msg := buildMessage(accountID, res, merged.Parameters)

		if err := d.sink.PersistAndEmit(ctx, msg); err != nil {
			// Siblings already emitted are not rolled back; delivery is
			// at-least-once downstream.
			d.logger.Error("persist/emit failed for component",
				"account_id", accountID,
				"component_id", merged.ComponentID,
				"error", err,
			)
		}
	}

	return nil
}

// mergeRequests collapses multiple requests for the same component into
// one, parameters concatenated in request order, preserving the order of
// first appearance. A user toggling a value twice in one batch produces
// one outbound message carrying both parameters.
func mergeRequests(requests []Request) []Request {
	index := make(map[string]int, len(requests))
	var merged []Request

	for _, req := range requests {
		if i, ok := index[req.ComponentID]; ok {
			merged[i].Parameters = append(merged[i].Parameters, req.Parameters...)
			continue
		}
		index[req.ComponentID] = len(merged)
		params := make([]Parameter, len(req.Parameters))
		copy(params, req.Parameters)
		merged = append(merged, Request{
			ComponentID: req.ComponentID,
			Parameters:  params,
			Transport:   req.Transport,
		})
	}
	return merged
}
