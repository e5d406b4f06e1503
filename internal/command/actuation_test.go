package command

import (
	"context"
	"testing"

	"github.com/conduitiot/conduit-core/internal/connection"
)

func TestResolveActuationsBestEffort(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	// D1 (cid1) is reachable, D2 (cid3) has never connected.
	if err := h.tracker.Touch(ctx, "D1", connection.TransportMQTT); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}

	actions := []*RuleAction{
		{Type: ActionTypeActuation, Target: "tpl-evening"},
	}
	if err := h.resolver.ResolveActuations(ctx, "A1", actions); err != nil {
		t.Fatalf("ResolveActuations() error = %v", err)
	}

	// Template commands cid1 (reachable) and cid3 (offline): one message.
	if len(actions[0].Messages) != 1 {
		t.Fatalf("messages = %d, want 1 (offline device skipped)", len(actions[0].Messages))
	}
	msg := actions[0].Messages[0]
	if msg.Content.DeviceID != "D1" || msg.Content.ComponentID != "cid1" {
		t.Errorf("message content = %+v, want D1/cid1", msg.Content)
	}
	if msg.Content.Command != "cmd_actuator1" || msg.Content.GatewayID != "G1" {
		t.Errorf("message content = %+v", msg.Content)
	}
}

func TestResolveActuationsOfflineDeviceYieldsEmpty(t *testing.T) {
	h := newHarness(t)

	// No device has connected at all.
	actions := []*RuleAction{
		{Type: ActionTypeActuation, Target: "tpl-evening"},
	}
	if err := h.resolver.ResolveActuations(context.Background(), "A1", actions); err != nil {
		t.Fatalf("ResolveActuations() error = %v", err)
	}

	if actions[0].Messages == nil {
		t.Fatal("messages must be attached even when empty")
	}
	if len(actions[0].Messages) != 0 {
		t.Errorf("messages = %d, want 0", len(actions[0].Messages))
	}
}

func TestResolveActuationsMissingTemplateDoesNotFail(t *testing.T) {
	h := newHarness(t)

	actions := []*RuleAction{
		{Type: ActionTypeActuation, Target: "ghost"},
	}
	if err := h.resolver.ResolveActuations(context.Background(), "A1", actions); err != nil {
		t.Fatalf("ResolveActuations() error = %v, want nil (best effort)", err)
	}
	if len(actions[0].Messages) != 0 {
		t.Errorf("messages = %d, want 0", len(actions[0].Messages))
	}
}

func TestResolveActuationsSiblingIndependence(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if err := h.tracker.Touch(ctx, "D1", connection.TransportWS); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}

	// Action 1 targets a missing template; action 2 is resolvable.
	actions := []*RuleAction{
		{Type: ActionTypeActuation, Target: "ghost"},
		{Type: ActionTypeActuation, Target: "tpl-evening"},
	}
	if err := h.resolver.ResolveActuations(ctx, "A1", actions); err != nil {
		t.Fatalf("ResolveActuations() error = %v", err)
	}

	if len(actions[0].Messages) != 0 {
		t.Errorf("action 1 messages = %d, want 0", len(actions[0].Messages))
	}
	if len(actions[1].Messages) != 1 {
		t.Errorf("action 2 messages = %d, want 1", len(actions[1].Messages))
	}
}

func TestResolveActuationsIgnoresOtherActionTypes(t *testing.T) {
	h := newHarness(t)

	actions := []*RuleAction{
		{Type: "mail", Target: "ops@example.com"},
	}
	if err := h.resolver.ResolveActuations(context.Background(), "A1", actions); err != nil {
		t.Fatalf("ResolveActuations() error = %v", err)
	}
	if actions[0].Messages != nil {
		t.Error("non-actuation actions must be left untouched")
	}
}

func TestSendActuations(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	if err := h.tracker.Touch(ctx, "D1", connection.TransportMQTT); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	if err := h.tracker.Touch(ctx, "D2", connection.TransportMQTT); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}

	actions := []*RuleAction{
		{Type: ActionTypeActuation, Target: "tpl-evening"},
	}
	if err := h.resolver.ResolveActuations(ctx, "A1", actions); err != nil {
		t.Fatalf("ResolveActuations() error = %v", err)
	}
	if len(actions[0].Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(actions[0].Messages))
	}

	h.resolver.SendActuations(ctx, actions)

	if len(h.history.records) != 2 {
		t.Errorf("history records = %d, want 2", len(h.history.records))
	}
	if len(h.emitter.messages) != 2 {
		t.Errorf("emitted messages = %d, want 2", len(h.emitter.messages))
	}
}
