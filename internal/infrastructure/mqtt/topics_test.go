package mqtt

import "testing"

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"DeviceCommand", topics.DeviceCommand("dev-42", "cmp-7"), "conduit/command/dev-42/cmp-7"},
		{"DeviceConnection", topics.DeviceConnection("dev-42"), "conduit/connection/dev-42"},
		{"CommandDispatched", topics.CommandDispatched(), "conduit/event/command_dispatched"},
		{"SystemStatus", topics.SystemStatus(), "conduit/system/status"},
		{"AllDeviceConnections", topics.AllDeviceConnections(), "conduit/connection/+"},
		{"AllDeviceCommands", topics.AllDeviceCommands(), "conduit/command/+/+"},
		{"AllTopics", topics.AllTopics(), "conduit/#"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestPublishValidation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	if err := c.Publish("", []byte("x"), 1, false); err != ErrInvalidTopic {
		t.Errorf("empty topic: got %v, want ErrInvalidTopic", err)
	}
	if err := c.Publish("conduit/test", []byte("x"), 3, false); err != ErrInvalidQoS {
		t.Errorf("bad qos: got %v, want ErrInvalidQoS", err)
	}
}

func TestSubscribeValidation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	if err := c.Subscribe("", 1, func(string, []byte) error { return nil }); err != ErrInvalidTopic {
		t.Errorf("empty topic: got %v, want ErrInvalidTopic", err)
	}
	if err := c.Subscribe("conduit/test", 3, func(string, []byte) error { return nil }); err != ErrInvalidQoS {
		t.Errorf("bad qos: got %v, want ErrInvalidQoS", err)
	}
}
