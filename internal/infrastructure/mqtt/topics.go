package mqtt

import "fmt"

// Topic prefixes for the Conduit MQTT hierarchy.
//
// All topics use the flat scheme: conduit/{category}/{id...}
const (
	// TopicPrefix is the base for all Conduit topics.
	TopicPrefix = "conduit"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "conduit/system"
)

// Topics provides builders for Conduit MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	cmdTopic := topics.DeviceCommand("dev-42", "cmp-7")
//	// Returns: "conduit/command/dev-42/cmp-7"
type Topics struct{}

// DeviceCommand returns the topic for actuation messages to a device component.
//
// Example: conduit/command/dev-42/cmp-7
func (Topics) DeviceCommand(deviceID, componentID string) string {
	return fmt.Sprintf("%s/command/%s/%s", TopicPrefix, deviceID, componentID)
}

// DeviceConnection returns the topic a gateway publishes device connection
// status on.
//
// Example: conduit/connection/dev-42
func (Topics) DeviceConnection(deviceID string) string {
	return fmt.Sprintf("%s/connection/%s", TopicPrefix, deviceID)
}

// CommandDispatched returns the topic for command-dispatched events.
//
// Example: conduit/event/command_dispatched
func (Topics) CommandDispatched() string {
	return fmt.Sprintf("%s/event/command_dispatched", TopicPrefix)
}

// SystemStatus returns the system status topic carrying online/offline
// announcements for this service.
//
// Example: conduit/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllDeviceConnections returns a pattern matching connection status from
// every device.
//
// Pattern: conduit/connection/+
func (Topics) AllDeviceConnections() string {
	return fmt.Sprintf("%s/connection/+", TopicPrefix)
}

// AllDeviceCommands returns a pattern matching all outgoing command topics.
//
// Pattern: conduit/command/+/+
func (Topics) AllDeviceCommands() string {
	return fmt.Sprintf("%s/command/+/+", TopicPrefix)
}

// AllTopics returns a pattern matching all Conduit topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: conduit/#
func (Topics) AllTopics() string {
	return "conduit/#"
}
