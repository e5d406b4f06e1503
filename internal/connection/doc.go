// Package connection tracks each device's most recent transport binding.
//
// The transport layer records a binding when a device connects (MQTT or
// WebSocket); the alert dispatch path reads it to decide whether a command
// has anywhere to go. A missing binding is a reachability gap, not an
// error. Redis-backed and in-memory implementations share one interface.
package connection
