// Package mqtt wraps the Eclipse Paho client with the connection,
// publishing, and subscription behaviour Conduit Core needs.
//
// The wrapper handles Last Will and Testament for offline detection,
// automatic reconnection with subscription restoration, payload size
// limits, and panic recovery in message handlers. Topic names are built
// through the Topics helper so the conduit/... hierarchy stays consistent
// across packages.
package mqtt
