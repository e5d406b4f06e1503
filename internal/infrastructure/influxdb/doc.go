// Package influxdb provides optional actuation telemetry for Conduit Core.
//
// When enabled in config, every dispatched actuation and request outcome is
// recorded as a time-series point using the non-blocking batched write API.
// Telemetry failures never affect command dispatch: writes are fire and
// forget, with errors surfaced through an async callback for logging.
package influxdb
