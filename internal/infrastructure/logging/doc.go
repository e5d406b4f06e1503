// Package logging provides structured logging for Conduit Core.
//
// It wraps log/slog with service-wide default fields and config-driven
// level and format selection. Packages that need logging accept a narrow
// Logger interface rather than this concrete type, so tests can pass a
// no-op implementation.
package logging
