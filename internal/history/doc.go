// Package history persists the actuation log: one append-only record per
// component command accepted for delivery, queryable by device and time
// range.
package history
