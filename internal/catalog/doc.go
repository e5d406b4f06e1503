// Package catalog holds the component type definitions every actuation
// command is validated against.
//
// A catalog entry declares one command per component type: the command
// string plus an ordered list of parameter specs. Each spec's raw value
// string is parsed exactly once at load into a ValueSpec (numeric range,
// enumerated set, or single sentinel); validation is then a cheap method
// call with no re-parsing.
//
// Entries are immutable once published, so the Registry caches them
// indefinitely and hands out deep copies.
package catalog
