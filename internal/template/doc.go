// Package template stores complex commands: named, reusable bundles of
// concrete per-component commands with a transport tag.
//
// Templates are validated against the device and catalog stores when
// saved, so later expansion (by the dispatch paths) can trust the stored
// values without re-validating. Payloads are immutable; the only mutation
// is a full replace.
package template
