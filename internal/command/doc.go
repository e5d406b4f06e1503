// Package command is the validation and dispatch core: it turns requested
// component commands into validated, persisted, emitted command messages.
//
// Two orchestrators share the same resolution and validation primitives
// but differ deliberately in failure policy:
//
//   - Dispatcher (direct API path) is all-or-nothing. Any unresolvable
//     component or invalid parameter aborts the whole batch before any
//     side effect.
//   - ActuationResolver (alert path) is best-effort per command. It also
//     gates each command on the device's connection binding; unreachable
//     devices are skipped silently, never failed.
//
// Both paths finish in the shared Sink: one history record and one
// emitted message per accepted component command.
//
// Do not collapse the two orchestrators into one: the abort-vs-skip
// distinction is the contract.
package command
