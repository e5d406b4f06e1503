// Package device holds the device and component records command requests
// are resolved against.
//
// Components are the addressing unit: every command names a CID, unique
// within its account, and resolution returns both the component and its
// owning device (for the gateway ID carried in outbound messages).
package device
