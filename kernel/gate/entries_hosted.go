//go:build !386

package gate

// Hosted builds have no entry stubs; these functions stand in for them so
// tests can raise an interrupt the same way the CPU would.
var irqEntries = [NumEntryStubs]func(){
	func() { dispatch(0x20) },
	func() { dispatch(0x21) },
	func() { dispatch(0x22) },
	func() { dispatch(0x23) },
	func() { dispatch(0x24) },
	func() { dispatch(0x25) },
	func() { dispatch(0x26) },
	func() { dispatch(0x27) },
	func() { dispatch(0x28) },
	func() { dispatch(0x29) },
	func() { dispatch(0x2a) },
	func() { dispatch(0x2b) },
	func() { dispatch(0x2c) },
	func() { dispatch(0x2d) },
	func() { dispatch(0x2e) },
	func() { dispatch(0x2f) },
}
