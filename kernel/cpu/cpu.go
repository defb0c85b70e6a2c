// Package cpu exposes the privileged instructions used during bring-up: port
// I/O, the interrupt enable flag and the interrupt table load. The compiler
// treats the assembly implementations as opaque calls so consecutive port
// writes are never reordered or elided.
package cpu

const (
	// DelayPort is an unused POST diagnostics port. Writing to it takes
	// roughly one microsecond which is enough for legacy controllers to
	// settle between programming writes.
	DelayPort = uint16(0x80)

	// flagIF is the interrupt enable bit in EFLAGS.
	flagIF = 1 << 9
)

var (
	portWriteByteFn = PortWriteByte
	readFlagsFn     = readFlags
)

// IOWait performs a dummy write to DelayPort.
func IOWait() {
	portWriteByteFn(DelayPort, 0)
}

// InterruptsEnabled returns true if maskable interrupts are currently enabled.
func InterruptsEnabled() bool {
	return readFlagsFn()&flagIF != 0
}
