//go:build !386

package cpu

// The kernel only runs on 386. Hosted builds exist so that the packages
// depending on cpu can be tested on a development machine. They emulate the
// state touched by the privileged instructions: the interrupt flag, the IDT
// register and an I/O port space where each port latches the last value
// written to it. Halting panics since nothing can wake a hosted CPU.

var (
	// hostedFlags holds the emulated EFLAGS register.
	hostedFlags uint32 = 0x2

	// hostedIDTR holds the address of the last loaded IDT descriptor.
	hostedIDTR uintptr

	hostedPorts [1 << 16]uint8
)

// EnableInterrupts enables interrupt handling.
func EnableInterrupts() { hostedFlags |= flagIF }

// DisableInterrupts disables interrupt handling.
func DisableInterrupts() { hostedFlags &^= flagIF }

// Halt stops instruction execution until the next interrupt arrives.
func Halt() {
	panic("cpu: halt executed in a hosted build")
}

// LoadIDT loads the interrupt descriptor table register from the 6-byte
// descriptor located at the supplied address.
func LoadIDT(descriptor uintptr) { hostedIDTR = descriptor }

// PortWriteByte writes a uint8 value to the requested port.
func PortWriteByte(port uint16, val uint8) { hostedPorts[port] = val }

// PortReadByte reads a uint8 value from the requested port.
func PortReadByte(port uint16) uint8 { return hostedPorts[port] }

func readFlags() uint32 {
	return hostedFlags
}
