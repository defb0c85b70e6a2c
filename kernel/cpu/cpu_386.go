//go:build 386

package cpu

// EnableInterrupts enables interrupt handling.
func EnableInterrupts()

// DisableInterrupts disables interrupt handling.
func DisableInterrupts()

// Halt stops instruction execution until the next interrupt arrives.
func Halt()

// LoadIDT loads the interrupt descriptor table register from the 6-byte
// descriptor located at the supplied address.
func LoadIDT(descriptor uintptr)

// PortWriteByte writes a uint8 value to the requested port.
func PortWriteByte(port uint16, val uint8)

// PortReadByte reads a uint8 value from the requested port.
func PortReadByte(port uint16) uint8

// readFlags returns the contents of the EFLAGS register.
func readFlags() uint32
