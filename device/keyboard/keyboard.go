// Package keyboard services interrupts raised by the PS/2 keyboard
// controller. Scan codes are read and recorded but not decoded; every key
// event echoes a marker character to the attached terminal.
package keyboard

import (
	"io"
	"kfs/kernel/cpu"
)

const (
	// DataPort is the PS/2 controller data port. Reading it fetches the
	// pending scan code and allows the controller to raise the next
	// interrupt.
	DataPort = uint16(0x60)

	// Marker is the character written to the terminal for each interrupt.
	Marker = byte('O')
)

var (
	portReadByteFn = cpu.PortReadByte

	output       io.ByteWriter
	lastScanCode uint8
	events       uint32
)

// Attach selects the writer that receives a marker for every key event.
func Attach(w io.ByteWriter) {
	output = w
}

// Handler services a keyboard interrupt. It must only be invoked by the IRQ
// layer.
func Handler() {
	lastScanCode = portReadByteFn(DataPort)
	events++

	if output != nil {
		_ = output.WriteByte(Marker)
	}
}

// LastScanCode returns the scan code read by the most recent interrupt.
func LastScanCode() uint8 {
	return lastScanCode
}

// Events returns the number of interrupts serviced so far.
func Events() uint32 {
	return events
}
