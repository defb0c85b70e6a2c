// Package pic drives the legacy cascaded 8259 programmable interrupt
// controller pair. The master controller serves IRQ lines 0-7 and the slave
// controller, attached to master line 2, serves lines 8-15.
package pic

import (
	"io"
	"kfs/kernel"
	"kfs/kernel/cpu"
	"kfs/kernel/kfmt"
)

// I/O ports of the two controllers.
const (
	MasterCommandPort = uint16(0x20)
	MasterDataPort    = uint16(0x21)
	SlaveCommandPort  = uint16(0xa0)
	SlaveDataPort     = uint16(0xa1)
)

// Default vector offsets. The BIOS maps the master to vectors 0x08-0x0f which
// overlap with CPU exceptions; the controllers are moved to the first vectors
// after the 32 reserved exception slots.
const (
	MasterOffset = uint8(0x20)
	SlaveOffset  = MasterOffset + 8
)

const (
	// NumLines is the number of IRQ lines served by the pair.
	NumLines = 16

	// TimerLine, KeyboardLine and CascadeLine are the well-known lines on the
	// master controller.
	TimerLine    = uint8(0)
	KeyboardLine = uint8(1)
	CascadeLine  = uint8(2)

	// DefaultMask enables the keyboard line only. Bit n masks line n; the
	// low byte belongs to the master and the high byte to the slave.
	DefaultMask = uint16(0xffff &^ (1 << KeyboardLine))
)

// Initialization and operation command words.
const (
	icw1ICW4     = 0x01 // ICW4 follows
	icw1Init     = 0x10 // start initialization
	icw4Mode8086 = 0x01

	// ICW3: the master expects a bit pattern marking the slave line while
	// the slave expects its cascade identity.
	icw3MasterCascade = 1 << CascadeLine
	icw3SlaveIdentity = CascadeLine

	ocw2EOI     = 0x20
	ocw3ReadIRR = 0x0a
	ocw3ReadISR = 0x0b
)

var (
	portWriteByteFn = cpu.PortWriteByte
	portReadByteFn  = cpu.PortReadByte
	ioWaitFn        = cpu.IOWait
)

// Controller programs the master/slave 8259 pair.
//
// The controller keeps the interrupt mask in software so that lines can be
// enabled before the hardware is reprogrammed; Remap uploads it as the last
// step of the initialization sequence and subsequent mask updates are written
// through.
type Controller struct {
	masterOffset uint8
	slaveOffset  uint8
	mask         uint16
	remapped     bool
}

// Init configures the vector offsets used by Remap and resets the software
// mask to DefaultMask. It does not touch the hardware.
func (c *Controller) Init(masterOffset, slaveOffset uint8) {
	c.masterOffset = masterOffset
	c.slaveOffset = slaveOffset
	c.mask = DefaultMask
	c.remapped = false
}

// Remap runs the four-step initialization protocol on both controllers and
// then uploads the interrupt mask. Each port write is followed by a settle
// delay. The protocol is not acknowledged by the hardware; the order of the
// writes is the only thing that guarantees the controllers end up in the
// expected state.
func (c *Controller) Remap(masterOffset, slaveOffset uint8) {
	c.masterOffset, c.slaveOffset = masterOffset, slaveOffset

	// ICW1: start initialization in cascade mode.
	outb(MasterCommandPort, icw1Init|icw1ICW4)
	outb(SlaveCommandPort, icw1Init|icw1ICW4)

	// ICW2: vector offsets.
	outb(MasterDataPort, masterOffset)
	outb(SlaveDataPort, slaveOffset)

	// ICW3: cascade wiring.
	outb(MasterDataPort, icw3MasterCascade)
	outb(SlaveDataPort, icw3SlaveIdentity)

	// ICW4: 8086 mode.
	outb(MasterDataPort, icw4Mode8086)
	outb(SlaveDataPort, icw4Mode8086)

	// OCW1: interrupt masks.
	outb(MasterDataPort, uint8(c.mask))
	outb(SlaveDataPort, uint8(c.mask>>8))

	c.remapped = true
}

// SetMask disables the specified IRQ line.
func (c *Controller) SetMask(line uint8) {
	if line >= NumLines {
		return
	}

	c.updateMask(c.mask|1<<line, line)
}

// ClearMask enables the specified IRQ line.
func (c *Controller) ClearMask(line uint8) {
	if line >= NumLines {
		return
	}

	c.updateMask(c.mask&^(1<<line), line)
}

func (c *Controller) updateMask(mask uint16, line uint8) {
	c.mask = mask
	if !c.remapped {
		return
	}

	if line < 8 {
		portWriteByteFn(MasterDataPort, uint8(mask))
	} else {
		portWriteByteFn(SlaveDataPort, uint8(mask>>8))
	}
}

// Mask returns the software copy of the interrupt mask.
func (c *Controller) Mask() uint16 {
	return c.mask
}

// ReadIMR returns the interrupt mask registers as reported by the hardware.
func (c *Controller) ReadIMR() uint16 {
	return uint16(portReadByteFn(SlaveDataPort))<<8 | uint16(portReadByteFn(MasterDataPort))
}

// ReadIRR returns the combined interrupt request registers (lines raised but
// not yet serviced).
func (c *Controller) ReadIRR() uint16 {
	return readRegister(ocw3ReadIRR)
}

// ReadISR returns the combined in-service registers (lines being serviced
// that have not been acknowledged yet).
func (c *Controller) ReadISR() uint16 {
	return readRegister(ocw3ReadISR)
}

func readRegister(ocw3 uint8) uint16 {
	portWriteByteFn(MasterCommandPort, ocw3)
	portWriteByteFn(SlaveCommandPort, ocw3)
	return uint16(portReadByteFn(SlaveCommandPort))<<8 | uint16(portReadByteFn(MasterCommandPort))
}

// SendEOI acknowledges the interrupt raised by the specified line. Lines
// served by the slave must be acknowledged on both controllers since the
// slave interrupt also occupies the master's cascade line.
func (c *Controller) SendEOI(line uint8) {
	if line >= NumLines {
		return
	}

	if line >= 8 {
		portWriteByteFn(SlaveCommandPort, ocw2EOI)
	}
	portWriteByteFn(MasterCommandPort, ocw2EOI)
}

// VectorFor returns the CPU vector that the specified line is routed to.
func (c *Controller) VectorFor(line uint8) uint8 {
	if line < 8 {
		return c.masterOffset + line
	}
	return c.slaveOffset + line - 8
}

// LineFor returns the IRQ line routed to the specified vector. The second
// return value is false if the vector is not served by the controllers.
func (c *Controller) LineFor(vector uint8) (uint8, bool) {
	switch {
	case vector >= c.masterOffset && vector < c.masterOffset+8:
		return vector - c.masterOffset, true
	case vector >= c.slaveOffset && vector < c.slaveOffset+8:
		return vector - c.slaveOffset + 8, true
	default:
		return 0, false
	}
}

// DriverName returns the name of this driver.
func (c *Controller) DriverName() string {
	return "pic_8259"
}

// DriverVersion returns the version of this driver.
func (c *Controller) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit reprograms the controllers using the offsets selected by Init.
func (c *Controller) DriverInit(w io.Writer) *kernel.Error {
	c.Remap(c.masterOffset, c.slaveOffset)
	kfmt.Fprintf(w, "IRQ 0-7 -> 0x%2x, IRQ 8-15 -> 0x%2x, mask 0x%4x\n", c.masterOffset, c.slaveOffset, c.mask)
	return nil
}

// outb writes a programming word and waits for the controller to settle.
func outb(port uint16, val uint8) {
	portWriteByteFn(port, val)
	ioWaitFn()
}
