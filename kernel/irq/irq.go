// Package irq routes hardware interrupt lines to Go handlers. Each line is
// mapped to the vector selected by the interrupt controller and every handler
// invocation is followed by an end-of-interrupt acknowledgement.
package irq

import (
	"kfs/kernel"
	"kfs/kernel/gate"
)

// Handler services an interrupt raised by an IRQ line. Handlers run with
// interrupts disabled and must not block.
type Handler func()

// Controller is implemented by interrupt controllers that can route IRQ lines
// to CPU vectors.
type Controller interface {
	// VectorFor returns the vector that line is routed to.
	VectorFor(line uint8) uint8

	// ClearMask enables line.
	ClearMask(line uint8)

	// SendEOI acknowledges the interrupt raised by line.
	SendEOI(line uint8)
}

// NumLines is the number of lines that can be handled.
const NumLines = 16

var (
	table      *gate.Table
	controller Controller
	autoEOI    = true
	handlers   [NumLines]Handler

	// ErrNotInitialized is returned by Handle if Init has not been called.
	ErrNotInitialized = &kernel.Error{Module: "irq", Message: "no vector table attached"}

	// ErrInvalidLine is returned by Handle for lines outside 0-15.
	ErrInvalidLine = &kernel.Error{Module: "irq", Message: "invalid IRQ line"}

	// ErrLineInUse is returned by Handle if the line already has a handler.
	ErrLineInUse = &kernel.Error{Module: "irq", Message: "IRQ line already has a handler"}
)

// lineEntries are the handlers installed in the vector table. They do not
// capture any state so installing them does not allocate.
var lineEntries = [NumLines]func(){
	func() { service(0) },
	func() { service(1) },
	func() { service(2) },
	func() { service(3) },
	func() { service(4) },
	func() { service(5) },
	func() { service(6) },
	func() { service(7) },
	func() { service(8) },
	func() { service(9) },
	func() { service(10) },
	func() { service(11) },
	func() { service(12) },
	func() { service(13) },
	func() { service(14) },
	func() { service(15) },
}

// Init attaches the vector table that handlers are installed into and the
// controller that owns the IRQ lines. Any previously registered handlers are
// forgotten.
func Init(t *gate.Table, c Controller) {
	table = t
	controller = c
	autoEOI = true
	for i := range handlers {
		handlers[i] = nil
	}
}

// SetAutoEOI controls whether the controller is acknowledged after a handler
// returns. With acknowledgements disabled the controller delivers no further
// interrupts of the same or lower priority after the first one.
func SetAutoEOI(enabled bool) {
	autoEOI = enabled
}

// AutoEOI returns true if interrupts are acknowledged after their handler
// returns.
func AutoEOI() bool {
	return autoEOI
}

// Handle installs handler for the specified IRQ line and unmasks the line.
// The handler becomes reachable once the vector table is loaded and
// interrupts are enabled.
func Handle(line uint8, handler Handler) *kernel.Error {
	if table == nil || controller == nil {
		return ErrNotInitialized
	}

	if line >= NumLines || handler == nil {
		return ErrInvalidLine
	}

	if handlers[line] != nil {
		return ErrLineInUse
	}

	vector := gate.InterruptNumber(controller.VectorFor(line))
	if err := table.Install(vector, lineEntries[line]); err != nil {
		return err
	}

	handlers[line] = handler
	controller.ClearMask(line)
	return nil
}

// service runs the handler for line and acknowledges the interrupt.
func service(line uint8) {
	if handler := handlers[line]; handler != nil {
		handler()
	}

	if autoEOI {
		controller.SendEOI(line)
	}
}
