package kernel

// Error is the error type returned across the kernel. Values are declared once
// as package-level pointers, e.g. gate.ErrVectorInUse or irq.ErrLineInUse, and
// compared by identity. Nothing is allocated when an error is returned, which
// keeps Install and Handle usable before the Go allocator exists.
//
// When an Error reaches kfmt.Panic both fields are printed as
// "[Module] unrecoverable error: Message".
type Error struct {
	// Module names the subsystem that reported the error.
	Module string

	// Message is a short lower-case description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }
