// Package gate builds the interrupt descriptor table (IDT) consumed by the CPU
// in 32-bit protected mode and routes interrupts that reach the table's entry
// stubs to registered Go handlers.
package gate

import (
	"kfs/kernel"
	"kfs/kernel/cpu"
	"unsafe"
)

// InterruptNumber describes an x86 interrupt/exception/trap slot.
type InterruptNumber uint8

const (
	// NumVectors is the number of slots in the IDT.
	NumVectors = 256

	// FirstStubVector is the first vector that has an assembly entry stub.
	// Stubs exist for NumEntryStubs consecutive vectors, covering the 16
	// lines of the remapped interrupt controllers.
	FirstStubVector = InterruptNumber(0x20)
	NumEntryStubs   = 16

	// KernelCodeSelector references the ring 0 code segment in the GDT
	// installed by the boot code.
	KernelCodeSelector = uint16(0x08)
)

// Gate attribute bits.
const (
	TypeTaskGate32      = uint8(0x5)
	TypeInterruptGate32 = uint8(0xe)
	TypeTrapGate32      = uint8(0xf)

	DPL0 = uint8(0 << 5)
	DPL3 = uint8(3 << 5)

	Present = uint8(1 << 7)

	// KernelInterruptGate is a present 32-bit interrupt gate that can only
	// be invoked from ring 0. The CPU clears IF when entering the gate.
	KernelInterruptGate = Present | DPL0 | TypeInterruptGate32
)

var (
	loadIDTFn = cpu.LoadIDT

	// entryAddrFn returns the address of the entry stub for a vector.
	entryAddrFn = entryAddr

	// activeTable is the table that was last loaded into the CPU.
	activeTable *Table

	// ErrVectorInUse is returned when installing a handler for a vector
	// that already has one.
	ErrVectorInUse = &kernel.Error{Module: "gate", Message: "vector already has a handler"}

	// ErrNoEntryStub is returned when installing a handler for a vector
	// that has no assembly entry stub.
	ErrNoEntryStub = &kernel.Error{Module: "gate", Message: "vector has no entry stub"}

	// ErrNilHandler is returned when installing a nil handler.
	ErrNilHandler = &kernel.Error{Module: "gate", Message: "nil handler"}
)

// Table is the vector table. Slots that have no handler installed are kept
// all-zero; the CPU treats them as not present and raises a general
// protection fault if one of them fires.
type Table struct {
	entries  [NumVectors][GateSize]byte
	handlers [NumVectors]func()

	// descriptor is read by the CPU when the table is loaded.
	descriptor [DescriptorSize]byte
}

// Install binds handler to the specified vector and fills in the vector's gate
// so that it points to the vector's entry stub. Installing a handler for a
// vector that is already bound fails instead of replacing the existing
// handler.
//
// Installing a handler only takes effect after the table has been loaded.
func (t *Table) Install(vector InterruptNumber, handler func()) *kernel.Error {
	if handler == nil {
		return ErrNilHandler
	}

	if t.handlers[vector] != nil {
		return ErrVectorInUse
	}

	entry := entryAddrFn(vector)
	if entry == 0 {
		return ErrNoEntryStub
	}

	t.handlers[vector] = handler
	t.entries[vector] = EncodeGate(Gate{
		Offset:     uint32(entry),
		Selector:   KernelCodeSelector,
		Attributes: KernelInterruptGate,
	})

	return nil
}

// Gate returns the decoded gate for the specified vector.
func (t *Table) Gate(vector InterruptNumber) Gate {
	return DecodeGate(t.entries[vector])
}

// Entry returns the encoded gate for the specified vector.
func (t *Table) Entry(vector InterruptNumber) [GateSize]byte {
	return t.entries[vector]
}

// Handler returns the handler bound to the specified vector or nil.
func (t *Table) Handler(vector InterruptNumber) func() {
	return t.handlers[vector]
}

// Load points the CPU's IDT register to this table. The table must remain at
// the same address for as long as interrupts are enabled.
func (t *Table) Load() {
	t.descriptor = EncodeDescriptor(Descriptor{
		Limit: NumVectors*GateSize - 1,
		Base:  uint32(uintptr(unsafe.Pointer(&t.entries))),
	})

	activeTable = t
	loadIDTFn(uintptr(unsafe.Pointer(&t.descriptor)))
}

// Dispatch invokes the handler bound to the specified vector. Vectors without
// a handler are ignored.
func (t *Table) Dispatch(vector InterruptNumber) {
	if handler := t.handlers[vector]; handler != nil {
		handler()
	}
}

// dispatch is called by the entry stubs with interrupts disabled.
//
//go:nosplit
func dispatch(vector uint32) {
	if activeTable != nil {
		activeTable.Dispatch(InterruptNumber(vector))
	}
}

// entryAddr returns the address of the entry stub for vector or 0 if the
// vector has no stub.
func entryAddr(vector InterruptNumber) uintptr {
	if vector < FirstStubVector || vector >= FirstStubVector+NumEntryStubs {
		return 0
	}

	fn := irqEntries[vector-FirstStubVector]
	return **(**uintptr)(unsafe.Pointer(&fn))
}
