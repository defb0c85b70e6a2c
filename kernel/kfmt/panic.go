package kfmt

import (
	"kfs/kernel"
	"kfs/kernel/cpu"
)

var (
	// cpuHaltFn and disableInterruptsFn are mocked by tests.
	cpuHaltFn           = cpu.Halt
	disableInterruptsFn = cpu.DisableInterrupts

	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}
)

// Panic outputs the supplied error (if not nil) to the active output sink and
// halts the CPU with interrupts disabled. Calls to Panic never return on real
// hardware.
func Panic(e interface{}) {
	var err *kernel.Error

	switch t := e.(type) {
	case *kernel.Error:
		err = t
	case string:
		errRuntimePanic.Message = t
		err = errRuntimePanic
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	Printf("\n-----------------------------------\n")
	if err != nil {
		Printf("[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	Printf("*** kernel panic: system halted ***")
	Printf("\n-----------------------------------\n")

	disableInterruptsFn()
	cpuHaltFn()
}
