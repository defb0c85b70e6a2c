// Package kmain brings up interrupt handling and the text display.
package kmain

import (
	"kfs/device/keyboard"
	"kfs/device/pic"
	"kfs/kernel/cpu"
	"kfs/kernel/gate"
	"kfs/kernel/hal"
	"kfs/kernel/irq"
	"kfs/kernel/kfmt"
	"kfs/multiboot"
)

// Greeting is printed twice once the terminal is ready.
const Greeting = "Hello, kernel World!\n"

var (
	// table must stay at a fixed address once loaded; it is never moved or
	// freed.
	table      gate.Table
	controller pic.Controller

	disableInterruptsFn = cpu.DisableInterrupts
	enableInterruptsFn  = cpu.EnableInterrupts
	haltFn              = cpu.Halt
	initTerminalFn      = hal.InitTerminal
	initDriversFn       = hal.InitDrivers
	loadTableFn         = (*gate.Table).Load
	bootOptionFn        = multiboot.BootCmdLineOption
	panicFn             = kfmt.Panic
)

// Kmain is the only Go symbol that is visible (exported) from the boot
// assembly code. It is invoked on a small stack with interrupts disabled, a
// flat GDT whose kernel code segment uses selector 0x08 and the address of
// the multiboot info payload provided by the bootloader.
//
// Kmain never returns. Once bring-up completes the CPU idles and only wakes
// up to service interrupts; any bring-up error halts the system.
//
//go:noinline
func Kmain(multibootInfoPtr uintptr) {
	disableInterruptsFn()
	multiboot.SetInfoPtr(multibootInfoPtr)

	// Initialize and clear the terminal
	initTerminalFn()
	term := hal.ActiveTerminal()
	term.Clear()
	kfmt.Printf(Greeting)
	kfmt.Printf(Greeting)

	// Route the keyboard line to its handler. The controller keeps the
	// mask in software until it is remapped.
	controller.Init(pic.MasterOffset, pic.SlaveOffset)
	irq.Init(&table, &controller)
	if value, ok := bootOptionFn("kbdEOI"); ok && value == "off" {
		irq.SetAutoEOI(false)
	}

	keyboard.Attach(term)
	if err := irq.Handle(pic.KeyboardLine, keyboard.Handler); err != nil {
		panicFn(err)
		return
	}

	loadTableFn(&table)
	initDriversFn(&controller)
	enableInterruptsFn()

	for {
		haltFn()
	}
}
