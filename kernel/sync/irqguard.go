// Package sync provides synchronization primitives for code that shares state
// with interrupt handlers on a single CPU.
package sync

import "kfs/kernel/cpu"

var (
	interruptsEnabledFn = cpu.InterruptsEnabled
	disableInterruptsFn = cpu.DisableInterrupts
	enableInterruptsFn  = cpu.EnableInterrupts
)

// IRQGuard implements a critical section for state that is also touched by
// interrupt handlers. While the guard is held maskable interrupts are
// disabled; Release restores the interrupt flag to the value it had when
// Acquire was called so guards may be taken from inside a handler (where the
// CPU has already cleared the flag) without re-enabling interrupts early.
//
// A guard must not be acquired again by its holder.
type IRQGuard struct {
	held    bool
	restore bool
}

// Acquire disables interrupts and records whether they need to be re-enabled
// by Release.
func (g *IRQGuard) Acquire() {
	restore := interruptsEnabledFn()
	disableInterruptsFn()
	g.held, g.restore = true, restore
}

// Release leaves the critical section. Calling Release while the guard is not
// held has no effect.
func (g *IRQGuard) Release() {
	if !g.held {
		return
	}

	restore := g.restore
	g.held, g.restore = false, false
	if restore {
		enableInterruptsFn()
	}
}

// Held returns true while the guard is acquired.
func (g *IRQGuard) Held() bool {
	return g.held
}
