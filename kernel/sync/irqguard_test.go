package sync

import (
	"kfs/kernel/cpu"
	"testing"
)

func mockInterruptFlag(enabled *bool) func() {
	interruptsEnabledFn = func() bool { return *enabled }
	disableInterruptsFn = func() { *enabled = false }
	enableInterruptsFn = func() { *enabled = true }

	return func() {
		interruptsEnabledFn = cpu.InterruptsEnabled
		disableInterruptsFn = cpu.DisableInterrupts
		enableInterruptsFn = cpu.EnableInterrupts
	}
}

func TestIRQGuard(t *testing.T) {
	specs := []struct {
		enabledBefore bool
	}{
		{true},
		{false},
	}

	for specIndex, spec := range specs {
		ifFlag := spec.enabledBefore
		restoreFns := mockInterruptFlag(&ifFlag)

		var g IRQGuard
		g.Acquire()

		if ifFlag {
			t.Errorf("[spec %d] expected Acquire to disable interrupts", specIndex)
		}

		if !g.Held() {
			t.Errorf("[spec %d] expected guard to be held after Acquire", specIndex)
		}

		g.Release()

		if ifFlag != spec.enabledBefore {
			t.Errorf("[spec %d] expected Release to restore interrupt flag to %t; got %t", specIndex, spec.enabledBefore, ifFlag)
		}

		if g.Held() {
			t.Errorf("[spec %d] expected guard to be released", specIndex)
		}

		restoreFns()
	}
}

func TestIRQGuardNested(t *testing.T) {
	ifFlag := true
	defer mockInterruptFlag(&ifFlag)()

	var outer, inner IRQGuard
	outer.Acquire()
	inner.Acquire()
	inner.Release()

	if ifFlag {
		t.Fatal("expected releasing the inner guard to keep interrupts disabled")
	}

	outer.Release()
	if !ifFlag {
		t.Fatal("expected releasing the outer guard to re-enable interrupts")
	}
}

func TestIRQGuardReleaseWhenFree(t *testing.T) {
	ifFlag := false
	defer mockInterruptFlag(&ifFlag)()

	var g IRQGuard
	g.Release()

	if ifFlag {
		t.Fatal("expected Release on a free guard to be a no-op")
	}
}
