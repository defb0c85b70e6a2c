package kfmt

import (
	"bytes"
	"fmt"
	"kfs/kernel/cpu"
	"strings"
	"testing"
)

func TestPrintf(t *testing.T) {
	defer func() {
		outputSink = nil
	}()

	// mute vet warnings about malformed printf formatting strings
	printfn := Printf

	specs := []struct {
		fn        func()
		expOutput string
	}{
		{
			func() { printfn("no args") },
			"no args",
		},
		// bool values
		{
			func() { printfn("%t", true) },
			"true",
		},
		{
			func() { printfn("%41t", false) },
			"false",
		},
		// strings and byte slices
		{
			func() { printfn("%s arg", "STRING") },
			"STRING arg",
		},
		{
			func() { printfn("%s arg", []byte("BYTE SLICE")) },
			"BYTE SLICE arg",
		},
		{
			func() { printfn("'%4s' arg with padding", "ABC") },
			"' ABC' arg with padding",
		},
		{
			func() { printfn("'%4s' arg longer than padding", "ABCDE") },
			"'ABCDE' arg longer than padding",
		},
		// uints
		{
			func() { printfn("vector: 0x%x", uint8(0x21)) },
			"vector: 0x21",
		},
		{
			func() { printfn("mask: %o", uint16(0775)) },
			"mask: 775",
		},
		{
			func() { printfn("handler at 0x%8x", uint32(0x101a2b)) },
			"handler at 0x00101a2b",
		},
		{
			func() { printfn("uint arg with padding: '%10d'", uint64(123)) },
			"uint arg with padding: '       123'",
		},
		{
			func() { printfn("uint arg with padding: '%4o'", uint64(0777)) },
			"uint arg with padding: '0777'",
		},
		{
			func() { printfn("uint arg longer than padding: '0x%5x'", int64(0xbadf00d)) },
			"uint arg longer than padding: '0xbadf00d'",
		},
		{
			func() { printfn("fb at 0x%x", uintptr(0xb8000)) },
			"fb at 0xb8000",
		},
		{
			func() { printfn("%d cells", uint(2000)) },
			"2000 cells",
		},
		// ints
		{
			func() { printfn("int arg: %d", int8(-10)) },
			"int arg: -10",
		},
		{
			func() { printfn("int arg: %x", int32(-0xbadf00d)) },
			"int arg: -badf00d",
		},
		{
			func() { printfn("int arg with zero padding: '%6x'", int(-0xff)) },
			"int arg with zero padding: '-000ff'",
		},
		{
			func() { printfn("int arg with padding: '%10d'", int64(-12345678)) },
			"int arg with padding: ' -12345678'",
		},
		{
			func() { printfn("int arg with padding: '%10d'", int64(-1234567890)) },
			"int arg with padding: '-1234567890'",
		},
		{
			func() { printfn("zero: %d", 0) },
			"zero: 0",
		},
		{
			func() { printfn("padding longer than the number buffer '%128x'", uint32(0xbadf00d)) },
			fmt.Sprintf("padding longer than the number buffer '%sbadf00d'", strings.Repeat("0", numBufSize-8)),
		},
		// multiple arguments
		{
			func() { printfn("%%%s%d%t", "foo", 123, true) },
			`%foo123true`,
		},
		// errors
		{
			func() { printfn("more args", "foo", "bar", "baz") },
			`more args%!(EXTRA)%!(EXTRA)%!(EXTRA)`,
		},
		{
			func() { printfn("missing args %s") },
			`missing args (MISSING)`,
		},
		{
			func() { printfn("bad verb %Q") },
			`bad verb %!(NOVERB)`,
		},
		{
			func() { printfn("trailing %") },
			`trailing %!(NOVERB)`,
		},
		{
			func() { printfn("not bool %t", "foo") },
			`not bool %!(WRONGTYPE)`,
		},
		{
			func() { printfn("not int %d", "foo") },
			`not int %!(WRONGTYPE)`,
		},
		{
			func() { printfn("not string %s", 123) },
			`not string %!(WRONGTYPE)`,
		},
	}

	var buf bytes.Buffer
	SetOutputSink(&buf)

	for specIndex, spec := range specs {
		buf.Reset()
		spec.fn()

		if got := buf.String(); got != spec.expOutput {
			t.Errorf("[spec %d] expected to get\n%q\ngot:\n%q", specIndex, spec.expOutput, got)
		}
	}
}

func TestPrintfToRingBuffer(t *testing.T) {
	defer func() {
		outputSink = nil
	}()

	outputSink = nil
	earlyBuf.Reset()

	exp := "Hello, kernel World!\n"
	Printf(exp)

	if got := GetOutputSink(); got != nil {
		t.Fatalf("expected output sink to be nil; got %v", got)
	}

	var buf bytes.Buffer
	SetOutputSink(&buf)

	if got := buf.String(); got != exp {
		t.Fatalf("expected SetOutputSink to replay:\n%q\ngot:\n%q", exp, got)
	}

	if GetOutputSink() != &buf {
		t.Fatal("expected GetOutputSink to return the attached sink")
	}
}

func TestFprintf(t *testing.T) {
	var buf bytes.Buffer

	exp := "[pic] master offset 0x20, slave offset 0x28"
	Fprintf(&buf, "[pic] master offset 0x%x, slave offset 0x%x", uint8(0x20), uint8(0x28))

	if got := buf.String(); got != exp {
		t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
	}
}

type flagRecorder struct {
	bytes.Buffer
	enabledWrites int
}

func (w *flagRecorder) Write(p []byte) (int, error) {
	if cpu.InterruptsEnabled() {
		w.enabledWrites++
	}
	return w.Buffer.Write(p)
}

func TestFprintfDisablesInterrupts(t *testing.T) {
	defer cpu.DisableInterrupts()

	specs := []struct {
		enabled bool
	}{
		{true},
		// called from an interrupt handler
		{false},
	}

	for specIndex, spec := range specs {
		if spec.enabled {
			cpu.EnableInterrupts()
		} else {
			cpu.DisableInterrupts()
		}

		var w flagRecorder
		Fprintf(&w, "IRQ %d -> vector 0x%x\n", 1, 0x21)

		if w.Len() == 0 {
			t.Errorf("[spec %d] expected Fprintf to write output", specIndex)
		}
		if w.enabledWrites != 0 {
			t.Errorf("[spec %d] expected every write to run with interrupts disabled; %d did not", specIndex, w.enabledWrites)
		}
		if got := cpu.InterruptsEnabled(); got != spec.enabled {
			t.Errorf("[spec %d] expected the interrupt flag to be restored to %t; got %t", specIndex, spec.enabled, got)
		}
	}
}
