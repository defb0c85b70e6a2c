// Package kfmt implements formatted output for code that runs before (or
// without) the Go allocator. Output is routed to an io.Writer sink, normally
// the active terminal; until a sink is attached it is captured by a ring
// buffer and replayed once SetOutputSink is called.
package kfmt

import (
	"io"
	"kfs/kernel/sync"
	"unsafe"
)

// numBufSize is the size of the scratch buffer used for formatting numbers.
const numBufSize = 32

var (
	errMissingArg   = []byte("(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	trueValue       = []byte("true")
	falseValue      = []byte("false")

	numBuf [numBufSize]byte

	// oneByte is shared by all writes that emit a single character.
	oneByte = []byte{0}

	// earlyBuf captures output that is emitted before a sink is attached.
	earlyBuf ringBuffer

	// outputSink receives all Printf output. While nil, output is stored
	// in earlyBuf.
	outputSink io.Writer
)

// SetOutputSink redirects Printf output to w and replays any output that was
// captured before a sink was available.
func SetOutputSink(w io.Writer) {
	outputSink = w
	if w != nil {
		io.Copy(w, &earlyBuf)
	}
}

// GetOutputSink returns the writer that currently receives Printf output. It
// returns nil if output is being captured by the early ring buffer.
func GetOutputSink() io.Writer {
	return outputSink
}

// Printf writes formatted output to the active output sink. It supports a
// subset of the fmt verbs:
//
//	%s  string or []byte
//	%d  base 10 integer
//	%x  base 16 integer (lower-case)
//	%o  base 8 integer
//	%t  bool
//	%%  a literal percent sign
//
// An optional decimal width may precede the verb. Strings and base-10
// integers are left-padded with spaces; base-8 and base-16 integers are
// left-padded with zeroes.
//
// Printf never allocates so it can run before the runtime is initialized. For
// the same reason it does not look for fmt.Stringer or error implementations.
//
// Numeric formatting and single-byte writes share package-level scratch
// buffers, so each call runs with interrupts disabled and an interrupt handler
// never starts printing in the middle of another call.
func Printf(format string, args ...interface{}) {
	Fprintf(outputSink, format, args...)
}

// Fprintf behaves like Printf but writes to w. A nil w selects the early ring
// buffer.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var (
		argIndex int
		width    int
		fmtLen   = len(format)
		guard    sync.IRQGuard
	)

	guard.Acquire()
	defer guard.Release()

	for i := 0; i < fmtLen; i++ {
		if format[i] != '%' {
			writeByte(w, format[i])
			continue
		}

		width = 0
		for i++; i < fmtLen && format[i] >= '0' && format[i] <= '9'; i++ {
			width = width*10 + int(format[i]-'0')
		}

		if i == fmtLen {
			doWrite(w, errNoVerb)
			break
		}

		verb := format[i]
		switch verb {
		case '%':
			writeByte(w, '%')
			continue
		case 's', 'd', 'x', 'o', 't':
		default:
			doWrite(w, errNoVerb)
			continue
		}

		if argIndex >= len(args) {
			doWrite(w, errMissingArg)
			continue
		}

		arg := args[argIndex]
		argIndex++

		switch verb {
		case 's':
			fmtString(w, arg, width)
		case 'd':
			fmtInt(w, arg, 10, width)
		case 'x':
			fmtInt(w, arg, 16, width)
		case 'o':
			fmtInt(w, arg, 8, width)
		case 't':
			fmtBool(w, arg)
		}
	}

	for ; argIndex < len(args); argIndex++ {
		doWrite(w, errExtraArg)
	}
}

// fmtBool writes "true" or "false".
func fmtBool(w io.Writer, v interface{}) {
	b, ok := v.(bool)
	switch {
	case !ok:
		doWrite(w, errWrongArgType)
	case b:
		doWrite(w, trueValue)
	default:
		doWrite(w, falseValue)
	}
}

// fmtString writes a string or byte slice left-padded to width.
func fmtString(w io.Writer, v interface{}, width int) {
	switch s := v.(type) {
	case string:
		fmtRepeat(w, ' ', width-len(s))
		// Slicing the string into a []byte would allocate.
		for i := 0; i < len(s); i++ {
			writeByte(w, s[i])
		}
	case []byte:
		fmtRepeat(w, ' ', width-len(s))
		doWrite(w, s)
	default:
		doWrite(w, errWrongArgType)
	}
}

func fmtRepeat(w io.Writer, ch byte, count int) {
	for ; count > 0; count-- {
		writeByte(w, ch)
	}
}

// fmtInt writes an integer of any built-in integer type in the requested
// base, padded to width.
func fmtInt(w io.Writer, v interface{}, base uint64, width int) {
	var (
		uval uint64
		neg  bool
	)

	switch n := v.(type) {
	case uint8:
		uval = uint64(n)
	case uint16:
		uval = uint64(n)
	case uint32:
		uval = uint64(n)
	case uint64:
		uval = n
	case uint:
		uval = uint64(n)
	case uintptr:
		uval = uint64(n)
	case int8:
		uval, neg = abs(int64(n))
	case int16:
		uval, neg = abs(int64(n))
	case int32:
		uval, neg = abs(int64(n))
	case int64:
		uval, neg = abs(n)
	case int:
		uval, neg = abs(int64(n))
	default:
		doWrite(w, errWrongArgType)
		return
	}

	if width > numBufSize-1 {
		width = numBufSize - 1
	}

	padCh := byte('0')
	if base == 10 {
		padCh = ' '
	}

	// Digits are emitted right to left.
	pos := numBufSize
	for {
		digit := byte(uval % base)
		if digit < 10 {
			digit += '0'
		} else {
			digit += 'a' - 10
		}
		pos--
		numBuf[pos] = digit

		if uval /= base; uval == 0 {
			break
		}
	}

	if neg && padCh == ' ' {
		pos--
		numBuf[pos] = '-'
		neg = false
	}

	minPos := numBufSize - width
	if neg {
		// The sign is placed in front of zero padding.
		minPos++
	}
	for pos > minPos {
		pos--
		numBuf[pos] = padCh
	}

	if neg {
		pos--
		numBuf[pos] = '-'
	}

	doWrite(w, numBuf[pos:])
}

func abs(n int64) (uint64, bool) {
	if n < 0 {
		return uint64(-n), true
	}
	return uint64(n), false
}

func writeByte(w io.Writer, b byte) {
	oneByte[0] = b
	doWrite(w, oneByte)
}

// doWrite hides p from escape analysis. Passing p to an io.Writer that is
// unknown at compile time would otherwise force the argument slice of every
// Printf call onto the heap.
func doWrite(w io.Writer, p []byte) {
	doRealWrite(w, noEscape(unsafe.Pointer(&p)))
}

func doRealWrite(w io.Writer, bufPtr unsafe.Pointer) {
	p := *(*[]byte)(bufPtr)
	if w != nil {
		w.Write(p)
	} else {
		earlyBuf.Write(p)
	}
}

// noEscape hides a pointer from escape analysis (see runtime/stubs.go).
//
//go:nosplit
func noEscape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}
