package kfmt

import (
	"io"
	"kfs/kernel"
)

const (
	screenCells = kernel.TextColumns * kernel.TextRows

	// ringBufferSize is the smallest power of 2 that holds a full text
	// screen. Indices wrap with a mask so the size must stay a power of 2.
	ringBufferSize = 2048
	ringBufferMask = ringBufferSize - 1
)

// Compile-time checks: the buffer holds at least one screen, at most two and
// its size is a power of 2.
var (
	_ [ringBufferSize - screenCells]struct{}
	_ [2*screenCells - ringBufferSize]struct{}
	_ [0]struct{} = [ringBufferSize & ringBufferMask]struct{}{}
)

// ringBuffer captures boot messages until a terminal is attached. When full,
// the oldest bytes are dropped. Once that happens the first retained line is
// incomplete, so the next Read skips past it and replay starts on a line
// boundary rather than in the middle of a "[hal] name(x.y.z): " prefix.
type ringBuffer struct {
	buffer [ringBufferSize]byte

	// start is the index of the oldest byte and count the number of
	// buffered bytes.
	start, count int

	// torn is set when bytes were dropped since the last Read.
	torn bool
}

// Reset discards all buffered bytes.
func (rb *ringBuffer) Reset() {
	rb.start, rb.count, rb.torn = 0, 0, false
}

// Len returns the number of buffered bytes.
func (rb *ringBuffer) Len() int {
	return rb.count
}

// Write appends p to the buffer, dropping the oldest bytes if there is not
// enough room. It never fails.
func (rb *ringBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.buffer[(rb.start+rb.count)&ringBufferMask] = b
		if rb.count < ringBufferSize {
			rb.count++
			continue
		}

		rb.start = (rb.start + 1) & ringBufferMask
		rb.torn = true
	}

	return len(p), nil
}

// Read copies up to len(p) buffered bytes into p and returns io.EOF once the
// buffer is empty. Each call copies at most up to the physical end of the
// buffer so io.Copy may need several calls to drain it.
func (rb *ringBuffer) Read(p []byte) (int, error) {
	if rb.torn {
		rb.skipPartialLine()
	}

	if rb.count == 0 {
		return 0, io.EOF
	}

	n := rb.count
	if tail := ringBufferSize - rb.start; tail < n {
		n = tail
	}
	if len(p) < n {
		n = len(p)
	}

	copy(p, rb.buffer[rb.start:rb.start+n])
	rb.start = (rb.start + n) & ringBufferMask
	rb.count -= n

	return n, nil
}

// skipPartialLine drops bytes up to and including the first '\n'. A buffer
// without any newline is replayed as is.
func (rb *ringBuffer) skipPartialLine() {
	rb.torn = false

	for i := 0; i < rb.count; i++ {
		if rb.buffer[(rb.start+i)&ringBufferMask] == '\n' {
			rb.start = (rb.start + i + 1) & ringBufferMask
			rb.count -= i + 1
			return
		}
	}
}
