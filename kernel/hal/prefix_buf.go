package hal

// prefixBufferSize bounds the length of a driver log prefix.
const prefixBufferSize = 64

// prefixBuffer is a fixed-size io.Writer used to render driver log prefixes
// without allocating. Writes beyond its capacity are truncated.
type prefixBuffer struct {
	data [prefixBufferSize]byte
	len  int
}

// Write implements io.Writer.
func (b *prefixBuffer) Write(p []byte) (int, error) {
	n := copy(b.data[b.len:], p)
	b.len += n
	return len(p), nil
}

// Bytes returns the buffered data.
func (b *prefixBuffer) Bytes() []byte {
	return b.data[:b.len]
}

// Reset empties the buffer.
func (b *prefixBuffer) Reset() {
	b.len = 0
}
