package kernel

// Fill16 sets every element of dst to value. Instead of storing each element
// it sets the first one and then makes log2(len(dst)) copies of the already
// filled prefix, which the runtime turns into block moves.
func Fill16(dst []uint16, value uint16) {
	if len(dst) == 0 {
		return
	}

	dst[0] = value
	for filled := 1; filled < len(dst); filled *= 2 {
		copy(dst[filled:], dst[:filled])
	}
}
