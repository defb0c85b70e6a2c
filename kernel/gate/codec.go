package gate

// The CPU reads gates and the table descriptor directly from memory so their
// layout is defined byte by byte instead of relying on Go struct layout.
// All multi-byte fields are little-endian.

const (
	// GateSize is the size of a 32-bit protected mode gate.
	GateSize = 8

	// DescriptorSize is the size of the operand of the LIDT instruction.
	DescriptorSize = 6
)

// Gate is the decoded form of an IDT entry.
//
// Encoded layout:
//
//	bytes 0-1  handler offset bits 0-15
//	bytes 2-3  code segment selector
//	byte  4    reserved, always 0
//	byte  5    type and attributes (type:4 | 0:1 | DPL:2 | P:1)
//	bytes 6-7  handler offset bits 16-31
type Gate struct {
	Offset     uint32
	Selector   uint16
	Attributes uint8
}

// EncodeGate returns the in-memory representation of g.
func EncodeGate(g Gate) [GateSize]byte {
	return [GateSize]byte{
		byte(g.Offset),
		byte(g.Offset >> 8),
		byte(g.Selector),
		byte(g.Selector >> 8),
		0,
		g.Attributes,
		byte(g.Offset >> 16),
		byte(g.Offset >> 24),
	}
}

// DecodeGate parses an encoded gate. The reserved byte is ignored.
func DecodeGate(b [GateSize]byte) Gate {
	return Gate{
		Offset:     uint32(b[0]) | uint32(b[1])<<8 | uint32(b[6])<<16 | uint32(b[7])<<24,
		Selector:   uint16(b[2]) | uint16(b[3])<<8,
		Attributes: b[5],
	}
}

// IsPresent returns true if the gate's present bit is set.
func (g Gate) IsPresent() bool {
	return g.Attributes&Present != 0
}

// Descriptor is the decoded form of the LIDT operand.
//
// Encoded layout:
//
//	bytes 0-1  table size in bytes minus one
//	bytes 2-5  table linear base address
type Descriptor struct {
	Limit uint16
	Base  uint32
}

// EncodeDescriptor returns the in-memory representation of d.
func EncodeDescriptor(d Descriptor) [DescriptorSize]byte {
	return [DescriptorSize]byte{
		byte(d.Limit),
		byte(d.Limit >> 8),
		byte(d.Base),
		byte(d.Base >> 8),
		byte(d.Base >> 16),
		byte(d.Base >> 24),
	}
}

// DecodeDescriptor parses an encoded LIDT operand.
func DecodeDescriptor(b [DescriptorSize]byte) Descriptor {
	return Descriptor{
		Limit: uint16(b[0]) | uint16(b[1])<<8,
		Base:  uint32(b[2]) | uint32(b[3])<<8 | uint32(b[4])<<16 | uint32(b[5])<<24,
	}
}
