package console

// Color is one of the 16 colors supported by text-mode consoles.
type Color uint8

// The default text-mode palette.
const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGrey
	DarkGrey
	LightBlue
	LightGreen
	LightCyan
	LightRed
	LightMagenta
	LightBrown
	White
)

// Attr is a cell attribute byte: the foreground color in the low nibble and
// the background color in the high nibble.
type Attr uint8

// DefaultAttr selects light grey text on a black background.
const DefaultAttr = Attr(LightGrey) | Attr(Black)<<4

// MakeAttr encodes a foreground and background color pair. Only the low 4 bits
// of each color are used.
func MakeAttr(fg, bg Color) Attr {
	return Attr(fg&0xf) | Attr(bg&0xf)<<4
}

// Fg returns the foreground color of the attribute.
func (a Attr) Fg() Color {
	return Color(a & 0xf)
}

// Bg returns the background color of the attribute.
func (a Attr) Bg() Color {
	return Color(a >> 4)
}

// MakeCell encodes a character and its attribute into a text-mode cell. The
// character occupies the low byte and the attribute the high byte.
func MakeCell(ch byte, attr Attr) uint16 {
	return uint16(attr)<<8 | uint16(ch)
}

// DecodeCell splits a text-mode cell into its character and colors.
func DecodeCell(cell uint16) (ch byte, fg, bg Color) {
	attr := Attr(cell >> 8)
	return byte(cell), attr.Fg(), attr.Bg()
}

// The Device interface is implemented by character-cell consoles. Coordinates
// are 0-based (the top-left cell is at 0,0).
type Device interface {
	// Dimensions returns the console width and height in characters.
	Dimensions() (uint32, uint32)

	// Clear fills every cell with a space using the supplied attribute.
	Clear(attr Attr)

	// Write a char to the specified location.
	Write(ch byte, attr Attr, x, y uint32)

	// Read returns the encoded cell at the specified location.
	Read(x, y uint32) uint16
}

// CursorSetter is implemented by consoles that display a hardware cursor.
//
// SetCursor moves the hardware cursor to the specified location.
type CursorSetter interface {
	SetCursor(x, y uint32)
}
