package main

import (
	"bufio"
	"fmt"
	"io"

	"kfs/device/video/console"
)

// ansiColor maps VGA color indices to ANSI SGR color offsets. VGA orders the
// low 3 bits as blue, green, red whereas ANSI uses red, green, blue.
var ansiColor = [8]int{0, 4, 2, 6, 1, 5, 3, 7}

// renderOpts controls how a text buffer is rendered.
type renderOpts struct {
	columns int
	rows    int

	// maxColumns clips each row; 0 disables clipping.
	maxColumns int

	// color enables ANSI escape sequences for cell attributes.
	color bool
}

// render writes the text cells in buf to w, one line per row. buf holds
// little-endian cells as laid out in guest memory.
func render(w io.Writer, buf []byte, opts renderOpts) error {
	if need := opts.columns * opts.rows * 2; len(buf) < need {
		return fmt.Errorf("text buffer holds %d bytes; %dx%d cells require %d", len(buf), opts.columns, opts.rows, need)
	}

	columns := opts.columns
	if opts.maxColumns > 0 && opts.maxColumns < columns {
		columns = opts.maxColumns
	}

	bw := bufio.NewWriter(w)
	for y := 0; y < opts.rows; y++ {
		lastAttr := -1
		for x := 0; x < columns; x++ {
			offset := (y*opts.columns + x) * 2
			ch, fg, bg := console.DecodeCell(uint16(buf[offset]) | uint16(buf[offset+1])<<8)

			if opts.color {
				if attr := int(console.MakeAttr(fg, bg)); attr != lastAttr {
					bw.WriteString(sgr(fg, bg))
					lastAttr = attr
				}
			}

			bw.WriteByte(printable(ch))
		}

		if opts.color {
			bw.WriteString("\x1b[0m")
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

// sgr returns the escape sequence selecting the specified colors. Bright
// foreground colors use the aixterm 90-97 range; bright backgrounds use
// 100-107.
func sgr(fg, bg console.Color) string {
	fgCode := 30 + ansiColor[fg&7]
	if fg >= 8 {
		fgCode += 60
	}

	bgCode := 40 + ansiColor[bg&7]
	if bg >= 8 {
		bgCode += 60
	}

	return fmt.Sprintf("\x1b[%d;%dm", fgCode, bgCode)
}

// printable replaces control characters and code page 437 glyphs that have no
// ASCII equivalent.
func printable(ch byte) byte {
	switch {
	case ch == 0:
		return ' '
	case ch < 0x20 || ch >= 0x7f:
		return '.'
	default:
		return ch
	}
}
