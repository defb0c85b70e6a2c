// Package tty implements a character terminal on top of a text console. The
// terminal owns the cursor position and the current color and is shared
// between regular kernel code and interrupt handlers.
package tty

import (
	"io"
	"kfs/device/video/console"
	"kfs/kernel"
	"kfs/kernel/kfmt"
	"kfs/kernel/sync"
)

// Terminal writes characters at a cursor that advances after each write. The
// terminal interprets the following special characters:
//   - \r (carriage-return)
//   - \n (line-feed; also returns the cursor to column 0)
//
// When the cursor moves past the last column it continues at the start of the
// next row; moving past the last row wraps it back to the top row. The
// terminal never scrolls.
//
// All methods are safe to call from interrupt handlers.
type Terminal struct {
	cons   console.Device
	cursor console.CursorSetter

	width  uint32
	height uint32

	cursorX uint32
	cursorY uint32
	attr    console.Attr

	guard sync.IRQGuard
}

// Init attaches the terminal to a console, resets the cursor to the top-left
// cell, selects the default color and clears the console.
func (t *Terminal) Init(cons console.Device) {
	t.guard.Acquire()
	defer t.guard.Release()

	t.cons = cons
	t.cursor = nil
	t.width, t.height = 0, 0
	t.cursorX, t.cursorY = 0, 0
	t.attr = console.DefaultAttr

	if cons == nil {
		return
	}

	t.width, t.height = cons.Dimensions()
	if setter, ok := cons.(console.CursorSetter); ok {
		t.cursor = setter
	}

	cons.Clear(t.attr)
	t.syncCursor()
}

// Dimensions returns the terminal width and height in characters.
func (t *Terminal) Dimensions() (uint32, uint32) {
	return t.width, t.height
}

// SetColor selects the attribute used by subsequent writes. Characters that
// are already displayed keep their colors.
func (t *Terminal) SetColor(attr console.Attr) {
	t.guard.Acquire()
	t.attr = attr
	t.guard.Release()
}

// Color returns the attribute used for writes.
func (t *Terminal) Color() console.Attr {
	t.guard.Acquire()
	defer t.guard.Release()
	return t.attr
}

// Position returns the current cursor coordinates. Both coordinates are
// 0-based.
func (t *Terminal) Position() (uint32, uint32) {
	t.guard.Acquire()
	defer t.guard.Release()
	return t.cursorX, t.cursorY
}

// SetPosition moves the cursor to (x, y). Coordinates outside the terminal are
// clipped to the last column and row.
func (t *Terminal) SetPosition(x, y uint32) {
	t.guard.Acquire()
	defer t.guard.Release()

	if t.cons == nil || t.width == 0 || t.height == 0 {
		return
	}

	if x >= t.width {
		x = t.width - 1
	}
	if y >= t.height {
		y = t.height - 1
	}

	t.cursorX, t.cursorY = x, y
	t.syncCursor()
}

// MoveLeft moves the cursor one cell to the left. From the first column it
// moves to the end of the previous row; from (0, 0) it wraps to the last cell
// of the screen.
func (t *Terminal) MoveLeft() {
	t.guard.Acquire()
	defer t.guard.Release()

	if t.cons == nil || t.width == 0 || t.height == 0 {
		return
	}

	if t.cursorX > 0 {
		t.cursorX--
	} else {
		t.cursorX = t.width - 1
		if t.cursorY == 0 {
			t.cursorY = t.height
		}
		t.cursorY--
	}
	t.syncCursor()
}

// MoveRight moves the cursor one cell to the right, wrapping the same way
// writing a character does.
func (t *Terminal) MoveRight() {
	t.guard.Acquire()
	defer t.guard.Release()

	if t.cons == nil || t.width == 0 || t.height == 0 {
		return
	}

	t.cursorX++
	if t.cursorX >= t.width {
		t.cursorX = 0
		t.nextRow()
	}
	t.syncCursor()
}

// WriteAt writes a character with the specified attribute at (x, y). The
// cursor does not move.
func (t *Terminal) WriteAt(ch byte, attr console.Attr, x, y uint32) {
	t.guard.Acquire()
	defer t.guard.Release()

	if t.cons == nil {
		return
	}

	t.cons.Write(ch, attr, x, y)
}

// Clear blanks the terminal using the current color and moves the cursor to
// the top-left cell.
func (t *Terminal) Clear() {
	t.guard.Acquire()
	defer t.guard.Release()

	if t.cons == nil {
		return
	}

	t.cons.Clear(t.attr)
	t.cursorX, t.cursorY = 0, 0
	t.syncCursor()
}

// WriteByte implements io.ByteWriter.
func (t *Terminal) WriteByte(b byte) error {
	t.guard.Acquire()
	defer t.guard.Release()

	if t.cons == nil {
		return io.ErrClosedPipe
	}

	t.put(b)
	t.syncCursor()
	return nil
}

// Write implements io.Writer.
func (t *Terminal) Write(data []byte) (int, error) {
	t.guard.Acquire()
	defer t.guard.Release()

	if t.cons == nil {
		return 0, io.ErrClosedPipe
	}

	for _, b := range data {
		t.put(b)
	}

	t.syncCursor()
	return len(data), nil
}

// WriteString implements io.StringWriter.
func (t *Terminal) WriteString(s string) (int, error) {
	t.guard.Acquire()
	defer t.guard.Release()

	if t.cons == nil {
		return 0, io.ErrClosedPipe
	}

	for i := 0; i < len(s); i++ {
		t.put(s[i])
	}

	t.syncCursor()
	return len(s), nil
}

// put writes b at the cursor and advances it. It must be called while the
// guard is held.
func (t *Terminal) put(b byte) {
	switch b {
	case '\r':
		t.cursorX = 0
	case '\n':
		t.cursorX = 0
		t.nextRow()
	default:
		t.cons.Write(b, t.attr, t.cursorX, t.cursorY)
		t.cursorX++
		if t.cursorX >= t.width {
			t.cursorX = 0
			t.nextRow()
		}
	}
}

func (t *Terminal) nextRow() {
	t.cursorY++
	if t.cursorY >= t.height {
		t.cursorY = 0
	}
}

func (t *Terminal) syncCursor() {
	if t.cursor != nil {
		t.cursor.SetCursor(t.cursorX, t.cursorY)
	}
}

// DriverName returns the name of this driver.
func (t *Terminal) DriverName() string {
	return "tty"
}

// DriverVersion returns the version of this driver.
func (t *Terminal) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit initializes this driver.
func (t *Terminal) DriverInit(w io.Writer) *kernel.Error {
	kfmt.Fprintf(w, "%dx%d, cursor at (%d, %d)\n", t.width, t.height, t.cursorX, t.cursorY)
	return nil
}
