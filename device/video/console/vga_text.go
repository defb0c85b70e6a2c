package console

import (
	"io"
	"kfs/kernel"
	"kfs/kernel/cpu"
	"kfs/kernel/kfmt"
	"kfs/multiboot"
	"reflect"
	"unsafe"
)

const (
	// DefaultFramebufferAddr is the physical address of the colour
	// text-mode framebuffer.
	DefaultFramebufferAddr = uintptr(0xb8000)

	// DefaultColumns and DefaultRows describe the geometry of VGA mode 0x3.
	DefaultColumns = kernel.TextColumns
	DefaultRows    = kernel.TextRows

	// CRT controller index/data ports and the cursor location registers.
	crtcIndexPort     = 0x3d4
	crtcDataPort      = 0x3d5
	crtcCursorLocHigh = 0x0e
	crtcCursorLocLow  = 0x0f

	clearChar = byte(' ')
)

var (
	portWriteByteFn      = cpu.PortWriteByte
	getFramebufferInfoFn = multiboot.GetFramebufferInfo
)

// VgaTextConsole drives an EGA-compatible text-mode framebuffer. Each cell is
// two bytes: the character code followed by its attribute byte.
//
// The framebuffer lives at a fixed physical address shared with the display
// hardware; the console never resizes or relocates it. Writes with
// coordinates outside the console are dropped.
type VgaTextConsole struct {
	width  uint32
	height uint32

	fbPhysAddr uintptr
	fb         []uint16
}

// Init configures the console geometry and overlays the framebuffer located
// at fbPhysAddr. Paging is not enabled during bring-up so physical and
// virtual addresses are identical.
func (cons *VgaTextConsole) Init(columns, rows uint32, fbPhysAddr uintptr) {
	cons.width = columns
	cons.height = rows
	cons.fbPhysAddr = fbPhysAddr
	cons.fb = *(*[]uint16)(unsafe.Pointer(&reflect.SliceHeader{
		Len:  int(columns * rows),
		Cap:  int(columns * rows),
		Data: fbPhysAddr,
	}))
}

// Dimensions returns the console width and height in characters.
func (cons *VgaTextConsole) Dimensions() (uint32, uint32) {
	return cons.width, cons.height
}

// Clear fills every cell with a space using the supplied attribute.
func (cons *VgaTextConsole) Clear(attr Attr) {
	kernel.Fill16(cons.fb, MakeCell(clearChar, attr))
}

// Write a char to the specified location.
func (cons *VgaTextConsole) Write(ch byte, attr Attr, x, y uint32) {
	if x >= cons.width || y >= cons.height {
		return
	}

	cons.fb[y*cons.width+x] = MakeCell(ch, attr)
}

// Read returns the encoded cell at the specified location or 0 if the
// coordinates are outside the console.
func (cons *VgaTextConsole) Read(x, y uint32) uint16 {
	if x >= cons.width || y >= cons.height {
		return 0
	}

	return cons.fb[y*cons.width+x]
}

// SetCursor moves the blinking hardware cursor by programming the CRT
// controller cursor location registers.
func (cons *VgaTextConsole) SetCursor(x, y uint32) {
	if x >= cons.width || y >= cons.height {
		return
	}

	pos := uint16(y*cons.width + x)
	portWriteByteFn(crtcIndexPort, crtcCursorLocLow)
	portWriteByteFn(crtcDataPort, uint8(pos))
	portWriteByteFn(crtcIndexPort, crtcCursorLocHigh)
	portWriteByteFn(crtcDataPort, uint8(pos>>8))
}

// DriverName returns the name of this driver.
func (cons *VgaTextConsole) DriverName() string {
	return "vga_text_console"
}

// DriverVersion returns the version of this driver.
func (cons *VgaTextConsole) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit clears the framebuffer using the default attribute.
func (cons *VgaTextConsole) DriverInit(w io.Writer) *kernel.Error {
	cons.Clear(DefaultAttr)
	kfmt.Fprintf(w, "%dx%d framebuffer at 0x%x\n", cons.width, cons.height, cons.fbPhysAddr)
	return nil
}

// Probe configures cons using the EGA framebuffer reported by the boot loader.
// If the boot loader did not report a text-mode framebuffer, the standard
// 80x25 layout at DefaultFramebufferAddr is used.
func Probe(cons *VgaTextConsole) {
	columns, rows := uint32(DefaultColumns), uint32(DefaultRows)
	fbAddr := DefaultFramebufferAddr

	if fbInfo := getFramebufferInfoFn(); fbInfo != nil && fbInfo.Type == multiboot.FramebufferTypeEGA {
		columns, rows = fbInfo.Width, fbInfo.Height
		fbAddr = uintptr(fbInfo.PhysAddr)
	}

	cons.Init(columns, rows, fbAddr)
}
