package console

import (
	"bytes"
	"kfs/device"
	"kfs/kernel/cpu"
	"kfs/multiboot"
	"testing"
	"unsafe"
)

func mockConsole(columns, rows uint32) (*VgaTextConsole, []uint16) {
	fb := make([]uint16, columns*rows)
	cons := &VgaTextConsole{}
	cons.Init(columns, rows, uintptr(unsafe.Pointer(&fb[0])))
	return cons, fb
}

func TestCellRoundTrip(t *testing.T) {
	chars := []byte{0, ' ', 'A', 'z', '~', 0x7f, 0xb0, 0xff}

	for fg := Black; fg <= White; fg++ {
		for bg := Black; bg <= White; bg++ {
			for _, ch := range chars {
				cell := MakeCell(ch, MakeAttr(fg, bg))

				gotCh, gotFg, gotBg := DecodeCell(cell)
				if gotCh != ch || gotFg != fg || gotBg != bg {
					t.Fatalf("expected cell 0x%04x to decode to (%d, %d, %d); got (%d, %d, %d)", cell, ch, fg, bg, gotCh, gotFg, gotBg)
				}
			}
		}
	}
}

func TestCellLayout(t *testing.T) {
	specs := []struct {
		ch     byte
		fg, bg Color
		exp    uint16
	}{
		{' ', LightGrey, Black, 0x0720},
		{'H', White, Blue, 0x1f48},
		{'O', LightRed, Black, 0x0c4f},
		{0, Black, White, 0xf000},
	}

	for specIndex, spec := range specs {
		if got := MakeCell(spec.ch, MakeAttr(spec.fg, spec.bg)); got != spec.exp {
			t.Errorf("[spec %d] expected cell to be 0x%04x; got 0x%04x", specIndex, spec.exp, got)
		}
	}

	if DefaultAttr != MakeAttr(LightGrey, Black) {
		t.Errorf("expected DefaultAttr to be light grey on black; got 0x%02x", DefaultAttr)
	}

	// Colors outside the palette must not leak into the other nibble.
	if got := MakeAttr(Color(0x1f), Color(0x2e)); got != 0xef {
		t.Errorf("expected MakeAttr to mask colors to 4 bits; got 0x%02x", got)
	}
}

func TestVgaTextDimensions(t *testing.T) {
	var cons Device
	cons, _ = mockConsole(40, 50)
	if w, h := cons.Dimensions(); w != 40 || h != 50 {
		t.Fatalf("expected console dimensions to be 40x50; got %dx%d", w, h)
	}
}

func TestVgaTextClear(t *testing.T) {
	cons, fb := mockConsole(80, 25)
	for i := range fb {
		fb[i] = 0xdead
	}

	attr := MakeAttr(Green, Blue)
	cons.Clear(attr)

	exp := MakeCell(' ', attr)
	for i, got := range fb {
		if got != exp {
			t.Fatalf("expected cell %d to be cleared to 0x%04x; got 0x%04x", i, exp, got)
		}
	}
}

func TestVgaTextWrite(t *testing.T) {
	cons, fb := mockConsole(80, 25)
	w, h := cons.Dimensions()

	t.Run("every cell", func(t *testing.T) {
		for y := uint32(0); y < h; y++ {
			for x := uint32(0); x < w; x++ {
				ch := byte('!' + (x+y)%90)
				attr := MakeAttr(Color(x%16), Color(y%16))
				cons.Write(ch, attr, x, y)

				if got, exp := cons.Read(x, y), MakeCell(ch, attr); got != exp {
					t.Fatalf("expected cell at (%d, %d) to be 0x%04x; got 0x%04x", x, y, exp, got)
				}

				if got, exp := fb[y*w+x], MakeCell(ch, attr); got != exp {
					t.Fatalf("expected fb[%d] to be 0x%04x; got 0x%04x", y*w+x, exp, got)
				}
			}
		}
	})

	t.Run("off-screen", func(t *testing.T) {
		specs := []struct {
			x, y uint32
		}{
			{80, 0},
			{0, 25},
			{80, 25},
			{100, 100},
		}

	nextSpec:
		for specIndex, spec := range specs {
			for i := range fb {
				fb[i] = 0
			}

			cons.Write('!', DefaultAttr, spec.x, spec.y)

			for i := range fb {
				if fb[i] != 0 {
					t.Errorf("[spec %d] expected Write() with off-screen coords to be a no-op", specIndex)
					continue nextSpec
				}
			}

			if got := cons.Read(spec.x, spec.y); got != 0 {
				t.Errorf("[spec %d] expected Read() with off-screen coords to return 0; got 0x%04x", specIndex, got)
			}
		}
	})
}

func TestVgaTextSetCursor(t *testing.T) {
	defer func() {
		portWriteByteFn = cpu.PortWriteByte
	}()

	cons, _ := mockConsole(80, 25)

	t.Run("success", func(t *testing.T) {
		// (15, 12) -> 12*80+15 = 975 = 0x03cf
		expWrites := []struct {
			port uint16
			val  uint8
		}{
			{0x3d4, 0x0f},
			{0x3d5, 0xcf},
			{0x3d4, 0x0e},
			{0x3d5, 0x03},
		}

		writeCallCount := 0
		portWriteByteFn = func(port uint16, val uint8) {
			if writeCallCount >= len(expWrites) {
				t.Fatalf("unexpected port write %d", writeCallCount)
			}

			exp := expWrites[writeCallCount]
			if port != exp.port || val != exp.val {
				t.Errorf("[port write %d] expected port: 0x%x, val: 0x%x; got port: 0x%x, val: 0x%x", writeCallCount, exp.port, exp.val, port, val)
			}

			writeCallCount++
		}

		cons.SetCursor(15, 12)

		if writeCallCount != len(expWrites) {
			t.Errorf("expected cpu.PortWriteByte to be called %d times; got %d", len(expWrites), writeCallCount)
		}
	})

	t.Run("off-screen", func(t *testing.T) {
		portWriteByteFn = func(_ uint16, _ uint8) {
			t.Error("unexpected call to cpu.PortWriteByte")
		}

		cons.SetCursor(80, 0)
	})
}

func TestVgaTextDriverInterface(t *testing.T) {
	cons, fb := mockConsole(80, 25)
	var dev device.Driver = cons

	if dev.DriverName() == "" {
		t.Fatal("DriverName() returned an empty string")
	}

	if major, minor, patch := dev.DriverVersion(); major+minor+patch == 0 {
		t.Fatal("DriverVersion() returned an invalid version number")
	}

	var buf bytes.Buffer
	if err := dev.DriverInit(&buf); err != nil {
		t.Fatal(err)
	}

	if exp := MakeCell(' ', DefaultAttr); fb[0] != exp || fb[len(fb)-1] != exp {
		t.Fatal("expected DriverInit to clear the framebuffer")
	}

	if buf.Len() == 0 {
		t.Fatal("expected DriverInit to log the framebuffer layout")
	}
}

func TestProbe(t *testing.T) {
	defer func() {
		getFramebufferInfoFn = multiboot.GetFramebufferInfo
	}()

	specs := []struct {
		fbInfo      *multiboot.FramebufferInfo
		expW, expH  uint32
		expPhysAddr uintptr
	}{
		{
			nil,
			80, 25, 0xb8000,
		},
		{
			&multiboot.FramebufferInfo{Width: 90, Height: 60, PhysAddr: 0xb8000, Type: multiboot.FramebufferTypeEGA},
			90, 60, 0xb8000,
		},
		{
			&multiboot.FramebufferInfo{Width: 1024, Height: 768, PhysAddr: 0xfd000000, Type: multiboot.FramebufferTypeRGB},
			80, 25, 0xb8000,
		},
	}

	for specIndex, spec := range specs {
		getFramebufferInfoFn = func() *multiboot.FramebufferInfo {
			return spec.fbInfo
		}

		var cons VgaTextConsole
		Probe(&cons)

		if w, h := cons.Dimensions(); w != spec.expW || h != spec.expH {
			t.Errorf("[spec %d] expected console dimensions to be %dx%d; got %dx%d", specIndex, spec.expW, spec.expH, w, h)
		}

		if cons.fbPhysAddr != spec.expPhysAddr {
			t.Errorf("[spec %d] expected framebuffer address to be 0x%x; got 0x%x", specIndex, spec.expPhysAddr, cons.fbPhysAddr)
		}

		if exp := int(spec.expW * spec.expH); len(cons.fb) != exp {
			t.Errorf("[spec %d] expected framebuffer to contain %d cells; got %d", specIndex, exp, len(cons.fb))
		}
	}
}
