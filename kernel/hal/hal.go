// Package hal owns the devices that are brought up by the kernel: the text
// console, the terminal that is attached to it and the drivers initialized
// through InitDrivers.
package hal

import (
	"kfs/device"
	"kfs/device/tty"
	"kfs/device/video/console"
	"kfs/kernel/kfmt"
	"kfs/multiboot"
)

// maxDrivers is the number of drivers that can be tracked by the HAL.
const maxDrivers = 8

// managedDevices contains the devices brought up by the HAL.
type managedDevices struct {
	activeConsole  console.VgaTextConsole
	activeTerminal tty.Terminal

	// activeDrivers tracks all initialized device drivers.
	activeDrivers [maxDrivers]device.Driver
	numDrivers    int
}

var (
	devices   managedDevices
	prefixBuf prefixBuffer

	probeConsoleFn = console.Probe
	bootOptionFn   = multiboot.BootCmdLineOption
)

// ActiveTerminal returns the terminal that receives kernel output.
func ActiveTerminal() *tty.Terminal {
	return &devices.activeTerminal
}

// ActiveConsole returns the console that the active terminal is attached to.
func ActiveConsole() console.Device {
	return &devices.activeConsole
}

// ActiveDrivers returns the drivers that were successfully initialized.
func ActiveDrivers() []device.Driver {
	return devices.activeDrivers[:devices.numDrivers]
}

// InitTerminal locates the text console, attaches the active terminal to it
// and redirects kfmt output to the terminal. Any output captured before this
// call is replayed to the terminal.
//
// The terminal color can be selected with the consoleColor boot option which
// expects a 2-digit hex attribute (background, foreground), e.g.
// consoleColor=1f for white on blue.
func InitTerminal() {
	probeConsoleFn(&devices.activeConsole)
	InitDrivers(&devices.activeConsole)

	devices.activeTerminal.Init(&devices.activeConsole)
	if value, ok := bootOptionFn("consoleColor"); ok {
		if attr, valid := parseAttr(value); valid {
			devices.activeTerminal.SetColor(attr)
		}
	}

	kfmt.SetOutputSink(&devices.activeTerminal)
	InitDrivers(&devices.activeTerminal)
}

// InitDrivers initializes the supplied drivers in order. Driver output is
// prefixed with the driver name and version. Drivers whose initialization
// fails are reported and skipped.
func InitDrivers(drivers ...device.Driver) {
	var w = kfmt.PrefixWriter{Sink: kfmt.GetOutputSink()}

	for _, drv := range drivers {
		prefixBuf.Reset()
		major, minor, patch := drv.DriverVersion()
		kfmt.Fprintf(&prefixBuf, "[hal] %s(%d.%d.%d): ", drv.DriverName(), major, minor, patch)
		w.Prefix = prefixBuf.Bytes()

		if err := drv.DriverInit(&w); err != nil {
			kfmt.Fprintf(&w, "init failed: %s\n", err.Message)
			continue
		}

		kfmt.Fprintf(&w, "initialized\n")
		if devices.numDrivers < maxDrivers {
			devices.activeDrivers[devices.numDrivers] = drv
			devices.numDrivers++
		}
	}
}

// parseAttr decodes a 2-digit hex color attribute.
func parseAttr(value string) (console.Attr, bool) {
	if len(value) != 2 {
		return 0, false
	}

	var attr uint8
	for i := 0; i < len(value); i++ {
		var digit uint8
		switch ch := value[i]; {
		case ch >= '0' && ch <= '9':
			digit = ch - '0'
		case ch >= 'a' && ch <= 'f':
			digit = ch - 'a' + 10
		case ch >= 'A' && ch <= 'F':
			digit = ch - 'A' + 10
		default:
			return 0, false
		}

		attr = attr<<4 | digit
	}

	return console.Attr(attr), true
}
