// Command vgaview renders the text-mode framebuffer of a guest running the
// kernel. It reads the guest's physical memory from a QEMU pmemsave dump or
// from the file backing a memory-backend-file object and prints the text
// cells with their colors:
//
//	qemu-system-i386 -object memory-backend-file,id=mem,size=128M,mem-path=/tmp/guest.ram,share=on \
//	    -machine memory-backend=mem -kernel kfs.elf
//	vgaview -mem /tmp/guest.ram -watch -interval 250ms
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	tty "github.com/mattn/go-tty"

	"kfs/device/video/console"
)

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[vgaview] error: %s\n", err.Error())
	os.Exit(1)
}

// output is the destination of rendered frames.
type output struct {
	w          io.Writer
	maxColumns int
	close      func() error
}

// openOutput renders to the controlling terminal when one is available so
// that rows can be clipped to its width; otherwise frames go to stdout.
func openOutput(useTTY bool) *output {
	if useTTY {
		if t, err := tty.Open(); err == nil {
			out := &output{w: t.Output(), close: t.Close}
			if width, _, err := t.Size(); err == nil {
				out.maxColumns = width
			}
			return out
		}
	}

	return &output{w: os.Stdout, close: func() error { return nil }}
}

func main() {
	var (
		memPath  = flag.String("mem", "", "guest physical memory image (pmemsave dump or memory-backend-file)")
		fbAddr   = flag.Uint64("addr", uint64(console.DefaultFramebufferAddr), "physical address of the text buffer")
		columns  = flag.Int("cols", console.DefaultColumns, "text buffer width in characters")
		rows     = flag.Int("rows", console.DefaultRows, "text buffer height in characters")
		plain    = flag.Bool("plain", false, "do not emit color escape sequences")
		useTTY   = flag.Bool("tty", true, "render to the controlling terminal and clip rows to its width")
		watch    = flag.Bool("watch", false, "re-render whenever the memory image changes")
		interval = flag.Duration("interval", 0, "with -watch, also re-render at this interval (needed for shared memory backends)")
	)
	flag.Parse()

	if *memPath == "" {
		exit(errors.New("missing -mem argument"))
	}

	if *columns <= 0 || *rows <= 0 {
		exit(fmt.Errorf("invalid text buffer geometry %dx%d", *columns, *rows))
	}

	out := openOutput(*useTTY)
	defer out.close()

	opts := renderOpts{
		columns:    *columns,
		rows:       *rows,
		maxColumns: out.maxColumns,
		color:      !*plain,
	}

	draw := func() error {
		dump, err := openDump(*memPath)
		if err != nil {
			return err
		}
		defer dump.Close()

		buf, err := dump.region(*fbAddr, opts.columns*opts.rows*2)
		if err != nil {
			return err
		}

		if *watch {
			io.WriteString(out.w, "\x1b[H\x1b[2J")
		}

		return render(out.w, buf, opts)
	}

	if err := draw(); err != nil {
		exit(err)
	}

	if !*watch {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := watchDump(ctx, *memPath, *interval, draw); err != nil {
		exit(err)
	}
}
