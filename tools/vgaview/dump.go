package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// memDump is a read-only view of a guest physical memory image. The image is
// either a file written by the QEMU pmemsave monitor command or the file
// backing a shared memory-backend-file; in the latter case the mapping tracks
// guest writes as they happen.
type memDump struct {
	path string
	data []byte
}

// openDump maps the guest memory image at path.
func openDump(path string) (*memDump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	if info.Size() == 0 {
		return nil, fmt.Errorf("%s: empty memory image", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &memDump{path: path, data: data}, nil
}

// region returns size bytes starting at the physical address addr.
func (d *memDump) region(addr uint64, size int) ([]byte, error) {
	if addr > uint64(len(d.data)) || uint64(len(d.data))-addr < uint64(size) {
		return nil, fmt.Errorf("%s: region 0x%x-0x%x is outside the %d byte memory image", d.path, addr, addr+uint64(size), len(d.data))
	}

	return d.data[addr : addr+uint64(size)], nil
}

// Close releases the mapping.
func (d *memDump) Close() error {
	if d.data == nil {
		return nil
	}

	err := unix.Munmap(d.data)
	d.data = nil
	return err
}
