// Package multiboot reads the boot information structure that a multiboot2
// compliant boot loader passes to the kernel. Only the tags used during
// bring-up are decoded. None of the functions in this package allocate.
package multiboot

import (
	"reflect"
	"unsafe"
)

var infoData uintptr

type tagType uint32

const (
	tagMbSectionEnd tagType = iota
	tagBootCmdLine
	tagBootLoaderName
	tagModules
	tagBasicMemoryInfo
	tagBiosBootDevice
	tagMemoryMap
	tagVbeInfo
	tagFramebufferInfo
)

// tagHeader precedes each tag in the boot information structure.
type tagHeader struct {
	tagType tagType

	// The size of the tag including the header but excluding any
	// padding. Tags are aligned to 8 bytes.
	size uint32
}

// FramebufferType defines the type of the initialized framebuffer.
type FramebufferType uint8

const (
	// FramebufferTypeIndexed specifies a 256-color palette.
	FramebufferTypeIndexed FramebufferType = iota

	// FramebufferTypeRGB specifies direct RGB mode.
	FramebufferTypeRGB

	// FramebufferTypeEGA specifies EGA text mode.
	FramebufferTypeEGA
)

// FramebufferInfo provides information about the initialized framebuffer.
type FramebufferInfo struct {
	// The framebuffer physical address.
	PhysAddr uint64

	// Row pitch in bytes.
	Pitch uint32

	// Width and height in pixels (or characters if Type = FramebufferTypeEGA)
	Width, Height uint32

	// Bits per pixel (non EGA modes only).
	Bpp uint8

	// Framebuffer type.
	Type FramebufferType

	reserved uint16
}

// SetInfoPtr updates the internal multiboot information pointer to the given
// value. This function must be invoked before invoking any other function
// exported by this package. A zero pointer means that no boot information is
// available.
func SetInfoPtr(ptr uintptr) {
	infoData = ptr
}

// GetFramebufferInfo returns information about the framebuffer initialized by
// the bootloader. This function returns nil if no framebuffer info is
// available.
func GetFramebufferInfo() *FramebufferInfo {
	curPtr, size := findTagByType(tagFramebufferInfo)
	if size == 0 {
		return nil
	}

	return (*FramebufferInfo)(unsafe.Pointer(curPtr))
}

// BootCmdLineOption looks up an option in the kernel command line. Options
// are whitespace separated and use the "key=value" syntax; an option without
// a value ("key") is reported with an empty value. The returned string
// references the boot information memory.
func BootCmdLineOption(key string) (string, bool) {
	cmdLine := bootCmdLine()

	for start := 0; start < len(cmdLine); {
		for start < len(cmdLine) && isSpace(cmdLine[start]) {
			start++
		}

		end := start
		for end < len(cmdLine) && !isSpace(cmdLine[end]) {
			end++
		}

		opt := cmdLine[start:end]
		if len(opt) >= len(key) && opt[:len(key)] == key {
			switch {
			case len(opt) == len(key):
				return "", true
			case opt[len(key)] == '=':
				return opt[len(key)+1:], true
			}
		}

		start = end
	}

	return "", false
}

// bootCmdLine returns the kernel command line without its NUL terminator.
func bootCmdLine() string {
	var cmdLine string

	curPtr, size := findTagByType(tagBootCmdLine)
	if size <= 1 {
		return cmdLine
	}

	hdr := (*reflect.StringHeader)(unsafe.Pointer(&cmdLine))
	hdr.Data = curPtr
	hdr.Len = int(size - 1)

	// Boot loaders may include the terminator in the size or pad it.
	for hdr.Len > 0 && cmdLine[hdr.Len-1] == 0 {
		hdr.Len--
	}

	return cmdLine
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t'
}

// findTagByType scans the multiboot info data looking for the start of the
// specified type. It returns a pointer to the tag contents start offset and
// the content length excluding the tag header.
//
// If the tag is not present in the multiboot info, findTagSection will return
// back (0,0).
func findTagByType(tagType tagType) (uintptr, uint32) {
	if infoData == 0 {
		return 0, 0
	}

	var ptrTagHeader *tagHeader

	curPtr := infoData + 8
	for ptrTagHeader = (*tagHeader)(unsafe.Pointer(curPtr)); ptrTagHeader.tagType != tagMbSectionEnd; ptrTagHeader = (*tagHeader)(unsafe.Pointer(curPtr)) {
		if ptrTagHeader.tagType == tagType {
			return curPtr + 8, ptrTagHeader.size - 8
		}

		curPtr += uintptr(int32(ptrTagHeader.size+7) & ^7)
	}

	return 0, 0
}
