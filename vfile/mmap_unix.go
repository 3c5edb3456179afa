//go:build !windows

package vfile

import "golang.org/x/sys/unix"

// Map implements Mappable on unix-like platforms using
// golang.org/x/sys/unix, in place of a raw syscall.Mmap call.
func (o *OSFile) Map(off, size int64, writable bool) ([]byte, error) {
	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}
	return unix.Mmap(int(o.f.Fd()), off, int(size), prot, unix.MAP_SHARED)
}

// Unmap implements Mappable.
func (o *OSFile) Unmap(view []byte) error {
	return unix.Munmap(view)
}
