//go:build windows

package vfile

import "errors"

var errMmapUnsupported = errors.New("vfile: memory mapping is not implemented on this platform")

// Map always fails on windows; no mapping backend is wired up for it.
func (o *OSFile) Map(off, size int64, writable bool) ([]byte, error) {
	return nil, errMmapUnsupported
}

// Unmap always fails on windows.
func (o *OSFile) Unmap(view []byte) error {
	return errMmapUnsupported
}
