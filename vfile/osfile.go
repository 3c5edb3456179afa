package vfile

import (
	"io"
	"os"
)

// OSFile is the default File implementation, backed by *os.File.
type OSFile struct {
	f *os.File
}

// Open opens path with the given flag/perm and wraps it as a File.
func Open(path string, flag int, perm os.FileMode) (*OSFile, error) {
	f, err := os.OpenFile(path, flag, perm)
	if err != nil {
		return nil, err
	}
	return &OSFile{f: f}, nil
}

// Wrap adapts an already-open *os.File.
func Wrap(f *os.File) *OSFile {
	return &OSFile{f: f}
}

func (o *OSFile) Seek(offset int64, whence int) (int64, error) { return o.f.Seek(offset, whence) }
func (o *OSFile) Read(buf []byte) (int, error)                 { return o.f.Read(buf) }
func (o *OSFile) Write(buf []byte) (int, error)                { return o.f.Write(buf) }
func (o *OSFile) Close() error                                 { return o.f.Close() }
func (o *OSFile) Flush() error                                 { return o.f.Sync() }

func (o *OSFile) Tell() (int64, error) { return o.f.Seek(0, io.SeekCurrent) }

// Fd exposes the underlying native descriptor, for Mappable implementations
// and callers that need one directly.
func (o *OSFile) Fd() uintptr { return o.f.Fd() }

// Size reports the file's current size on disk.
func (o *OSFile) Size() (int64, error) {
	fi, err := o.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
