// Package vfile defines the positioned file collaborator that rawraster
// bands read and write raw pixel data through, and a default os.File-backed
// implementation of it.
//
// A Band never opens a file itself. Callers construct a vfile.File (or
// their own implementation of this interface, for an in-memory buffer, a
// network-backed blob, or anything else that can seek and read/write) and
// hand it to rawraster.NewBand.
package vfile

import "io"

// File is the positioned-I/O collaborator a Band drives.
type File interface {
	io.Closer

	// Seek repositions the file, io.Seeker style.
	Seek(offset int64, whence int) (int64, error)

	// Read reads into buf starting at the current position.
	Read(buf []byte) (int, error)

	// Write writes buf starting at the current position.
	Write(buf []byte) (int, error)

	// Flush makes prior writes durable. For file-backed implementations
	// this is typically fsync; an in-memory implementation may treat it
	// as a no-op.
	Flush() error

	// Tell reports the current position without moving it.
	Tell() (int64, error)
}

// Mappable is implemented by a File that can hand back a memory-mapped
// view of a byte range. Band.VirtualMemFile checks for this optionally; a
// File that doesn't implement it simply never offers a mapped view.
type Mappable interface {
	// Map returns a view over [off, off+size) of the file. writable
	// requests a read-write mapping; implementations unable to provide
	// one return an error.
	Map(off, size int64, writable bool) ([]byte, error)

	// Unmap releases a view previously returned by Map.
	Unmap(view []byte) error
}
