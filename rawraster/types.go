// Package rawraster addresses, reads, and writes raw (headerless or
// header-separated) 2-D pixel grids stored as a byte-offset arithmetic
// progression in a file: an image offset, a pixel stride, a line stride,
// and an element type plus byte order. It provides windowed, resamplable,
// type-converting, multi-band raster I/O on top of that description.
package rawraster

import "fmt"

// DataType identifies a raw pixel element's storage format. It covers the
// twelve element kinds a raw raster layout can declare.
type DataType int

const (
	U8 DataType = iota
	I8
	U16
	I16
	U32
	I32
	F32
	F64
	C16  // complex pair of int16 (4 bytes)
	C32  // complex pair of int32 (8 bytes)
	C64  // complex64: pair of float32 (8 bytes)
	C128 // complex128: pair of float64 (16 bytes)
)

// CInt16 is a complex sample made of two int16 components. Go has no
// built-in complex-integer type, unlike complex64/complex128 for floats.
type CInt16 struct{ Re, Im int16 }

// CInt32 is a complex sample made of two int32 components.
type CInt32 struct{ Re, Im int32 }

// Size returns the on-disk size in bytes of one element of type t, or 0
// for an unrecognized value.
func (t DataType) Size() int {
	switch t {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	case F64:
		return 8
	case C16:
		return 4
	case C32, C64:
		return 8
	case C128:
		return 16
	default:
		return 0
	}
}

// IsComplex reports whether t stores two real sub-words per element.
func (t DataType) IsComplex() bool {
	switch t {
	case C16, C32, C64, C128:
		return true
	default:
		return false
	}
}

func (t DataType) String() string {
	switch t {
	case U8:
		return "U8"
	case I8:
		return "I8"
	case U16:
		return "U16"
	case I16:
		return "I16"
	case U32:
		return "U32"
	case I32:
		return "I32"
	case F32:
		return "F32"
	case F64:
		return "F64"
	case C16:
		return "C16"
	case C32:
		return "C32"
	case C64:
		return "C64"
	case C128:
		return "C128"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// RWFlag selects the direction of an I/O request.
type RWFlag int

const (
	Read RWFlag = iota
	Write
)

// ResampleAlg selects the resampling kernel used when an I/O request's
// output window size differs from its input window size. Only
// NearestNeighbour is implemented by either the direct-I/O fast path or
// the generic block-cache path; the type exists so a caller (or a future
// resampler) has somewhere to plug in a second value.
type ResampleAlg int

const (
	NearestNeighbour ResampleAlg = iota
)

// Interleave is a dataset's declared multi-band storage convention,
// carried as dataset metadata (e.g. an "INTERLEAVE" key).
type Interleave int

const (
	InterleaveUnspecified Interleave = iota
	InterleavePixel
	InterleaveLine
	InterleaveBand
)

func (i Interleave) String() string {
	switch i {
	case InterleavePixel:
		return "PIXEL"
	case InterleaveLine:
		return "LINE"
	case InterleaveBand:
		return "BAND"
	default:
		return "UNSPECIFIED"
	}
}

// Layout is the inferred physical multi-band layout of a dataset's bands,
// as opposed to Interleave's declared one; the two can disagree.
type Layout int

const (
	LayoutUnknown Layout = iota
	LayoutBIP
	LayoutBIL
	LayoutBSQ
)

func (l Layout) String() string {
	switch l {
	case LayoutBIP:
		return "BIP"
	case LayoutBIL:
		return "BIL"
	case LayoutBSQ:
		return "BSQ"
	default:
		return "UNKNOWN"
	}
}

// RawLayout is the output of Dataset.InferLayout: the arithmetic
// description of how a set of bands share one file, plus the classified
// interleaving.
type RawLayout struct {
	DataType     DataType
	LittleEndian bool
	ImageOffset  int64
	PixelStride  int64
	LineStride   int64
	BandStride   int64
	Interleave   Layout
}
