package rawraster

import (
	"fmt"
	"math/bits"
	"unsafe"
)

const minInt64 = -1 << 63
const maxInt64 = 1<<63 - 1
const maxInt = int(^uint(0) >> 1)

// magnitude returns |x| as a uint64, reporting false only for
// math.MinInt64, whose magnitude doesn't fit in an int64-shaped result.
func magnitude(x int64) (uint64, bool) {
	if x >= 0 {
		return uint64(x), true
	}
	if x == minInt64 {
		return 0, false
	}
	return uint64(-x), true
}

// checkedMul multiplies two magnitudes, reporting overflow rather than
// wrapping. Every unsigned offset/size computation in this package routes
// through this and checkedAdd instead of plain * and +.
func checkedMul(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

// checkedAdd adds two magnitudes, reporting overflow.
func checkedAdd(a, b uint64) (uint64, bool) {
	sum := a + b
	return sum, sum >= a
}

// offsetFor computes img_offset ± |line_stride|·y ± |pixel_stride|·x in
// overflow-checked unsigned arithmetic. x and y must be non-negative;
// construction-time validation (validateGeometry) guarantees the result
// fits in [0, maxInt64] for every in-bounds (x, y), but offsetFor itself
// makes no such assumption, since it's also used to probe whether a given
// corner overflows in the first place.
func offsetFor(imgOffset, pixelStride, lineStride int64, x, y int64) (int64, bool) {
	if imgOffset < 0 {
		return 0, false
	}
	base := uint64(imgOffset)

	lineMag, ok := magnitude(lineStride)
	if !ok {
		return 0, false
	}
	yMag, ok := magnitude(y)
	if !ok {
		return 0, false
	}
	lineTerm, ok := checkedMul(lineMag, yMag)
	if !ok {
		return 0, false
	}
	if lineStride >= 0 {
		if base, ok = checkedAdd(base, lineTerm); !ok {
			return 0, false
		}
	} else {
		if lineTerm > base {
			return 0, false
		}
		base -= lineTerm
	}

	pixMag, ok := magnitude(pixelStride)
	if !ok {
		return 0, false
	}
	xMag, ok := magnitude(x)
	if !ok {
		return 0, false
	}
	pixTerm, ok := checkedMul(pixMag, xMag)
	if !ok {
		return 0, false
	}
	if pixelStride >= 0 {
		if base, ok = checkedAdd(base, pixTerm); !ok {
			return 0, false
		}
	} else {
		if pixTerm > base {
			return 0, false
		}
		base -= pixTerm
	}

	if base > uint64(maxInt64) {
		return 0, false
	}
	return int64(base), true
}

// validateGeometry checks a band's construction invariants and returns
// the scanline buffer geometry (lineSize, lineStart) on success.
func validateGeometry(imgOffset, pixelStride, lineStride int64, width, height int, dtSize int) (lineSize, lineStart int, err error) {
	if width <= 0 || height <= 0 {
		return 0, 0, &ConfigError{Msg: fmt.Sprintf("width and height must be positive, got %d x %d", width, height)}
	}
	if pixelStride == 0 {
		return 0, 0, &ConfigError{Msg: "pixel_stride must not be zero"}
	}
	if imgOffset < 0 {
		return 0, 0, &ConfigError{Msg: "img_offset must not be negative"}
	}

	// Smallest addressable offset must stay non-negative.
	if lineStride < 0 {
		mag, ok := magnitude(lineStride)
		term, ok2 := checkedMul(mag, uint64(height-1))
		if !ok || !ok2 || term > uint64(imgOffset) {
			return 0, 0, &ConfigError{Msg: "negative line_stride addresses before the start of the file"}
		}
	}
	if pixelStride < 0 {
		mag, ok := magnitude(pixelStride)
		term, ok2 := checkedMul(mag, uint64(width-1))
		if !ok || !ok2 || term > uint64(imgOffset) {
			return 0, 0, &ConfigError{Msg: "negative pixel_stride addresses before the start of the file"}
		}
	}

	// Scanline buffer size must fit in the buffer-size type (int).
	pixMag, _ := magnitude(pixelStride)
	span, ok := checkedMul(pixMag, uint64(width-1))
	if !ok {
		return 0, 0, &ConfigError{Msg: "pixel_stride * (width-1) overflows"}
	}
	total, ok := checkedAdd(span, uint64(dtSize))
	if !ok || total > uint64(maxInt) {
		return 0, 0, &ConfigError{Msg: "scanline buffer size overflows"}
	}
	lineSize = int(total)

	// Largest addressable offset must fit: probe all four corners.
	corners := [4][2]int64{
		{0, 0},
		{int64(width - 1), 0},
		{0, int64(height - 1)},
		{int64(width - 1), int64(height - 1)},
	}
	for _, c := range corners {
		if _, ok := offsetFor(imgOffset, pixelStride, lineStride, c[0], c[1]); !ok {
			return 0, 0, &ConfigError{Msg: "addressing one or more corners of the raster overflows the offset type"}
		}
	}

	if pixelStride >= 0 {
		lineStart = 0
	} else {
		lineStart = int(pixMag) * (width - 1)
	}
	return lineSize, lineStart, nil
}

func absInt64(x int64) int {
	if x < 0 {
		return int(-x)
	}
	return int(x)
}

func hostIsLittleEndian() bool {
	var x uint16 = 1
	b := (*[2]byte)(unsafe.Pointer(&x))
	return b[0] == 1
}
