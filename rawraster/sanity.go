package rawraster

import (
	"fmt"
	"math"
)

// CheckFileSize is the pre-open sanity check: it estimates the byte range
// a dataset's bands will address and rejects the file if it's conspicuously
// smaller than that. The check only triggers automatically for datasets
// with many bands or very wide scanlines, where a corrupt or mismatched
// geometry is most likely to read garbage rather than fail cleanly;
// RAW_CHECK_FILE_SIZE (read via force) can force it on or off regardless.
func CheckFileSize(header int64, nBands int, width, height int, pixelStride, lineStride, bandStride int64, actualSize int64, force TriState) error {
	trigger := force == True
	if force == Unset {
		trigger = nBands > 10 || pixelStride*int64(width) > 20000
	}

	if !trigger {
		return nil
	}

	expected := uint64(header)
	var ok bool

	if nBands > 1 {
		mag, okm := magnitude(bandStride)
		term, okt := checkedMul(mag, uint64(nBands-1))
		if !okm || !okt {
			return &SanityError{Msg: "expected file size computation overflowed"}
		}
		if bandStride >= 0 {
			expected, ok = checkedAdd(expected, term)
		} else {
			ok = term <= expected
			expected -= term
		}
		if !ok {
			return &SanityError{Msg: "expected file size computation overflowed"}
		}
	}

	lineMag, _ := magnitude(lineStride)
	lineTerm, okt := checkedMul(lineMag, uint64(height-1))
	if !okt {
		return &SanityError{Msg: "expected file size computation overflowed"}
	}
	if lineStride >= 0 {
		expected, ok = checkedAdd(expected, lineTerm)
	} else {
		ok = lineTerm <= expected
		expected -= lineTerm
	}
	if !ok {
		return &SanityError{Msg: "expected file size computation overflowed"}
	}

	pixMag, _ := magnitude(pixelStride)
	pixTerm, okt := checkedMul(pixMag, uint64(width-1))
	if !okt {
		return &SanityError{Msg: "expected file size computation overflowed"}
	}
	if pixelStride >= 0 {
		expected, ok = checkedAdd(expected, pixTerm)
	} else {
		ok = pixTerm <= expected
		expected -= pixTerm
	}
	if !ok {
		return &SanityError{Msg: "expected file size computation overflowed"}
	}

	if actualSize < 0 || uint64(actualSize) < expected/2 {
		return &SanityError{Msg: fmt.Sprintf("file looks too small: have %d bytes, expected at least %d", actualSize, expected/2)}
	}
	return nil
}

// CheckScanlineSize rejects a band geometry whose single-band scanline
// size exceeds what the generic block-cache path can safely allocate
// across nBands bands (INT32_MAX / (4*nBands), GDAL's own rule of thumb).
func CheckScanlineSize(pixelStride int64, width int, dtSize int, nBands int) error {
	if nBands < 1 {
		nBands = 1
	}
	mag := absInt64(pixelStride)
	lineSize := int64(mag)*int64(width-1) + int64(dtSize)
	limit := int64(math.MaxInt32) / int64(4*nBands)
	if lineSize > limit {
		return &SanityError{Msg: fmt.Sprintf("scanline size %d exceeds safe limit %d for %d band(s)", lineSize, limit, nBands)}
	}
	return nil
}
