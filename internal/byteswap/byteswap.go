// Package byteswap reverses the byte order of fixed-width words packed
// into a strided buffer, in place.
//
// Raw raster data is stored on disk in whatever byte order the source
// file declares; whenever that order doesn't match the host, a scanline
// is swapped to host order right after it's read and back to disk order
// right before it's written. This package is the primitive both
// directions share.
package byteswap

// Swap reverses each elemBytes-wide word in buf, count times, stride bytes
// apart, starting at buf[0]. When complex is true, each word is treated as
// two equal halves (real, imaginary) and the two halves are reversed
// independently, matching how a complex sample is laid out on disk.
func Swap(buf []byte, elemBytes, stride, count int, complex bool) {
	if elemBytes <= 1 {
		return
	}
	if complex {
		half := elemBytes / 2
		for i := 0; i < count; i++ {
			base := i * stride
			reverse(buf[base : base+half])
			reverse(buf[base+half : base+elemBytes])
		}
		return
	}
	for i := 0; i < count; i++ {
		base := i * stride
		reverse(buf[base : base+elemBytes])
	}
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
