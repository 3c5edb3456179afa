package byteswap

import (
	"bytes"
	"testing"
)

func TestSwapContiguousUint16(t *testing.T) {
	buf := []byte{0x00, 0x01, 0x00, 0x02, 0x00, 0x03}
	Swap(buf, 2, 2, 3, false)
	want := []byte{0x01, 0x00, 0x02, 0x00, 0x03, 0x00}
	if !bytes.Equal(buf, want) {
		t.Errorf("Swap = %v, want %v", buf, want)
	}
}

func TestSwapWithGapStride(t *testing.T) {
	// Two-byte words, four bytes apart (simulating an interleaved band).
	buf := []byte{0x00, 0x01, 0xFF, 0xFF, 0x00, 0x02, 0xFF, 0xFF}
	Swap(buf, 2, 4, 2, false)
	want := []byte{0x01, 0x00, 0xFF, 0xFF, 0x02, 0x00, 0xFF, 0xFF}
	if !bytes.Equal(buf, want) {
		t.Errorf("Swap = %v, want %v", buf, want)
	}
}

func TestSwapComplex(t *testing.T) {
	// One C32 element: real=0x00000001, imag=0x00000002.
	buf := []byte{0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x02}
	Swap(buf, 8, 8, 1, true)
	want := []byte{0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00}
	if !bytes.Equal(buf, want) {
		t.Errorf("Swap = %v, want %v", buf, want)
	}
}

func TestSwapByteWidthOneIsNoOp(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	cp := append([]byte(nil), buf...)
	Swap(buf, 1, 1, 4, false)
	if !bytes.Equal(buf, cp) {
		t.Errorf("Swap of 1-byte elements mutated buffer: %v", buf)
	}
}

func TestSwapIsItsOwnInverse(t *testing.T) {
	buf := []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}
	orig := append([]byte(nil), buf...)
	Swap(buf, 4, 4, 2, false)
	Swap(buf, 4, 4, 2, false)
	if !bytes.Equal(buf, orig) {
		t.Errorf("double swap = %v, want original %v", buf, orig)
	}
}
