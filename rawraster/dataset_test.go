package rawraster

import (
	"bytes"
	"testing"
)

func makeBIPBand(t *testing.T, f *memFile, bandIdx, nBands, width, height int) *Band {
	t.Helper()
	band, err := NewBand(BandConfig{
		File: f, ImgOffset: int64(bandIdx), PixelStride: int64(nBands), LineStride: int64(nBands * width),
		DataType: U8, NativeOrder: true, Width: width, Height: height,
	})
	if err != nil {
		t.Fatalf("NewBand(band %d): %v", bandIdx, err)
	}
	return band
}

func TestScenario4_BIPDirectIODispatch(t *testing.T) {
	orig := GetConfig()
	defer SetConfig(orig)
	SetConfig(Config{OneBigRead: True})

	width, height, nBands := 4, 2, 3
	f := newMemFile(make([]byte, width*height*nBands))
	ds := NewDataset()
	ds.SetMetadata("INTERLEAVE", "PIXEL")
	for i := 0; i < nBands; i++ {
		ds.AddBand(makeBIPBand(t, f, i, nBands, width, height))
	}

	// Buffer holds three contiguous per-band planes.
	total := width * height
	buf := make([]byte, total*nBands)
	for b := 0; b < nBands; b++ {
		for p := 0; p < total; p++ {
			buf[b*total+p] = byte(b*100 + p)
		}
	}

	win := DatasetIOWindow{
		IOWindow:  IOWindow{XSize: width, YSize: height, BufXSize: width, BufYSize: height, BufType: U8},
		BandSpace: total,
	}
	if err := ds.IO(Write, win, buf, nil, NearestNeighbour, nil); err != nil {
		t.Fatalf("IO write: %v", err)
	}
	for _, b := range ds.Bands() {
		if err := b.Flush(); err != nil {
			t.Fatalf("Flush: %v", err)
		}
	}

	want := make([]byte, width*height*nBands)
	for p := 0; p < total; p++ {
		for b := 0; b < nBands; b++ {
			want[p*nBands+b] = byte(b*100 + p)
		}
	}
	if !bytes.Equal(f.data, want) {
		t.Errorf("on-disk BIP bytes = %v, want %v", f.data, want)
	}

	got := make([]byte, total*nBands)
	if err := ds.IO(Read, win, got, nil, NearestNeighbour, nil); err != nil {
		t.Fatalf("IO read: %v", err)
	}
	if !bytes.Equal(got, buf) {
		t.Errorf("round trip = %v, want %v", got, buf)
	}
}

func TestDatasetIOGenericFallsBackWithoutPixelInterleave(t *testing.T) {
	width, height, nBands := 3, 2, 2
	f := newMemFile(make([]byte, width*height*nBands))
	ds := NewDataset() // no INTERLEAVE metadata set
	for i := 0; i < nBands; i++ {
		ds.AddBand(makeBIPBand(t, f, i, nBands, width, height))
	}

	total := width * height
	buf := make([]byte, total*nBands)
	for i := range buf {
		buf[i] = byte(i + 1)
	}
	win := DatasetIOWindow{
		IOWindow:  IOWindow{XSize: width, YSize: height, BufXSize: width, BufYSize: height, BufType: U8},
		BandSpace: total,
	}
	if err := ds.IO(Write, win, buf, nil, NearestNeighbour, nil); err != nil {
		t.Fatalf("IO write: %v", err)
	}

	got := make([]byte, total*nBands)
	if err := ds.IO(Read, win, got, nil, NearestNeighbour, nil); err != nil {
		t.Fatalf("IO read: %v", err)
	}
	if !bytes.Equal(got, buf) {
		t.Errorf("round trip via generic path = %v, want %v", got, buf)
	}
}

func TestDatasetIOTypeConversion(t *testing.T) {
	width, height := 3, 1
	f := newMemFile(make([]byte, width*2))
	ds := NewDataset()
	band, err := NewBand(BandConfig{
		File: f, PixelStride: 2, LineStride: int64(width * 2),
		DataType: I16, NativeOrder: true, Width: width, Height: height,
	})
	if err != nil {
		t.Fatalf("NewBand: %v", err)
	}
	ds.AddBand(band)

	srcF32 := make([]byte, width*4)
	vals := []float32{1.0, -2.5, 1000.9}
	for i, v := range vals {
		storeComplex(srcF32[i*4:i*4+4], F32, complex(float64(v), 0))
	}
	writeWin := DatasetIOWindow{IOWindow: IOWindow{XSize: width, YSize: height, BufXSize: width, BufYSize: height, BufType: F32}}
	if err := ds.IO(Write, writeWin, srcF32, nil, NearestNeighbour, nil); err != nil {
		t.Fatalf("IO write: %v", err)
	}
	if err := band.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	readWin := DatasetIOWindow{IOWindow: IOWindow{XSize: width, YSize: height, BufXSize: width, BufYSize: height, BufType: I16}}
	gotI16 := make([]byte, width*2)
	if err := ds.IO(Read, readWin, gotI16, nil, NearestNeighbour, nil); err != nil {
		t.Fatalf("IO read: %v", err)
	}
	want := []int16{1, -2, 1000}
	for i, w := range want {
		off := i * 2
		got := int16(real(loadComplex(gotI16[off:off+2], I16)))
		if got != w {
			t.Errorf("pixel %d = %d, want %d", i, got, w)
		}
	}
}

func TestAddBandClearsSecondOwnerOfSharedFile(t *testing.T) {
	f := newMemFile(make([]byte, 8))
	b1, err := NewBand(BandConfig{File: f, OwnsFile: true, PixelStride: 1, LineStride: 4, DataType: U8, NativeOrder: true, Width: 4, Height: 1})
	if err != nil {
		t.Fatalf("NewBand: %v", err)
	}
	b2, err := NewBand(BandConfig{File: f, OwnsFile: true, ImgOffset: 4, PixelStride: 1, LineStride: 4, DataType: U8, NativeOrder: true, Width: 4, Height: 1})
	if err != nil {
		t.Fatalf("NewBand: %v", err)
	}

	ds := NewDataset()
	ds.AddBand(b1)
	ds.AddBand(b2)

	if !b1.ownsFile {
		t.Error("first band lost ownership")
	}
	if b2.ownsFile {
		t.Error("second band sharing the same file should have ownership cleared")
	}
}

func TestDatasetCloseClosesOwnedFileOnce(t *testing.T) {
	f := newMemFile(make([]byte, 8))
	b1, _ := NewBand(BandConfig{File: f, OwnsFile: true, PixelStride: 1, LineStride: 4, DataType: U8, NativeOrder: true, Width: 4, Height: 1})
	b2, _ := NewBand(BandConfig{File: f, OwnsFile: true, ImgOffset: 4, PixelStride: 1, LineStride: 4, DataType: U8, NativeOrder: true, Width: 4, Height: 1})

	ds := NewDataset()
	ds.AddBand(b1)
	ds.AddBand(b2)

	if err := ds.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !f.closed {
		t.Error("Close: underlying file was never closed")
	}
	if f.closes != 1 {
		t.Errorf("Close: underlying file closed %d times, want 1", f.closes)
	}
}

func TestDatasetIORejectsOutOfRangeBandIndex(t *testing.T) {
	ds := NewDataset()
	ds.AddBand(makeBIPBand(t, newMemFile(make([]byte, 8)), 0, 1, 4, 1))
	win := DatasetIOWindow{IOWindow: IOWindow{XSize: 4, YSize: 1, BufXSize: 4, BufYSize: 1, BufType: U8}}
	err := ds.IO(Read, win, make([]byte, 4), []int{5}, NearestNeighbour, nil)
	if err == nil {
		t.Fatal("IO: want error for out-of-range band index")
	}
}
