package vfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOSFileSeekReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "band.raw")
	f, err := Open(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if n, err := f.Write(want); err != nil || n != len(want) {
		t.Fatalf("Write: n=%d err=%v", n, err)
	}
	if err := f.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	pos, err := f.Tell()
	if err != nil || pos != int64(len(want)) {
		t.Fatalf("Tell: pos=%d err=%v", pos, err)
	}

	if _, err := f.Seek(2, 0); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	got := make([]byte, 4)
	if n, err := f.Read(got); err != nil || n != 4 {
		t.Fatalf("Read: n=%d err=%v", n, err)
	}
	for i, b := range got {
		if b != want[2+i] {
			t.Errorf("Read[%d] = %d, want %d", i, b, want[2+i])
		}
	}
}

func TestOSFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "band.raw")
	f, err := Open(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	if _, err := f.Write(make([]byte, 100)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	sz, err := f.Size()
	if err != nil || sz != 100 {
		t.Fatalf("Size: sz=%d err=%v", sz, err)
	}
}

func TestOSFileMapRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "band.raw")
	f, err := Open(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	if _, err := f.Write(make([]byte, 64)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := f.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	view, err := f.Map(0, 64, true)
	if err != nil {
		t.Skipf("mmap unsupported in this environment: %v", err)
	}
	view[0] = 0xAB
	if err := f.Unmap(view); err != nil {
		t.Fatalf("Unmap: %v", err)
	}

	got := make([]byte, 1)
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if _, err := f.Read(got); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got[0] != 0xAB {
		t.Errorf("after mapped write, Read = %#x, want 0xab", got[0])
	}
}
