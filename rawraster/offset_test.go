package rawraster

import "testing"

func TestOffsetForPositiveStrides(t *testing.T) {
	off, ok := offsetFor(100, 4, 40, 3, 2)
	if !ok {
		t.Fatal("offsetFor: want ok")
	}
	want := int64(100 + 40*2 + 4*3)
	if off != want {
		t.Errorf("offsetFor = %d, want %d", off, want)
	}
}

func TestOffsetForNegativeLineStride(t *testing.T) {
	// height=5, line_stride=-10: img_offset must cover rows below 0.
	off, ok := offsetFor(40, 4, -10, 0, 4)
	if !ok {
		t.Fatal("offsetFor: want ok")
	}
	if off != 0 {
		t.Errorf("offsetFor(row 4) = %d, want 0", off)
	}
}

func TestOffsetForNegativeLineStrideUnderflow(t *testing.T) {
	if _, ok := offsetFor(10, 4, -10, 0, 4); ok {
		t.Error("offsetFor: want overflow/underflow detected")
	}
}

func TestCheckedMulOverflow(t *testing.T) {
	_, ok := checkedMul(1<<40, 1<<40)
	if ok {
		t.Error("checkedMul: want overflow detected")
	}
	v, ok := checkedMul(3, 4)
	if !ok || v != 12 {
		t.Errorf("checkedMul(3,4) = %d, %v, want 12, true", v, ok)
	}
}

func TestCheckedAddOverflow(t *testing.T) {
	_, ok := checkedAdd(^uint64(0), 1)
	if ok {
		t.Error("checkedAdd: want overflow detected")
	}
}

func TestValidateGeometryRejectsZeroPixelStride(t *testing.T) {
	_, _, err := validateGeometry(0, 0, 40, 10, 10, 1)
	if err == nil {
		t.Fatal("validateGeometry: want error for pixel_stride == 0")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Errorf("err = %T, want *ConfigError", err)
	}
}

func TestValidateGeometryRejectsNegativeStrideUnderflow(t *testing.T) {
	_, _, err := validateGeometry(5, 4, -10, 10, 10, 1)
	if err == nil {
		t.Fatal("validateGeometry: want error, img_offset too small for negative line_stride")
	}
}

func TestValidateGeometryComputesLineGeometry(t *testing.T) {
	lineSize, lineStart, err := validateGeometry(0, 4, 40, 10, 10, 4)
	if err != nil {
		t.Fatalf("validateGeometry: %v", err)
	}
	if lineStart != 0 {
		t.Errorf("lineStart = %d, want 0", lineStart)
	}
	wantLineSize := 4*9 + 4
	if lineSize != wantLineSize {
		t.Errorf("lineSize = %d, want %d", lineSize, wantLineSize)
	}
}

func TestValidateGeometryNegativePixelStrideLineStart(t *testing.T) {
	lineSize, lineStart, err := validateGeometry(36, -4, 40, 10, 10, 4)
	if err != nil {
		t.Fatalf("validateGeometry: %v", err)
	}
	if lineStart != 36 {
		t.Errorf("lineStart = %d, want 36", lineStart)
	}
	if lineSize != 40 {
		t.Errorf("lineSize = %d, want 40", lineSize)
	}
}
