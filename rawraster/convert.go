package rawraster

import "unsafe"

// loadComplex decodes one host-order element of type t at b[0:t.Size()]
// into a complex128, the common currency convertElem converts through.
// Real types carry a zero imaginary part.
func loadComplex(b []byte, t DataType) complex128 {
	switch t {
	case U8:
		return complex(float64(b[0]), 0)
	case I8:
		return complex(float64(int8(b[0])), 0)
	case U16:
		return complex(float64(*(*uint16)(unsafe.Pointer(&b[0]))), 0)
	case I16:
		return complex(float64(*(*int16)(unsafe.Pointer(&b[0]))), 0)
	case U32:
		return complex(float64(*(*uint32)(unsafe.Pointer(&b[0]))), 0)
	case I32:
		return complex(float64(*(*int32)(unsafe.Pointer(&b[0]))), 0)
	case F32:
		return complex(float64(*(*float32)(unsafe.Pointer(&b[0]))), 0)
	case F64:
		return complex(*(*float64)(unsafe.Pointer(&b[0])), 0)
	case C16:
		c := *(*CInt16)(unsafe.Pointer(&b[0]))
		return complex(float64(c.Re), float64(c.Im))
	case C32:
		c := *(*CInt32)(unsafe.Pointer(&b[0]))
		return complex(float64(c.Re), float64(c.Im))
	case C64:
		return complex128(*(*complex64)(unsafe.Pointer(&b[0])))
	case C128:
		return *(*complex128)(unsafe.Pointer(&b[0]))
	default:
		return 0
	}
}

// storeComplex encodes v as one host-order element of type t into
// b[0:t.Size()], truncating toward zero for integer destinations exactly
// as a Go numeric conversion would.
func storeComplex(b []byte, t DataType, v complex128) {
	re, im := real(v), imag(v)
	switch t {
	case U8:
		b[0] = byte(uint8(re))
	case I8:
		b[0] = byte(int8(re))
	case U16:
		*(*uint16)(unsafe.Pointer(&b[0])) = uint16(re)
	case I16:
		*(*int16)(unsafe.Pointer(&b[0])) = int16(re)
	case U32:
		*(*uint32)(unsafe.Pointer(&b[0])) = uint32(re)
	case I32:
		*(*int32)(unsafe.Pointer(&b[0])) = int32(re)
	case F32:
		*(*float32)(unsafe.Pointer(&b[0])) = float32(re)
	case F64:
		*(*float64)(unsafe.Pointer(&b[0])) = re
	case C16:
		*(*CInt16)(unsafe.Pointer(&b[0])) = CInt16{Re: int16(re), Im: int16(im)}
	case C32:
		*(*CInt32)(unsafe.Pointer(&b[0])) = CInt32{Re: int32(re), Im: int32(im)}
	case C64:
		*(*complex64)(unsafe.Pointer(&b[0])) = complex64(v)
	case C128:
		*(*complex128)(unsafe.Pointer(&b[0])) = v
	}
}

// convertElem converts one element of srcType at src[0:srcType.Size()]
// into dstType at dst[0:dstType.Size()]. Equal types copy the bytes
// directly; otherwise it goes through a complex128 intermediate, the
// same load/switch/store shape as exr.Slice's typed Get/Set pair.
func convertElem(src []byte, srcType DataType, dst []byte, dstType DataType) {
	if srcType == dstType {
		copy(dst[:srcType.Size()], src[:srcType.Size()])
		return
	}
	storeComplex(dst, dstType, loadComplex(src, srcType))
}

// copyWords copies count elements from src (srcType, srcStride bytes
// apart) into dst (dstType, dstStride bytes apart), converting each one.
func copyWords(src []byte, srcType DataType, srcStride int, dst []byte, dstType DataType, dstStride int, count int) {
	ss, ds := srcType.Size(), dstType.Size()
	for i := 0; i < count; i++ {
		so := i * srcStride
		do := i * dstStride
		convertElem(src[so:so+ss], srcType, dst[do:do+ds], dstType)
	}
}
