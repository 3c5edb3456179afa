package rawraster

import (
	"fmt"
	"io"

	"github.com/and-marsh/gdal/internal/blockcache"
	"github.com/and-marsh/gdal/internal/byteswap"
	"github.com/and-marsh/gdal/vfile"
)

const noLoadedLine = -1

// Band is one band of a raw raster: a scanline-addressed window into a
// file, described entirely by an image offset, a pixel stride, a line
// stride, an element type/byte order, and a width and height.
//
// A Band is not safe for concurrent use. Callers sharing one Band across
// goroutines must serialize their own access; no mutex is embedded here,
// since adding one would silently paper over that rule rather than
// enforce it.
type Band struct {
	file     vfile.File
	ownsFile bool
	readOnly bool
	envi     bool // exempts sparse-hole seek failures and short reads from IOError, like GDAL's ENVI driver tag

	imgOffset   int64
	pixelStride int64
	lineStride  int64
	dataType    DataType
	nativeOrder bool
	width       int
	height      int

	psInt  int // pixelStride, cast to int; buffer geometry is already known to fit
	absPS  int // |pixelStride|

	lineSize   int
	lineStart  int
	lineBuf    []byte
	loadedLine int
	needsFlush bool // underlying file has writes not yet fsynced

	cache *blockcache.Cache

	hasNoData bool
	noData    float64
}

// BandConfig describes the on-disk geometry of one band.
type BandConfig struct {
	File        vfile.File
	OwnsFile    bool
	ReadOnly    bool
	ENVI        bool
	ImgOffset   int64
	PixelStride int64
	LineStride  int64
	DataType    DataType
	NativeOrder bool
	Width       int
	Height      int
}

// NewBand validates cfg's construction invariants and returns a ready
// Band. On failure the error is a *ConfigError and no Band is returned;
// callers that want to keep the configuration around for diagnostics
// should hold onto the BandConfig themselves.
func NewBand(cfg BandConfig) (*Band, error) {
	if cfg.File == nil {
		return nil, &ConfigError{Msg: "file must not be nil"}
	}
	dtSize := cfg.DataType.Size()
	if dtSize == 0 {
		return nil, &ConfigError{Msg: fmt.Sprintf("unrecognized data type %v", cfg.DataType)}
	}
	lineSize, lineStart, err := validateGeometry(cfg.ImgOffset, cfg.PixelStride, cfg.LineStride, cfg.Width, cfg.Height, dtSize)
	if err != nil {
		return nil, err
	}

	b := &Band{
		file:        cfg.File,
		ownsFile:    cfg.OwnsFile,
		readOnly:    cfg.ReadOnly,
		envi:        cfg.ENVI,
		imgOffset:   cfg.ImgOffset,
		pixelStride: cfg.PixelStride,
		lineStride:  cfg.LineStride,
		dataType:    cfg.DataType,
		nativeOrder: cfg.NativeOrder,
		width:       cfg.Width,
		height:      cfg.Height,
		psInt:       int(cfg.PixelStride),
		absPS:       absInt64(cfg.PixelStride),
		lineSize:    lineSize,
		lineStart:   lineStart,
		lineBuf:     make([]byte, lineSize),
		loadedLine:  noLoadedLine,
	}
	b.cache = blockcache.New(b, defaultCacheCapacity(cfg.Height))
	return b, nil
}

func defaultCacheCapacity(height int) int {
	// Hold up to 20% of the raster's scanlines, with a small floor. Kept
	// well above the 5% threshold CanUseDirectIO checks FractionCached
	// against, so that threshold can actually be crossed rather than being
	// unreachable under the cache's own cap.
	c := height / 5
	if c < 8 {
		c = 8
	}
	return c
}

// Width returns the band's pixel width.
func (b *Band) Width() int { return b.width }

// Height returns the band's pixel height.
func (b *Band) Height() int { return b.height }

// DataType returns the band's element type.
func (b *Band) DataType() DataType { return b.dataType }

// NoDataValue returns the band's declared no-data value, if any. It is
// carried but never interpreted by the I/O path itself; deciding what a
// no-data pixel means to a consumer is left to the caller.
func (b *Band) NoDataValue() (float64, bool) { return b.noData, b.hasNoData }

// SetNoDataValue sets the band's no-data value.
func (b *Band) SetNoDataValue(v float64) { b.noData, b.hasNoData = v, true }

// ClearNoDataValue clears any previously set no-data value.
func (b *Band) ClearNoDataValue() { b.hasNoData = false }

// offset computes the byte offset of pixel (x, y) in the band's file.
func (b *Band) offset(x, y int) (int64, error) {
	off, ok := offsetFor(b.imgOffset, b.pixelStride, b.lineStride, int64(x), int64(y))
	if !ok {
		return 0, &ConfigError{Msg: "pixel address overflows the offset type"}
	}
	return off, nil
}

// rowStart returns the smallest file offset touched by scanline y: pixel
// 0 when pixel_stride is positive, pixel width-1 when it's negative.
func (b *Band) rowStart(y int) (int64, error) {
	x := 0
	if b.pixelStride < 0 {
		x = b.width - 1
	}
	return b.offset(x, y)
}

func (b *Band) pixelOffset(x int) int {
	return b.lineStart + x*b.psInt
}

// AccessLine ensures the scanline cache holds line y: if it already does,
// this is a no-op; otherwise it loads the scanline from disk, zero-fills
// any bytes a short or missing read didn't cover, and byte-swaps the
// buffer to host order if the file's declared order isn't native.
func (b *Band) AccessLine(y int) error {
	if b.loadedLine == y {
		return nil
	}
	readStart, err := b.rowStart(y)
	if err != nil {
		return err
	}

	if _, serr := b.file.Seek(readStart, io.SeekStart); serr != nil {
		if b.readOnly && !b.envi {
			return &IOError{Op: "seek", Err: serr}
		}
		zero(b.lineBuf)
		b.loadedLine = y
		return nil
	}

	n, rerr := io.ReadFull(b.file, b.lineBuf)
	if n < b.lineSize {
		if b.readOnly && !b.envi {
			if rerr == nil {
				rerr = io.ErrUnexpectedEOF
			}
			return &IOError{Op: "read", Err: rerr}
		}
		zero(b.lineBuf[n:])
	}

	if !b.nativeOrder && b.dataType.Size() > 1 {
		byteswap.Swap(b.lineBuf, b.dataType.Size(), b.absPS, b.width, b.dataType.IsComplex())
	}

	b.loadedLine = y
	return nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ReadBlock implements blockcache.Source: it loads scanline y and packs
// its pixels contiguously (at dtSize stride) into dest.
func (b *Band) ReadBlock(y int, dest []byte) error {
	if err := b.AccessLine(y); err != nil {
		return err
	}
	dtSize := b.dataType.Size()
	for x := 0; x < b.width; x++ {
		so := b.pixelOffset(x)
		do := x * dtSize
		copy(dest[do:do+dtSize], b.lineBuf[so:so+dtSize])
	}
	return nil
}

// WriteBlock implements blockcache.Source: it scatters src's contiguous
// pixels into the scanline buffer at the band's own pixel stride, then
// writes the whole scanline back.
func (b *Band) WriteBlock(y int, src []byte) error {
	if b.readOnly {
		return &IOError{Op: "write", Err: errReadOnlyBand}
	}
	dtSize := b.dataType.Size()

	if b.absPS > dtSize {
		// The stride leaves gaps between this band's pixels (another
		// band's bytes, in a pixel-interleaved file); preserve them by
		// loading the existing scanline before overwriting our pixels.
		if err := b.AccessLine(y); err != nil {
			return err
		}
	}

	for x := 0; x < b.width; x++ {
		do := b.pixelOffset(x)
		so := x * dtSize
		copy(b.lineBuf[do:do+dtSize], src[so:so+dtSize])
	}

	swap := !b.nativeOrder && dtSize > 1
	if swap {
		byteswap.Swap(b.lineBuf, dtSize, b.absPS, b.width, b.dataType.IsComplex())
		defer byteswap.Swap(b.lineBuf, dtSize, b.absPS, b.width, b.dataType.IsComplex())
	}

	writeStart, err := b.rowStart(y)
	if err != nil {
		return err
	}
	if _, err := b.file.Seek(writeStart, io.SeekStart); err != nil {
		return &IOError{Op: "seek", Err: err}
	}
	n, err := b.file.Write(b.lineBuf)
	if n < b.lineSize {
		if err == nil {
			err = io.ErrShortWrite
		}
		return &IOError{Op: "write", Err: err}
	}

	b.loadedLine = y
	b.needsFlush = true
	return nil
}

// BlockSize implements blockcache.Source.
func (b *Band) BlockSize() int { return b.lineSize }

// BlockCount implements blockcache.Source.
func (b *Band) BlockCount() int { return b.height }

// CanUseDirectIO reports whether the direct-I/O fast path applies to a
// window of width wIn, given the requested resample algorithm and the
// band's current block-cache occupancy. GDAL_ONE_BIG_READ overrides the
// heuristic outright; otherwise direct I/O is reserved for scanlines wide
// enough, and windows narrow enough relative to them, that one big read
// beats many small ones, and only when the cache doesn't already hold a
// meaningful fraction of the image.
func (b *Band) CanUseDirectIO(wIn int, resample ResampleAlg) bool {
	if b.pixelStride < 0 {
		return false
	}
	if resample != NearestNeighbour {
		return false
	}
	switch GetConfig().OneBigRead {
	case True:
		return true
	case False:
		return false
	}
	if b.lineSize < 50000 {
		return false
	}
	if b.psInt <= 0 {
		return false
	}
	if wIn > (b.lineSize/b.psInt)*2/5 {
		return false
	}
	// defaultCacheCapacity caps the cache above this 5% threshold, so it's
	// actually reachable once enough scanlines have been touched.
	if b.cache.FractionCached(b.height) > 0.05 {
		return false
	}
	return true
}

// IOWindow describes the caller's side of a windowed Band.IO request: a
// rectangle in raster space, and the caller's buffer geometry.
type IOWindow struct {
	XOff, YOff         int
	XSize, YSize       int // size of the raster window
	BufXSize, BufYSize int // size of the caller's buffer (resampled if different from XSize/YSize)
	BufType            DataType
	PixelSpace         int // caller's byte stride between pixels in a row; 0 means BufType.Size()
	LineSpace          int // caller's byte stride between rows; 0 means PixelSpace*BufXSize
}

// IO performs one windowed read or write through the direct-I/O path: a
// single large access for the contiguous, untype-converted, unresampled
// case, or a per-row staged access with resampling and type conversion
// otherwise. It has no fallback of its own; whether to call it, versus
// the generic block-cache path, is CanUseDirectIO's decision.
func (b *Band) IO(rw RWFlag, w IOWindow, buf []byte, progress ProgressFunc) error {
	pixelSpace := w.PixelSpace
	if pixelSpace == 0 {
		pixelSpace = w.BufType.Size()
	}
	lineSpace := w.LineSpace
	if lineSpace == 0 {
		lineSpace = pixelSpace * w.BufXSize
	}

	contiguous := w.XSize == b.width && w.XSize == w.BufXSize && w.YSize == w.BufYSize &&
		w.BufType == b.dataType && b.absPS == b.dataType.Size() &&
		pixelSpace == b.dataType.Size() && lineSpace == pixelSpace*w.XSize

	if contiguous {
		return b.ioContiguous(rw, w, buf, progress)
	}
	return b.ioGeneral(rw, w, buf, pixelSpace, lineSpace, progress)
}

func (b *Band) ioContiguous(rw RWFlag, w IOWindow, buf []byte, progress ProgressFunc) error {
	start, err := b.offset(0, w.YOff)
	if err != nil {
		return err
	}
	dtSize := b.dataType.Size()
	n := w.XSize * w.YSize * dtSize

	if rw == Read {
		if err := b.accessBlock(start, n, buf); err != nil {
			return err
		}
		if progress != nil && !progress(1, "") {
			return ErrCancelled
		}
		return nil
	}

	swap := !b.nativeOrder && dtSize > 1
	if swap {
		byteswap.Swap(buf, dtSize, dtSize, n/dtSize, b.dataType.IsComplex())
		defer byteswap.Swap(buf, dtSize, dtSize, n/dtSize, b.dataType.IsComplex())
	}
	if _, err := b.file.Seek(start, io.SeekStart); err != nil {
		return &IOError{Op: "seek", Err: err}
	}
	written, err := b.file.Write(buf[:n])
	if written < n {
		if err == nil {
			err = io.ErrShortWrite
		}
		return &IOError{Op: "write", Err: err}
	}
	b.needsFlush = true
	if progress != nil && !progress(1, "") {
		return ErrCancelled
	}
	return nil
}

// accessBlock is the shared direct-I/O helper: seek, read (zero-filling a
// short read unconditionally; unlike AccessLine, the direct path makes
// no read-only/ENVI distinction), and byte-swap in place using
// pixel_stride as the word stride. pixelStride must be positive: the
// direct-I/O path is only ever reached with a non-negative stride
// (CanUseDirectIO's gate), and this asserts that explicitly rather than
// relying on that exclusion implicitly.
func (b *Band) accessBlock(off int64, nbytes int, buf []byte) error {
	if _, err := b.file.Seek(off, io.SeekStart); err != nil {
		if b.readOnly {
			return &IOError{Op: "seek", Err: err}
		}
		zero(buf[:nbytes])
		return nil
	}
	n, _ := io.ReadFull(b.file, buf[:nbytes])
	if n < nbytes {
		zero(buf[n:nbytes])
	}
	if !b.nativeOrder && b.dataType.Size() > 1 {
		if b.pixelStride <= 0 {
			return &ConfigError{Msg: "accessBlock requires a positive pixel_stride"}
		}
		byteswap.Swap(buf, b.dataType.Size(), int(b.pixelStride), nbytes/int(b.pixelStride), b.dataType.IsComplex())
	}
	return nil
}

func (b *Band) ioGeneral(rw RWFlag, w IOWindow, buf []byte, pixelSpace, lineSpace int, progress ProgressFunc) error {
	dtSize := b.dataType.Size()
	stage := make([]byte, b.absPS*w.XSize)
	// A written row ends at its last pixel's final byte, so the write never
	// runs past the band's own extent.
	rowBytes := 0
	if w.XSize > 0 {
		rowBytes = b.absPS*(w.XSize-1) + dtSize
	}

	for iLine := 0; iLine < w.BufYSize; iLine++ {
		srcY := w.YOff + iLine*w.YSize/w.BufYSize

		var rowOff int64
		var err error
		if b.pixelStride >= 0 {
			rowOff, err = b.offset(w.XOff, srcY)
		} else {
			rowOff, err = b.offset(w.XOff+w.XSize-1, srcY)
		}
		if err != nil {
			return err
		}

		if rw == Read {
			if err := b.accessBlock(rowOff, b.absPS*w.XSize, stage); err != nil {
				return err
			}
			dstRow := buf[iLine*lineSpace:]
			if w.XSize == w.BufXSize {
				copyWords(stage, b.dataType, b.psInt, dstRow, w.BufType, pixelSpace, w.XSize)
			} else {
				for iPixel := 0; iPixel < w.BufXSize; iPixel++ {
					srcX := iPixel * w.XSize / w.BufXSize
					so := srcX * b.psInt
					do := iPixel * pixelSpace
					convertElem(stage[so:so+dtSize], b.dataType, dstRow[do:do+w.BufType.Size()], w.BufType)
				}
			}
		} else {
			if b.absPS > dtSize {
				if err := b.accessBlock(rowOff, b.absPS*w.XSize, stage); err != nil {
					return err
				}
			}
			srcRow := buf[iLine*lineSpace:]
			if w.XSize == w.BufXSize {
				copyWords(srcRow, w.BufType, pixelSpace, stage, b.dataType, b.psInt, w.XSize)
			} else {
				for iPixel := 0; iPixel < w.XSize; iPixel++ {
					srcIdx := iPixel * w.BufXSize / w.XSize
					so := srcIdx * pixelSpace
					do := iPixel * b.psInt
					convertElem(srcRow[so:so+w.BufType.Size()], w.BufType, stage[do:do+dtSize], b.dataType)
				}
			}

			swap := !b.nativeOrder && dtSize > 1
			if swap {
				byteswap.Swap(stage, dtSize, b.absPS, w.XSize, b.dataType.IsComplex())
			}
			if _, err := b.file.Seek(rowOff, io.SeekStart); err != nil {
				return &IOError{Op: "seek", Err: err}
			}
			nwrote, err := b.file.Write(stage[:rowBytes])
			if nwrote < rowBytes {
				if err == nil {
					err = io.ErrShortWrite
				}
				return &IOError{Op: "write", Err: err}
			}
			if swap {
				byteswap.Swap(stage, dtSize, b.absPS, w.XSize, b.dataType.IsComplex())
			}
			b.needsFlush = true
		}

		if progress != nil && !progress(float64(iLine+1)/float64(w.BufYSize), "") {
			return ErrCancelled
		}
	}
	return nil
}

// Flush first flushes the band's block cache, which may trigger
// WriteBlock calls and so set needsFlush; only then, if needsFlush, does
// it flush the underlying file. A block-cache flush error clears
// needsFlush anyway and is returned as-is, a deliberate loss of a retry
// opportunity rather than a bug.
func (b *Band) Flush() error {
	cacheErr := b.cache.Flush()
	wasPending := b.needsFlush
	b.needsFlush = false
	if cacheErr != nil {
		return cacheErr
	}
	if wasPending {
		if err := b.file.Flush(); err != nil {
			return &IOError{Op: "flush", Err: err}
		}
	}
	return nil
}

// Close flushes the band and, if it owns the file, closes it.
func (b *Band) Close() error {
	err := b.Flush()
	if b.ownsFile {
		if cerr := b.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// MemView is a mapped view of a band's pixel data, returned by
// VirtualMemFile.
type MemView struct {
	Data       []byte
	PixelSpace int
	LineSpace  int
	unmap      func() error
}

// Close releases the mapped view.
func (v *MemView) Close() error {
	if v.unmap == nil {
		return nil
	}
	return v.unmap()
}

// VirtualMemFile returns a mapped view of the band's pixel data, or
// ok=false when the band's geometry or the underlying file don't support
// one: negative strides, a foreign byte order on a multi-byte type, a
// file that doesn't implement vfile.Mappable, an offset range that
// overflows, or forceGeneric requesting the fallback outright. Callers
// should fall back to IO when ok is false.
func (b *Band) VirtualMemFile(writable, forceGeneric bool) (view *MemView, ok bool) {
	if forceGeneric {
		return nil, false
	}
	if b.pixelStride < 0 || b.lineStride < 0 {
		return nil, false
	}
	if !b.nativeOrder && b.dataType.Size() > 1 {
		return nil, false
	}
	mappable, isMappable := b.file.(vfile.Mappable)
	if !isMappable {
		return nil, false
	}

	span, ok := offsetFor(b.imgOffset, b.pixelStride, b.lineStride, int64(b.width-1), int64(b.height-1))
	if !ok {
		return nil, false
	}
	size := span + int64(b.dataType.Size())

	if err := b.Flush(); err != nil {
		return nil, false
	}

	data, err := mappable.Map(0, size, writable)
	if err != nil {
		return nil, false
	}
	return &MemView{
		Data:       data[b.imgOffset:],
		PixelSpace: int(b.pixelStride),
		LineSpace:  int(b.lineStride),
		unmap:      func() error { return mappable.Unmap(data) },
	}, true
}
