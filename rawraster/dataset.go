package rawraster

import "fmt"

// Dataset is an ordered collection of bands that may share files, plus a
// small string metadata map (an "INTERLEAVE" key among others).
type Dataset struct {
	bands    []*Band
	metadata map[string]string
}

// NewDataset creates an empty Dataset.
func NewDataset() *Dataset {
	return &Dataset{metadata: make(map[string]string)}
}

// AddBand appends b to the dataset. If b shares its file handle with a
// band already in the dataset and that band owns the handle, b's
// ownership is cleared so exactly one band (or the dataset itself, via
// Close) ever closes the handle.
func (d *Dataset) AddBand(b *Band) {
	if b.ownsFile {
		for _, existing := range d.bands {
			if existing.file == b.file && existing.ownsFile {
				b.ownsFile = false
				break
			}
		}
	}
	d.bands = append(d.bands, b)
}

// Bands returns the dataset's bands in order.
func (d *Dataset) Bands() []*Band { return d.bands }

// SetMetadata sets a metadata key, e.g. "INTERLEAVE" or "ENVI".
func (d *Dataset) SetMetadata(key, value string) { d.metadata[key] = value }

// Metadata returns a metadata value and whether it was set.
func (d *Dataset) Metadata(key string) (string, bool) {
	v, ok := d.metadata[key]
	return v, ok
}

// Close flushes and closes every band, in order, returning the first
// error encountered.
func (d *Dataset) Close() error {
	var first error
	for _, b := range d.bands {
		if err := b.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// DatasetIOWindow is an IOWindow plus the caller's byte stride between
// bands in a multi-band buffer.
type DatasetIOWindow struct {
	IOWindow
	BandSpace int
}

// IO dispatches a multi-band windowed request. When the window isn't
// resampled, more than one band is requested, the dataset's declared
// INTERLEAVE metadata is "PIXEL", and every involved band's own
// CanUseDirectIO agrees, each band's direct-I/O path writes straight into
// its slice of buf at bandIndex*BandSpace. Otherwise every band falls
// back to the generic per-scanline block-cache path.
func (d *Dataset) IO(rw RWFlag, w DatasetIOWindow, buf []byte, bandIndices []int, resample ResampleAlg, progress ProgressFunc) error {
	if len(bandIndices) == 0 {
		bandIndices = make([]int, len(d.bands))
		for i := range d.bands {
			bandIndices[i] = i
		}
	}
	bands := make([]*Band, len(bandIndices))
	for i, bi := range bandIndices {
		if bi < 0 || bi >= len(d.bands) {
			return &ConfigError{Msg: fmt.Sprintf("band index %d out of range", bi)}
		}
		bands[i] = d.bands[bi]
	}

	bandSpace := w.BandSpace
	if bandSpace == 0 {
		pixelSpace := w.PixelSpace
		if pixelSpace == 0 {
			pixelSpace = w.BufType.Size()
		}
		lineSpace := w.LineSpace
		if lineSpace == 0 {
			lineSpace = pixelSpace * w.BufXSize
		}
		bandSpace = lineSpace * w.BufYSize
	}

	interleave, _ := d.Metadata("INTERLEAVE")
	canDirect := w.XSize == w.BufXSize && w.YSize == w.BufYSize && len(bands) > 1 && interleave == "PIXEL"
	if canDirect {
		for _, b := range bands {
			if !b.CanUseDirectIO(w.XSize, resample) {
				canDirect = false
				break
			}
		}
	}

	if canDirect {
		n := len(bands)
		for i, b := range bands {
			sub := buf[i*bandSpace:]
			scaled := scaledProgress(progress, float64(i)/float64(n), float64(i+1)/float64(n))
			if err := b.IO(rw, w.IOWindow, sub, scaled); err != nil {
				return err
			}
		}
		return nil
	}

	return d.ioGeneric(rw, w, buf, bands, bandSpace, progress)
}

func (d *Dataset) ioGeneric(rw RWFlag, w DatasetIOWindow, buf []byte, bands []*Band, bandSpace int, progress ProgressFunc) error {
	pixelSpace := w.PixelSpace
	if pixelSpace == 0 {
		pixelSpace = w.BufType.Size()
	}
	lineSpace := w.LineSpace
	if lineSpace == 0 {
		lineSpace = pixelSpace * w.BufXSize
	}

	n := len(bands)
	for bi, b := range bands {
		sub := buf[bi*bandSpace:]
		dtSize := b.dataType.Size()

		for iLine := 0; iLine < w.BufYSize; iLine++ {
			srcY := w.YOff + iLine*w.YSize/w.BufYSize
			row := sub[iLine*lineSpace:]

			line, err := b.cache.Get(srcY)
			if err != nil {
				return err
			}

			if rw == Read {
				for iPixel := 0; iPixel < w.BufXSize; iPixel++ {
					srcX := w.XOff + iPixel*w.XSize/w.BufXSize
					so := srcX * dtSize
					do := iPixel * pixelSpace
					convertElem(line[so:so+dtSize], b.dataType, row[do:do+w.BufType.Size()], w.BufType)
				}
			} else {
				for iPixel := 0; iPixel < w.BufXSize; iPixel++ {
					srcX := w.XOff + iPixel*w.XSize/w.BufXSize
					do := srcX * dtSize
					so := iPixel * pixelSpace
					convertElem(row[so:so+w.BufType.Size()], w.BufType, line[do:do+dtSize], b.dataType)
				}
				b.cache.MarkDirty(srcY)
			}

			if progress != nil {
				frac := (float64(bi) + float64(iLine+1)/float64(w.BufYSize)) / float64(n)
				if !progress(frac, "") {
					return ErrCancelled
				}
			}
		}

		if rw == Write {
			if err := b.cache.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

// InferLayout classifies how the dataset's bands share one file. It
// returns ok=false ("unknown") when the bands don't share
// (pixel_stride, line_stride, native_order, data_type), or when their
// img_offsets aren't evenly spaced.
func (d *Dataset) InferLayout() (RawLayout, bool) {
	if len(d.bands) == 0 {
		return RawLayout{}, false
	}
	first := d.bands[0]
	for _, b := range d.bands[1:] {
		if b.pixelStride != first.pixelStride || b.lineStride != first.lineStride ||
			b.nativeOrder != first.nativeOrder || b.dataType != first.dataType {
			return RawLayout{}, false
		}
	}

	nBands := len(d.bands)
	var bandStride int64
	if nBands > 1 {
		bandStride = d.bands[1].imgOffset - first.imgOffset
		for i, b := range d.bands {
			if b.imgOffset != first.imgOffset+bandStride*int64(i) {
				return RawLayout{}, false
			}
		}
	}

	dtSize := int64(first.dataType.Size())
	width := int64(first.width)
	height := int64(first.height)

	layout := LayoutUnknown
	switch {
	case nBands > 1 && first.pixelStride == dtSize*int64(nBands) && first.lineStride == first.pixelStride*width && bandStride == dtSize:
		layout = LayoutBIP
	case nBands > 1 && first.pixelStride == dtSize && first.lineStride == dtSize*int64(nBands)*width && bandStride == dtSize*width:
		layout = LayoutBIL
	case first.pixelStride == dtSize && first.lineStride == dtSize*width && (nBands == 1 || bandStride == first.lineStride*height):
		layout = LayoutBSQ
	}

	return RawLayout{
		DataType:     first.dataType,
		LittleEndian: isLittleEndianOnDisk(first.nativeOrder),
		ImageOffset:  first.imgOffset,
		PixelStride:  first.pixelStride,
		LineStride:   first.lineStride,
		BandStride:   bandStride,
		Interleave:   layout,
	}, true
}

func isLittleEndianOnDisk(nativeOrder bool) bool {
	hostLittle := hostIsLittleEndian()
	if nativeOrder {
		return hostLittle
	}
	return !hostLittle
}
