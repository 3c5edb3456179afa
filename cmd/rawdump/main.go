// rawdump reads a window out of a raw, headerless pixel grid described
// entirely on the command line, and writes the extracted pixels to
// stdout as a contiguous buffer of the requested type.
//
// Usage:
//
//	rawdump [options] <filename>
//
// Options:
//
//	-offset N      byte offset of pixel (0,0) (default 0)
//	-pixel-stride N  bytes between consecutive pixels (required)
//	-line-stride N   bytes between consecutive scanlines (required)
//	-width N       raster width in pixels (required)
//	-height N      raster height in pixels (required)
//	-type T        element type: u8, i8, u16, i16, u32, i32, f32, f64,
//	               c16, c32, c64, c128 (default u8)
//	-swapped       the file's byte order is not the host's
//	-x, -y         window origin (default 0, 0)
//	-w, -hh        window size (default: whole raster)
//	-infer         instead of dumping, print InferLayout's classification
//	               for a dataset with the given geometry and -bands
//	               identical bands band_stride bytes apart
//	-bands N       band count, for -infer (default 1)
//	-band-stride N byte offset between bands, for -infer
//	-h, --help     show this help message
//
// Exit codes:
//
//	0: success
//	2: error (bad arguments, file not found, I/O failure)
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/and-marsh/gdal/rawraster"
	"github.com/and-marsh/gdal/vfile"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "rawdump:", err)
		os.Exit(2)
	}
}

type options struct {
	path        string
	imgOffset   int64
	pixelStride int64
	lineStride  int64
	width       int
	height      int
	dataType    rawraster.DataType
	swapped     bool
	xOff, yOff  int
	winW, winH  int
	infer       bool
	bands       int
	bandStride  int64
}

func run(args []string) error {
	opt := options{dataType: rawraster.U8, bands: 1}
	haveWinW, haveWinH := false, false

	for i := 0; i < len(args); i++ {
		arg := args[i]
		next := func() (string, error) {
			i++
			if i >= len(args) {
				return "", fmt.Errorf("%s requires a value", arg)
			}
			return args[i], nil
		}
		var v string
		var err error
		switch arg {
		case "-h", "--help":
			printUsage()
			os.Exit(0)
		case "-offset":
			if v, err = next(); err != nil {
				return err
			}
			opt.imgOffset, err = strconv.ParseInt(v, 10, 64)
		case "-pixel-stride":
			if v, err = next(); err != nil {
				return err
			}
			opt.pixelStride, err = strconv.ParseInt(v, 10, 64)
		case "-line-stride":
			if v, err = next(); err != nil {
				return err
			}
			opt.lineStride, err = strconv.ParseInt(v, 10, 64)
		case "-width":
			if v, err = next(); err != nil {
				return err
			}
			opt.width, err = strconv.Atoi(v)
		case "-height":
			if v, err = next(); err != nil {
				return err
			}
			opt.height, err = strconv.Atoi(v)
		case "-type":
			if v, err = next(); err != nil {
				return err
			}
			opt.dataType, err = parseDataType(v)
		case "-swapped":
			opt.swapped = true
		case "-x":
			if v, err = next(); err != nil {
				return err
			}
			opt.xOff, err = strconv.Atoi(v)
		case "-y":
			if v, err = next(); err != nil {
				return err
			}
			opt.yOff, err = strconv.Atoi(v)
		case "-w":
			if v, err = next(); err != nil {
				return err
			}
			opt.winW, err = strconv.Atoi(v)
			haveWinW = true
		case "-hh":
			if v, err = next(); err != nil {
				return err
			}
			opt.winH, err = strconv.Atoi(v)
			haveWinH = true
		case "-infer":
			opt.infer = true
		case "-bands":
			if v, err = next(); err != nil {
				return err
			}
			opt.bands, err = strconv.Atoi(v)
		case "-band-stride":
			if v, err = next(); err != nil {
				return err
			}
			opt.bandStride, err = strconv.ParseInt(v, 10, 64)
		default:
			if len(arg) > 0 && arg[0] == '-' {
				return fmt.Errorf("unknown option %q", arg)
			}
			opt.path = arg
		}
		if err != nil {
			return fmt.Errorf("parsing %s: %w", arg, err)
		}
	}

	if opt.path == "" {
		return fmt.Errorf("missing filename")
	}
	if !haveWinW {
		opt.winW = opt.width
	}
	if !haveWinH {
		opt.winH = opt.height
	}

	if opt.infer {
		return runInfer(opt)
	}
	return runDump(opt)
}

func runDump(opt options) error {
	f, err := vfile.Open(opt.path, os.O_RDONLY, 0)
	if err != nil {
		return err
	}

	band, err := rawraster.NewBand(rawraster.BandConfig{
		File:        f,
		OwnsFile:    true,
		ReadOnly:    true,
		ImgOffset:   opt.imgOffset,
		PixelStride: opt.pixelStride,
		LineStride:  opt.lineStride,
		DataType:    opt.dataType,
		NativeOrder: !opt.swapped,
		Width:       opt.width,
		Height:      opt.height,
	})
	if err != nil {
		return err
	}
	defer band.Close()

	dtSize := opt.dataType.Size()
	buf := make([]byte, opt.winW*opt.winH*dtSize)
	win := rawraster.IOWindow{
		XOff: opt.xOff, YOff: opt.yOff,
		XSize: opt.winW, YSize: opt.winH,
		BufXSize: opt.winW, BufYSize: opt.winH,
		BufType: opt.dataType,
	}
	if err := band.IO(rawraster.Read, win, buf, nil); err != nil {
		return err
	}

	_, err = os.Stdout.Write(buf)
	return err
}

func runInfer(opt options) error {
	f, err := vfile.Open(opt.path, os.O_RDONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	ds := rawraster.NewDataset()
	for i := 0; i < opt.bands; i++ {
		band, err := rawraster.NewBand(rawraster.BandConfig{
			File:        f,
			ImgOffset:   opt.imgOffset + opt.bandStride*int64(i),
			PixelStride: opt.pixelStride,
			LineStride:  opt.lineStride,
			DataType:    opt.dataType,
			NativeOrder: !opt.swapped,
			Width:       opt.width,
			Height:      opt.height,
		})
		if err != nil {
			return err
		}
		ds.AddBand(band)
	}

	layout, ok := ds.InferLayout()
	if !ok {
		fmt.Println("UNKNOWN")
		return nil
	}
	fmt.Printf("%s data_type=%s little_endian=%v image_offset=%d pixel_stride=%d line_stride=%d band_stride=%d\n",
		layout.Interleave, layout.DataType, layout.LittleEndian, layout.ImageOffset,
		layout.PixelStride, layout.LineStride, layout.BandStride)
	return nil
}

func parseDataType(s string) (rawraster.DataType, error) {
	switch s {
	case "u8":
		return rawraster.U8, nil
	case "i8":
		return rawraster.I8, nil
	case "u16":
		return rawraster.U16, nil
	case "i16":
		return rawraster.I16, nil
	case "u32":
		return rawraster.U32, nil
	case "i32":
		return rawraster.I32, nil
	case "f32":
		return rawraster.F32, nil
	case "f64":
		return rawraster.F64, nil
	case "c16":
		return rawraster.C16, nil
	case "c32":
		return rawraster.C32, nil
	case "c64":
		return rawraster.C64, nil
	case "c128":
		return rawraster.C128, nil
	default:
		return 0, fmt.Errorf("unrecognized -type %q", s)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: rawdump [options] <filename>

Options:
  -offset N         byte offset of pixel (0,0) (default 0)
  -pixel-stride N   bytes between consecutive pixels (required)
  -line-stride N    bytes between consecutive scanlines (required)
  -width N          raster width in pixels (required)
  -height N         raster height in pixels (required)
  -type T           element type (default u8)
  -swapped          the file's byte order is not the host's
  -x N -y N         window origin (default 0, 0)
  -w N -hh N        window size (default: whole raster)
  -infer            print InferLayout's classification instead of dumping
  -bands N          band count, for -infer
  -band-stride N    byte offset between bands, for -infer
  -h, --help        show this help message`)
}
