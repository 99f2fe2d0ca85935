// Package browse renders a grayscale quicklook image for a converted
// scene band.
package browse

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"github.com/lsrd/espa-convert/internal/espa"
	"github.com/lsrd/espa-convert/internal/meta"
)

// maxBrowseDim caps the quicklook edge length; larger rasters are
// decimated by integer striding.
const maxBrowseDim = 1024

// CreateBrowseImage renders one band of a converted scene as a PNG with a
// linear contrast stretch. An empty band name selects the first image
// band.
func CreateBrowseImage(xmlFile, bandName, outputPath string) error {
	scene, err := espa.ReadMetadata(xmlFile)
	if err != nil {
		return err
	}

	b, err := selectBand(scene, bandName)
	if err != nil {
		return err
	}

	imgFile := filepath.Join(filepath.Dir(xmlFile), b.FileName)
	raw, err := espa.ReadRawFile(imgFile, b)
	if err != nil {
		return err
	}
	vals, err := decodePixels(raw, b.DataType)
	if err != nil {
		return err
	}

	var fill *float64
	if b.FillValue != nil {
		f := float64(*b.FillValue)
		fill = &f
	}
	lo, hi, ok := stretchRange(vals, fill)
	if !ok {
		return fmt.Errorf("band %s has no valid pixels", b.Name)
	}

	stride := 1
	for b.NSamps/stride > maxBrowseDim || b.NLines/stride > maxBrowseDim {
		stride++
	}
	width := (b.NSamps + stride - 1) / stride
	height := (b.NLines + stride - 1) / stride

	ctx := gg.NewContext(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := vals[(y*stride)*b.NSamps+x*stride]
			if fill != nil && v == *fill {
				ctx.SetRGB(0, 0, 0)
			} else {
				g := (v - lo) / (hi - lo)
				ctx.SetRGB(g, g, g)
			}
			ctx.SetPixel(x, y)
		}
	}

	if !strings.HasSuffix(outputPath, ".png") {
		outputPath += ".png"
	}
	if err := ctx.SavePNG(outputPath); err != nil {
		return fmt.Errorf("failed to write browse image: %w", err)
	}
	return nil
}

func selectBand(scene *meta.SceneMetadata, name string) (*meta.BandDescriptor, error) {
	for i := range scene.Bands {
		b := &scene.Bands[i]
		if name == "" && b.Category == meta.CategoryImage {
			return b, nil
		}
		if b.Name == name {
			return b, nil
		}
	}
	return nil, &meta.NotFoundError{ID: name}
}

// decodePixels widens the little-endian raw buffer to float64 samples.
func decodePixels(raw []byte, dt meta.DataType) ([]float64, error) {
	size := dt.Size()
	if size == 0 {
		return nil, &meta.DataTypeError{Op: "decode pixels", DataType: dt}
	}
	n := len(raw) / size
	vals := make([]float64, n)

	switch dt {
	case meta.UInt8:
		for i := range vals {
			vals[i] = float64(raw[i])
		}
	case meta.Int16:
		for i := range vals {
			vals[i] = float64(int16(binary.LittleEndian.Uint16(raw[2*i:])))
		}
	case meta.UInt16:
		for i := range vals {
			vals[i] = float64(binary.LittleEndian.Uint16(raw[2*i:]))
		}
	case meta.Int32:
		for i := range vals {
			vals[i] = float64(int32(binary.LittleEndian.Uint32(raw[4*i:])))
		}
	case meta.UInt32:
		for i := range vals {
			vals[i] = float64(binary.LittleEndian.Uint32(raw[4*i:]))
		}
	case meta.Float32:
		for i := range vals {
			vals[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:])))
		}
	case meta.Float64:
		for i := range vals {
			vals[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
		}
	default:
		return nil, &meta.DataTypeError{Op: "decode pixels", DataType: dt}
	}
	return vals, nil
}

// stretchRange finds the min and max of the non-fill pixels.
func stretchRange(vals []float64, fill *float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		if fill != nil && v == *fill {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo > hi {
		return 0, 0, false
	}
	if lo == hi {
		hi = lo + 1
	}
	return lo, hi, true
}
