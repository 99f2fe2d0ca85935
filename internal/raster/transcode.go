// Package raster converts band rasters between GeoTIFF and the flat raw
// binary layout, using GDAL through godal for the georeferenced side.
package raster

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/airbusgeo/godal"

	"github.com/lsrd/espa-convert/internal/espa"
	"github.com/lsrd/espa-convert/internal/geo"
	"github.com/lsrd/espa-convert/internal/meta"
)

// godalTypes maps the metadata data types onto GDAL band types.
var godalTypes = map[meta.DataType]godal.DataType{
	meta.UInt8:   godal.Byte,
	meta.Int16:   godal.Int16,
	meta.UInt16:  godal.UInt16,
	meta.Int32:   godal.Int32,
	meta.UInt32:  godal.UInt32,
	meta.Float32: godal.Float32,
	meta.Float64: godal.Float64,
}

// OutputName builds the per-band output file name from the scene base
// name and the band name. Spaces in band names become underscores.
func OutputName(base, bandName, ext string) string {
	return fmt.Sprintf("%s_%s%s", base, strings.ReplaceAll(bandName, " ", "_"), ext)
}

// GtifToImg reads one band's GeoTIFF and writes the flat raw binary file
// plus its ENVI header. Only the Level-1 integer types are handled; other
// types fail with a DataTypeError.
func GtifToImg(gtifFile, imgFile string, b *meta.BandDescriptor, p *meta.ProjectionDescriptor) error {
	ds, err := godal.Open(gtifFile)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", gtifFile, err)
	}
	defer ds.Close()

	st := ds.Structure()
	if st.SizeX != b.NSamps || st.SizeY != b.NLines {
		return fmt.Errorf("raster %s is %dx%d, metadata declares %dx%d",
			gtifFile, st.SizeX, st.SizeY, b.NSamps, b.NLines)
	}
	bands := ds.Bands()
	if len(bands) == 0 {
		return fmt.Errorf("no raster bands in %s", gtifFile)
	}
	band := bands[0]

	data, err := readScanlines(&band, b)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", gtifFile, err)
	}

	if err := espa.WriteRawFile(imgFile, data); err != nil {
		return err
	}
	return espa.WriteHeader(espa.HeaderName(imgFile), b, p)
}

// readScanlines reads the band line by line into a full-image
// little-endian buffer.
func readScanlines(band *godal.Band, b *meta.BandDescriptor) ([]byte, error) {
	nsamps, nlines := b.NSamps, b.NLines

	switch b.DataType {
	case meta.UInt8:
		buf := make([]byte, nlines*nsamps)
		for line := 0; line < nlines; line++ {
			if err := band.Read(0, line, buf[line*nsamps:(line+1)*nsamps], nsamps, 1); err != nil {
				return nil, err
			}
		}
		return buf, nil

	case meta.Int16:
		buf := make([]int16, nlines*nsamps)
		for line := 0; line < nlines; line++ {
			if err := band.Read(0, line, buf[line*nsamps:(line+1)*nsamps], nsamps, 1); err != nil {
				return nil, err
			}
		}
		out := make([]byte, 2*len(buf))
		for i, v := range buf {
			binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
		}
		return out, nil

	case meta.UInt16:
		buf := make([]uint16, nlines*nsamps)
		for line := 0; line < nlines; line++ {
			if err := band.Read(0, line, buf[line*nsamps:(line+1)*nsamps], nsamps, 1); err != nil {
				return nil, err
			}
		}
		out := make([]byte, 2*len(buf))
		for i, v := range buf {
			binary.LittleEndian.PutUint16(out[2*i:], v)
		}
		return out, nil
	}

	return nil, &meta.DataTypeError{Op: "read GeoTIFF", DataType: b.DataType}
}

// ImgToGtif writes one band's flat raw binary file out as a georeferenced
// GeoTIFF. The projection must be WGS84 based; anything else is left to
// the subprocess fallback path.
func ImgToGtif(imgFile, gtifFile string, b *meta.BandDescriptor, p *meta.ProjectionDescriptor) error {
	if !p.WGS84Based() {
		return &meta.ProjectionError{
			Op:  "create GeoTIFF",
			Err: fmt.Errorf("unsupported datum %q", p.Datum),
		}
	}
	dtype, ok := godalTypes[b.DataType]
	if !ok {
		return &meta.DataTypeError{Op: "create GeoTIFF", DataType: b.DataType}
	}

	raw, err := espa.ReadRawFile(imgFile, b)
	if err != nil {
		return err
	}

	ds, err := godal.Create(godal.GTiff, gtifFile, 1, dtype, b.NSamps, b.NLines)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", gtifFile, err)
	}
	defer ds.Close()

	if err := ds.SetGeoTransform(geoTransform(b, p)); err != nil {
		return fmt.Errorf("failed to set geotransform: %w", err)
	}
	sr, err := geo.SpatialRef(*p)
	if err != nil {
		return err
	}
	defer sr.Close()
	if err := ds.SetSpatialRef(sr); err != nil {
		return fmt.Errorf("failed to set spatial reference: %w", err)
	}
	if err := setCornerMetadata(ds, p); err != nil {
		return err
	}

	band := ds.Bands()[0]
	if b.FillValue != nil {
		if err := band.SetNoData(float64(*b.FillValue)); err != nil {
			return fmt.Errorf("failed to set nodata value: %w", err)
		}
	}

	if err := writePlane(&band, raw, b); err != nil {
		return fmt.Errorf("failed to write %s: %w", gtifFile, err)
	}
	return nil
}

// geoTransform builds the affine transform for a band. Corner coordinates
// refer to pixel centers, the transform anchor to the pixel edge.
func geoTransform(b *meta.BandDescriptor, p *meta.ProjectionDescriptor) [6]float64 {
	ulx := p.ULCorner.X
	uly := p.ULCorner.Y
	if p.GridOrigin == "CENTER" {
		ulx -= b.PixelSize[0] / 2.0
		uly += b.PixelSize[1] / 2.0
	}
	return [6]float64{ulx, b.PixelSize[0], 0, uly, 0, -b.PixelSize[1]}
}

// setCornerMetadata records the projected corner coordinates and the
// projection parameter array as dataset metadata. Only the UL and LR
// corners are authoritative; UR and LL are their axis-aligned
// combinations.
func setCornerMetadata(ds *godal.Dataset, p *meta.ProjectionDescriptor) error {
	corners := map[string]meta.ProjCorner{
		"CORNER_UL": p.ULCorner,
		"CORNER_LR": p.LRCorner,
		"CORNER_UR": {X: p.LRCorner.X, Y: p.ULCorner.Y},
		"CORNER_LL": {X: p.ULCorner.X, Y: p.LRCorner.Y},
	}
	for key, c := range corners {
		if err := ds.SetMetadata(key, fmt.Sprintf("%f,%f", c.X, c.Y)); err != nil {
			return fmt.Errorf("failed to set corner metadata: %w", err)
		}
	}

	params := geo.ProjParams(*p)
	vals := make([]string, len(params))
	for i, v := range params {
		vals[i] = fmt.Sprintf("%g", v)
	}
	if err := ds.SetMetadata("PROJECTION_PARAMETERS", strings.Join(vals, ",")); err != nil {
		return fmt.Errorf("failed to set projection metadata: %w", err)
	}
	return nil
}

// writePlane decodes the little-endian raw buffer into the band's element
// type and writes the whole plane.
func writePlane(band *godal.Band, raw []byte, b *meta.BandDescriptor) error {
	nsamps, nlines := b.NSamps, b.NLines
	n := nlines * nsamps

	switch b.DataType {
	case meta.UInt8:
		return band.Write(0, 0, raw, nsamps, nlines)
	case meta.Int16:
		buf := make([]int16, n)
		for i := range buf {
			buf[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
		}
		return band.Write(0, 0, buf, nsamps, nlines)
	case meta.UInt16:
		buf := make([]uint16, n)
		for i := range buf {
			buf[i] = binary.LittleEndian.Uint16(raw[2*i:])
		}
		return band.Write(0, 0, buf, nsamps, nlines)
	case meta.Int32:
		buf := make([]int32, n)
		for i := range buf {
			buf[i] = int32(binary.LittleEndian.Uint32(raw[4*i:]))
		}
		return band.Write(0, 0, buf, nsamps, nlines)
	case meta.UInt32:
		buf := make([]uint32, n)
		for i := range buf {
			buf[i] = binary.LittleEndian.Uint32(raw[4*i:])
		}
		return band.Write(0, 0, buf, nsamps, nlines)
	case meta.Float32:
		buf := make([]float32, n)
		for i := range buf {
			buf[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
		}
		return band.Write(0, 0, buf, nsamps, nlines)
	case meta.Float64:
		buf := make([]float64, n)
		for i := range buf {
			buf[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
		}
		return band.Write(0, 0, buf, nsamps, nlines)
	}
	return &meta.DataTypeError{Op: "write GeoTIFF", DataType: b.DataType}
}
