package espa

import (
	"fmt"
	"os"
	"strings"

	"github.com/lsrd/espa-convert/internal/meta"
)

// ENVI data type codes.
var enviDataTypes = map[meta.DataType]int{
	meta.UInt8:   1,
	meta.Int16:   2,
	meta.Int32:   3,
	meta.Float32: 4,
	meta.Float64: 5,
	meta.UInt16:  12,
	meta.UInt32:  13,
}

// WGS84 ellipsoid axes for the user-defined projection lines.
const (
	wgs84SemiMajor = 6378137.0
	wgs84SemiMinor = 6356752.314245
)

// ENVI user-defined projection codes.
const (
	enviProjAlbers = 9
	enviProjPS     = 31
)

// HeaderName derives the header file path for a flat raster file.
func HeaderName(imgPath string) string {
	return strings.TrimSuffix(imgPath, ".img") + ".hdr"
}

// WriteHeader writes the ENVI header describing one flat raster band.
// Corner coordinates in the projection descriptor refer to pixel centers,
// while the ENVI tie point refers to the pixel edge, so the map anchor is
// shifted by half a pixel.
func WriteHeader(path string, b *meta.BandDescriptor, p *meta.ProjectionDescriptor) error {
	code, ok := enviDataTypes[b.DataType]
	if !ok {
		return &meta.DataTypeError{Op: "write ENVI header", DataType: b.DataType}
	}

	mapX := p.ULCorner.X
	mapY := p.ULCorner.Y
	if p.GridOrigin == "CENTER" {
		mapX -= b.PixelSize[0] / 2.0
		mapY += b.PixelSize[1] / 2.0
	}

	var sb strings.Builder
	sb.WriteString("ENVI\n")
	fmt.Fprintf(&sb, "description = {%s}\n", b.LongName)
	fmt.Fprintf(&sb, "samples = %d\n", b.NSamps)
	fmt.Fprintf(&sb, "lines = %d\n", b.NLines)
	sb.WriteString("bands = 1\n")
	sb.WriteString("header offset = 0\n")
	sb.WriteString("file type = ENVI Standard\n")
	fmt.Fprintf(&sb, "data type = %d\n", code)
	sb.WriteString("interleave = bsq\n")
	sb.WriteString("byte order = 0\n")
	if b.FillValue != nil {
		fmt.Fprintf(&sb, "data ignore value = %d\n", *b.FillValue)
	}

	switch p.Type {
	case meta.ProjGeographic:
		fmt.Fprintf(&sb,
			"map info = {Geographic Lat/Lon, 1.0, 1.0, %f, %f, %f, %f, WGS-84, units=Degrees}\n",
			mapX, mapY, b.PixelSize[0], b.PixelSize[1])

	case meta.ProjUTM:
		zone := p.UTMZone
		hemi := "North"
		if zone < 0 {
			zone = -zone
			hemi = "South"
		}
		fmt.Fprintf(&sb,
			"map info = {UTM, 1.0, 1.0, %f, %f, %f, %f, %d, %s, WGS-84, units=Meters}\n",
			mapX, mapY, b.PixelSize[0], b.PixelSize[1], zone, hemi)

	case meta.ProjPS:
		fmt.Fprintf(&sb,
			"map info = {Polar Stereographic, 1.0, 1.0, %f, %f, %f, %f, WGS-84, units=Meters}\n",
			mapX, mapY, b.PixelSize[0], b.PixelSize[1])
		fmt.Fprintf(&sb,
			"projection info = {%d, %f, %f, %f, %f, %f, %f, WGS-84, Polar Stereographic, units=Meters}\n",
			enviProjPS, wgs84SemiMajor, wgs84SemiMinor,
			p.LatitudeTrueScale, p.LongitudePole,
			p.FalseEasting, p.FalseNorthing)

	case meta.ProjAlbers:
		fmt.Fprintf(&sb,
			"map info = {Albers Conical Equal Area, 1.0, 1.0, %f, %f, %f, %f, WGS-84, units=Meters}\n",
			mapX, mapY, b.PixelSize[0], b.PixelSize[1])
		fmt.Fprintf(&sb,
			"projection info = {%d, %f, %f, %f, %f, %f, %f, %f, %f, WGS-84, Albers Conical Equal Area, units=Meters}\n",
			enviProjAlbers, wgs84SemiMajor, wgs84SemiMinor,
			p.OriginLatitude, p.CentralMeridian,
			p.FalseEasting, p.FalseNorthing,
			p.StandardParallel1, p.StandardParallel2)

	default:
		return &meta.ProjectionError{
			Op:  "write ENVI header",
			Err: fmt.Errorf("unsupported projection %s", p.Type),
		}
	}

	fmt.Fprintf(&sb, "band names = {%s}\n", b.Name)

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write ENVI header: %w", err)
	}
	return nil
}
