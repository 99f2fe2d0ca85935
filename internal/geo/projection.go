package geo

import (
	"fmt"
	"strings"

	"github.com/airbusgeo/godal"

	"github.com/lsrd/espa-convert/internal/meta"
)

// NumProjParams is the length of the fixed projection parameter array
// written into raster metadata. Slot assignment follows the GCTP
// convention for each projection.
const NumProjParams = 15

// Proj4 builds the proj.4 definition string for a projection descriptor.
// A negative UTM zone selects the southern hemisphere.
func Proj4(p meta.ProjectionDescriptor) (string, error) {
	switch p.Type {
	case meta.ProjGeographic:
		return "+proj=longlat +datum=WGS84 +no_defs", nil

	case meta.ProjUTM:
		var b strings.Builder
		zone := p.UTMZone
		if zone < 0 {
			zone = -zone
		}
		fmt.Fprintf(&b, "+proj=utm +zone=%d", zone)
		if p.UTMZone < 0 {
			b.WriteString(" +south")
		}
		b.WriteString(" +datum=WGS84 +units=m +no_defs")
		return b.String(), nil

	case meta.ProjPS:
		lat0 := 90.0
		if p.LatitudeTrueScale < 0 {
			lat0 = -90.0
		}
		return fmt.Sprintf(
			"+proj=stere +lat_0=%g +lat_ts=%g +lon_0=%g +x_0=%g +y_0=%g +datum=WGS84 +units=m +no_defs",
			lat0, p.LatitudeTrueScale, p.LongitudePole,
			p.FalseEasting, p.FalseNorthing), nil

	case meta.ProjAlbers:
		return fmt.Sprintf(
			"+proj=aea +lat_1=%g +lat_2=%g +lat_0=%g +lon_0=%g +x_0=%g +y_0=%g +datum=WGS84 +units=m +no_defs",
			p.StandardParallel1, p.StandardParallel2,
			p.OriginLatitude, p.CentralMeridian,
			p.FalseEasting, p.FalseNorthing), nil
	}

	return "", &meta.UnsupportedValueError{Field: "projection", Value: p.Type.String()}
}

// ProjParams fills the fixed-size GCTP parameter array for a projection.
// Angular slots are packed DMS; false easting/northing stay in meters.
func ProjParams(p meta.ProjectionDescriptor) [NumProjParams]float64 {
	var params [NumProjParams]float64
	switch p.Type {
	case meta.ProjAlbers:
		params[2] = DegToDMS(p.StandardParallel1)
		params[3] = DegToDMS(p.StandardParallel2)
		params[4] = DegToDMS(p.CentralMeridian)
		params[5] = DegToDMS(p.OriginLatitude)
		params[6] = p.FalseEasting
		params[7] = p.FalseNorthing
	case meta.ProjPS:
		params[4] = DegToDMS(p.LongitudePole)
		params[5] = DegToDMS(p.LatitudeTrueScale)
		params[6] = p.FalseEasting
		params[7] = p.FalseNorthing
	}
	return params
}

// SpatialRef builds a godal spatial reference for a projection descriptor.
// The caller owns the returned reference and must Close it.
func SpatialRef(p meta.ProjectionDescriptor) (*godal.SpatialRef, error) {
	proj4, err := Proj4(p)
	if err != nil {
		return nil, err
	}
	sr, err := godal.NewSpatialRefFromProj4(proj4)
	if err != nil {
		return nil, &meta.ProjectionError{Op: "create spatial reference", Err: err}
	}
	return sr, nil
}
