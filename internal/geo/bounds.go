package geo

import (
	"errors"

	"github.com/airbusgeo/godal"
	"github.com/paulmach/orb"

	"github.com/lsrd/espa-convert/internal/meta"
)

var errEmptyGrid = errors.New("empty raster grid")

// edgeCoords collects the projected pixel-center coordinates of the four
// raster edges. Corner coordinates alone are not enough: ascending and
// polar scenes can be rotated so that the geographic extremes fall on an
// edge midpoint.
func edgeCoords(p meta.ProjectionDescriptor, nlines, nsamps int, pixel [2]float64) ([]float64, []float64) {
	xs := make([]float64, 0, 2*(nlines+nsamps))
	ys := make([]float64, 0, 2*(nlines+nsamps))

	at := func(line, samp int) {
		xs = append(xs, p.ULCorner.X+float64(samp)*pixel[0])
		ys = append(ys, p.ULCorner.Y-float64(line)*pixel[1])
	}

	for samp := 0; samp < nsamps; samp++ {
		at(0, samp)
		at(nlines-1, samp)
	}
	for line := 1; line < nlines-1; line++ {
		at(line, 0)
		at(line, nsamps-1)
	}
	return xs, ys
}

// ComputeBounds resolves the geographic bounding box of a raster grid by
// reprojecting every edge pixel center to WGS84 geographic coordinates.
func ComputeBounds(p meta.ProjectionDescriptor, nlines, nsamps int, pixel [2]float64) (meta.BoundingBox, error) {
	if nlines <= 0 || nsamps <= 0 {
		return meta.BoundingBox{}, &meta.ProjectionError{
			Op:  "compute bounds",
			Err: errEmptyGrid,
		}
	}

	xs, ys := edgeCoords(p, nlines, nsamps, pixel)

	if p.Type != meta.ProjGeographic {
		srcSR, err := SpatialRef(p)
		if err != nil {
			return meta.BoundingBox{}, err
		}
		defer srcSR.Close()
		dstSR, err := godal.NewSpatialRefFromEPSG(4326)
		if err != nil {
			return meta.BoundingBox{}, &meta.ProjectionError{Op: "create WGS84 reference", Err: err}
		}
		defer dstSR.Close()
		tr, err := godal.NewTransform(srcSR, dstSR)
		if err != nil {
			return meta.BoundingBox{}, &meta.ProjectionError{Op: "create transform", Err: err}
		}
		defer tr.Close()

		if err := tr.TransformEx(xs, ys, nil, nil); err != nil {
			return meta.BoundingBox{}, &meta.ProjectionError{Op: "transform edge coordinates", Err: err}
		}
	}

	bound := orb.Bound{
		Min: orb.Point{xs[0], ys[0]},
		Max: orb.Point{xs[0], ys[0]},
	}
	for i := 1; i < len(xs); i++ {
		bound = bound.Extend(orb.Point{xs[i], ys[i]})
	}

	return meta.BoundingBox{
		West:  bound.Min[0],
		East:  bound.Max[0],
		North: bound.Max[1],
		South: bound.Min[1],
	}, nil
}
