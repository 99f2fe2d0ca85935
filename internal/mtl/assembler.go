package mtl

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/lsrd/espa-convert/internal/geo"
	"github.com/lsrd/espa-convert/internal/meta"
)

// assembler threads the parse state while the record stream is consumed.
type assembler struct {
	scene   meta.SceneMetadata
	catalog *Catalog

	params    FinalizeParams
	haveSat   bool
	datumSeen bool
}

// ReadMTL reads the vendor MTL metadata file and assembles the canonical
// scene metadata, including the geographic bounding box. The returned
// string slice holds the source band filenames, index-aligned with the
// scene's bands, with the MTL file's directory prepended.
func ReadMTL(mtlFile string) (*meta.SceneMetadata, []string, error) {
	f, err := os.Open(mtlFile)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := ScanRecords(f)
	if err != nil {
		return nil, nil, err
	}

	a := &assembler{catalog: NewCatalog()}
	a.scene.LPGSMetadataFile = mtlFile

	for _, rec := range records {
		if err := a.apply(rec); err != nil {
			return nil, nil, err
		}
	}

	scene, sources, err := a.finish()
	if err != nil {
		return nil, nil, err
	}

	// Band files live next to the metadata file.
	if dir := filepath.Dir(mtlFile); dir != "." {
		for i, src := range sources {
			sources[i] = filepath.Join(dir, src)
		}
	}
	return scene, sources, nil
}

// apply routes one record to the matching scene or catalog field.
// Unrecognized group/label combinations are silently skipped.
func (a *assembler) apply(rec Record) error {
	switch rec.Group {
	case "LEVEL1_PROCESSING_RECORD":
		switch rec.Label {
		case "PROCESSING_SOFTWARE_VERSION":
			a.params.AppVersion = rec.Value
		case "DATE_PRODUCT_GENERATED":
			a.scene.Level1ProductionDate = rec.Value
		}

	case "IMAGE_ATTRIBUTES":
		return a.applyImageAttribute(rec)

	case "PROJECTION_ATTRIBUTES":
		return a.applyProjectionAttribute(rec)

	case "LEVEL1_PROJECTION_PARAMETERS":
		if rec.Label == "RESAMPLING_OPTION" {
			m, err := meta.ParseResampleMethod(rec.Value)
			if err != nil {
				return err
			}
			a.params.Resample = m
		}

	case "PRODUCT_CONTENTS":
		switch {
		case strings.HasPrefix(rec.Label, "FILE_NAME_"):
			a.catalog.AddFile(strings.TrimPrefix(rec.Label, "FILE_NAME_"), rec.Value)
		case strings.HasPrefix(rec.Label, "DATA_TYPE_"):
			return a.catalog.SetDataType(strings.TrimPrefix(rec.Label, "DATA_TYPE_"), rec.Value)
		case rec.Label == "LANDSAT_PRODUCT_ID":
			a.scene.ProductID = rec.Value
		case rec.Label == "PROCESSING_LEVEL":
			a.params.ProductLevel = rec.Value
		}

	case "LEVEL1_MIN_MAX_PIXEL_VALUE":
		switch {
		case strings.HasPrefix(rec.Label, "QUANTIZE_CAL_MIN_"):
			v, err := parseFloat(rec)
			if err != nil {
				return err
			}
			return a.catalog.SetCalMin(strings.TrimPrefix(rec.Label, "QUANTIZE_CAL_MIN_"), v)
		case strings.HasPrefix(rec.Label, "QUANTIZE_CAL_MAX_"):
			v, err := parseFloat(rec)
			if err != nil {
				return err
			}
			return a.catalog.SetCalMax(strings.TrimPrefix(rec.Label, "QUANTIZE_CAL_MAX_"), v)
		}

	case "LEVEL1_RADIOMETRIC_RESCALING":
		return a.applyRescaling(rec)

	case "LEVEL1_TIRS_THERMAL_CONSTANTS", "LEVEL1_THERMAL_CONSTANTS":
		switch {
		case strings.HasPrefix(rec.Label, "K1_CONSTANT_"):
			v, err := parseFloat(rec)
			if err != nil {
				return err
			}
			return a.catalog.SetThermalConst(strings.TrimPrefix(rec.Label, "K1_CONSTANT_"), 1, v)
		case strings.HasPrefix(rec.Label, "K2_CONSTANT_"):
			v, err := parseFloat(rec)
			if err != nil {
				return err
			}
			return a.catalog.SetThermalConst(strings.TrimPrefix(rec.Label, "K2_CONSTANT_"), 2, v)
		}
	}
	return nil
}

func (a *assembler) applyImageAttribute(rec Record) error {
	var err error
	switch rec.Label {
	case "SPACECRAFT_ID":
		a.scene.Satellite, err = meta.ParseSatellite(rec.Value)
		a.haveSat = err == nil
		return err
	case "SENSOR_ID":
		a.scene.Instrument = meta.Instrument(rec.Value)
	case "DATE_ACQUIRED":
		a.scene.AcquisitionDate = rec.Value
	case "SCENE_CENTER_TIME":
		a.scene.SceneCenterTime = rec.Value
	case "SUN_ELEVATION":
		v, err := parseFloat(rec)
		if err != nil {
			return err
		}
		a.scene.SolarZenith = 90.0 - v
	case "SUN_AZIMUTH":
		a.scene.SolarAzimuth, err = parseFloat(rec)
		return err
	case "EARTH_SUN_DISTANCE":
		a.scene.EarthSunDistance, err = parseFloat(rec)
		return err
	case "WRS_PATH":
		a.scene.WRSPath, err = parseInt(rec)
		return err
	case "WRS_ROW":
		a.scene.WRSRow, err = parseInt(rec)
		return err
	}
	return nil
}

func (a *assembler) applyProjectionAttribute(rec Record) error {
	p := &a.scene.Projection
	var err error
	switch rec.Label {
	case "MAP_PROJECTION":
		p.Type, err = meta.ParseProjection(rec.Value)
		return err
	case "DATUM":
		if rec.Value != string(meta.DatumWGS84) {
			return &meta.UnsupportedValueError{Field: "DATUM", Value: rec.Value}
		}
		p.Datum = meta.DatumWGS84
		a.datumSeen = true
	case "UTM_ZONE":
		p.UTMZone, err = parseInt(rec)
		return err

	case "GRID_CELL_SIZE_REFLECTIVE":
		return a.setPixelSize(&a.params.Reflective, rec)
	case "GRID_CELL_SIZE_THERMAL":
		return a.setPixelSize(&a.params.Thermal, rec)
	case "GRID_CELL_SIZE_PANCHROMATIC":
		return a.setPixelSize(&a.params.Pan, rec)
	case "REFLECTIVE_SAMPLES":
		a.params.Reflective.NSamps, err = parseInt(rec)
		return err
	case "REFLECTIVE_LINES":
		a.params.Reflective.NLines, err = parseInt(rec)
		return err
	case "THERMAL_SAMPLES":
		a.params.Thermal.NSamps, err = parseInt(rec)
		return err
	case "THERMAL_LINES":
		a.params.Thermal.NLines, err = parseInt(rec)
		return err
	case "PANCHROMATIC_SAMPLES":
		a.params.Pan.NSamps, err = parseInt(rec)
		return err
	case "PANCHROMATIC_LINES":
		a.params.Pan.NLines, err = parseInt(rec)
		return err

	// Polar Stereographic parameters.
	case "VERTICAL_LON_FROM_POLE":
		p.LongitudePole, err = parseFloat(rec)
		return err
	case "TRUE_SCALE_LAT":
		p.LatitudeTrueScale, err = parseFloat(rec)
		return err
	case "FALSE_EASTING":
		p.FalseEasting, err = parseFloat(rec)
		return err
	case "FALSE_NORTHING":
		p.FalseNorthing, err = parseFloat(rec)
		return err

	// Albers parameters (false easting/northing shared above).
	case "STANDARD_PARALLEL_1_LAT":
		p.StandardParallel1, err = parseFloat(rec)
		return err
	case "STANDARD_PARALLEL_2_LAT":
		p.StandardParallel2, err = parseFloat(rec)
		return err
	case "CENTRAL_MERIDIAN_LON":
		p.CentralMeridian, err = parseFloat(rec)
		return err
	case "ORIGIN_LAT":
		p.OriginLatitude, err = parseFloat(rec)
		return err

	case "CORNER_UL_LAT_PRODUCT":
		a.scene.ULCorner.Latitude, err = parseFloat(rec)
		return err
	case "CORNER_UL_LON_PRODUCT":
		a.scene.ULCorner.Longitude, err = parseFloat(rec)
		return err
	case "CORNER_LR_LAT_PRODUCT":
		a.scene.LRCorner.Latitude, err = parseFloat(rec)
		return err
	case "CORNER_LR_LON_PRODUCT":
		a.scene.LRCorner.Longitude, err = parseFloat(rec)
		return err

	case "CORNER_UL_PROJECTION_X_PRODUCT":
		p.ULCorner.X, err = parseFloat(rec)
		return err
	case "CORNER_UL_PROJECTION_Y_PRODUCT":
		p.ULCorner.Y, err = parseFloat(rec)
		return err
	case "CORNER_LR_PROJECTION_X_PRODUCT":
		p.LRCorner.X, err = parseFloat(rec)
		return err
	case "CORNER_LR_PROJECTION_Y_PRODUCT":
		p.LRCorner.Y, err = parseFloat(rec)
		return err
	}
	return nil
}

func (a *assembler) applyRescaling(rec Record) error {
	apply := func(prefix string, fn func(id string, gain bool, v float64) error, gain bool) (bool, error) {
		if !strings.HasPrefix(rec.Label, prefix) {
			return false, nil
		}
		v, err := parseFloat(rec)
		if err != nil {
			return true, err
		}
		return true, fn(strings.TrimPrefix(rec.Label, prefix), gain, v)
	}

	if ok, err := apply("RADIANCE_MULT_", a.catalog.SetRadiance, true); ok {
		a.params.GainBiasAvailable = a.params.GainBiasAvailable || err == nil
		return err
	}
	if ok, err := apply("RADIANCE_ADD_", a.catalog.SetRadiance, false); ok {
		return err
	}
	if ok, err := apply("REFLECTANCE_MULT_", a.catalog.SetReflectance, true); ok {
		a.params.ReflGainBiasAvailable = a.params.ReflGainBiasAvailable || err == nil
		return err
	}
	if ok, err := apply("REFLECTANCE_ADD_", a.catalog.SetReflectance, false); ok {
		return err
	}
	return nil
}

// finish validates the scene, applies the derived constants and resolves
// the band catalog and bounding box.
func (a *assembler) finish() (*meta.SceneMetadata, []string, error) {
	s := &a.scene

	if !a.haveSat {
		return nil, nil, &meta.UnsupportedValueError{Field: "SPACECRAFT_ID", Value: ""}
	}
	if err := meta.ValidatePairing(s.Satellite, s.Instrument); err != nil {
		return nil, nil, err
	}
	if !a.datumSeen {
		return nil, nil, &meta.UnsupportedValueError{Field: "DATUM", Value: ""}
	}
	switch s.Projection.Type {
	case meta.ProjGeographic, meta.ProjUTM, meta.ProjAlbers, meta.ProjPS:
	default:
		return nil, nil, &meta.UnsupportedValueError{Field: "MAP_PROJECTION", Value: s.Projection.Type.String()}
	}

	// Fixed values the vendor metadata does not carry. The pixel-center
	// grid origin is relied on by raster georeferencing downstream.
	s.WRSSystem = 2
	s.OrientationAngle = 0.0
	s.DataProvider = "USGS/EROS"
	s.SolarUnits = "degrees"
	s.Projection.Units = "meters"
	s.Projection.GridOrigin = "CENTER"

	a.params.Satellite = s.Satellite
	a.params.Instrument = s.Instrument
	a.params.ProductID = s.ProductID
	a.params.ProductionDate = s.Level1ProductionDate

	bands, sources, err := a.catalog.Finalize(a.params)
	if err != nil {
		return nil, nil, err
	}
	s.Bands = bands

	// Geographic bounds from the reflective grid. Ascending and polar
	// scenes may be flipped, so the resolver samples actual extremes.
	bounds, err := geo.ComputeBounds(s.Projection,
		a.params.Reflective.NLines, a.params.Reflective.NSamps,
		a.params.Reflective.PixelSize)
	if err != nil {
		return nil, nil, err
	}
	s.Bounds = bounds

	return s, sources, nil
}

func (a *assembler) setPixelSize(shape *GridShape, rec Record) error {
	v, err := parseFloat(rec)
	if err != nil {
		return err
	}
	shape.PixelSize = [2]float64{v, v}
	return nil
}

// ExcludeBands removes the named bands from the scene, compacting the
// band array in order. The returned mask is index-aligned with the
// original band order (and therefore with any parallel source-file
// list): true marks a band that was kept.
func ExcludeBands(s *meta.SceneMetadata, names []string) []bool {
	excluded := make(map[string]bool, len(names))
	for _, n := range names {
		excluded[n] = true
	}

	keep := make([]bool, len(s.Bands))
	kept := s.Bands[:0]
	for i := range s.Bands {
		if excluded[s.Bands[i].Name] {
			continue
		}
		keep[i] = true
		kept = append(kept, s.Bands[i])
	}
	s.Bands = kept
	return keep
}
