package mtl

import (
	"fmt"
	"strings"

	"github.com/lsrd/espa-convert/internal/meta"
)

// Fixed classification tables. These are data, not heuristics: every
// derivation the catalog performs resolves through an exact lookup here.

// qualityBandIDs maps FILE_NAME identifiers of quality bands to their
// canonical band names.
var qualityBandIDs = map[string]string{
	"QUALITY_L1_PIXEL":                  "bqa_pixel",
	"QUALITY_L1_RADIOMETRIC_SATURATION": "bqa_radsat",
}

// angleBandIDs maps FILE_NAME identifiers of the per-pixel angle bands to
// their canonical band names.
var angleBandIDs = map[string]string{
	"ANGLE_SENSOR_AZIMUTH_BAND_4": "sensor_azimuth_band4",
	"ANGLE_SENSOR_ZENITH_BAND_4":  "sensor_zenith_band4",
	"ANGLE_SOLAR_AZIMUTH_BAND_4":  "solar_azimuth_band4",
	"ANGLE_SOLAR_ZENITH_BAND_4":   "solar_zenith_band4",
}

// angleBandText holds the fixed long-name and short-name suffix for each
// angle band.
var angleBandText = map[string]struct {
	LongName string
	Suffix   string
}{
	"sensor_azimuth_band4": {"band 4 sensor azimuth angles", "SENAZ"},
	"sensor_zenith_band4":  {"band 4 sensor zenith angles", "SENZEN"},
	"solar_azimuth_band4":  {"band 4 solar azimuth angles", "SOLAZ"},
	"solar_zenith_band4":   {"band 4 solar zenith angles", "SOLZEN"},
}

// qualityBandText holds the fixed long-name, short-name suffix and data
// units for each quality band.
var qualityBandText = map[string]struct {
	LongName  string
	Suffix    string
	DataUnits string
}{
	"bqa":        {"quality band", "QA", "quality/feature classification"},
	"bqa_pixel":  {"pixel quality band", "PQA", "quality/feature classification"},
	"bqa_radsat": {"saturation quality band", "RADSAT", "bitmap"},
}

// shortNamePrefix maps satellite+instrument to the 4-character product
// prefix.
var shortNamePrefix = map[[2]string]string{
	{string(meta.Landsat4), string(meta.InstrumentTM)}:      "LT04",
	{string(meta.Landsat5), string(meta.InstrumentTM)}:      "LT05",
	{string(meta.Landsat7), string(meta.InstrumentETM)}:     "LE07",
	{string(meta.Landsat8), string(meta.InstrumentOLITIRS)}: "LC08",
	{string(meta.Landsat8), string(meta.InstrumentOLI)}:     "LC08",
	{string(meta.Landsat8), string(meta.InstrumentTIRS)}:    "LC08",
	{string(meta.Landsat9), string(meta.InstrumentOLITIRS)}: "LC09",
	{string(meta.Landsat9), string(meta.InstrumentOLI)}:     "LC09",
	{string(meta.Landsat9), string(meta.InstrumentTIRS)}:    "LC09",
}

// ShortNamePrefix resolves the product short-name prefix for a
// satellite+instrument pair.
func ShortNamePrefix(sat meta.Satellite, inst meta.Instrument) (string, error) {
	if p, ok := shortNamePrefix[[2]string{string(sat), string(inst)}]; ok {
		return p, nil
	}
	return "", &meta.UnsupportedValueError{
		Field: "SENSOR_ID",
		Value: fmt.Sprintf("%s/%s", sat, inst),
	}
}

// thermalBandNumbers is the per-instrument-family set of thermal band
// numbers. ETM+ thermal channels are recognized by their channel-id
// (VCID) suffix instead.
var thermalBandNumbers = map[meta.Instrument]map[int]bool{
	meta.InstrumentTM:      {6: true},
	meta.InstrumentOLITIRS: {10: true, 11: true},
	meta.InstrumentOLI:     {10: true, 11: true},
	meta.InstrumentTIRS:    {10: true, 11: true},
}

// isThermal reports whether a numbered band is thermal: the band number is
// in the instrument family's thermal set, or a channel-id suffix marks a
// dual-detector thermal channel.
func isThermal(inst meta.Instrument, bandNum, vcid int) bool {
	if vcid != 0 && bandNum == 6 {
		return true
	}
	return thermalBandNumbers[inst][bandNum]
}

// isOLIFamily selects the OLI variants of the bit-flag schemas.
func isOLIFamily(inst meta.Instrument) bool {
	return strings.HasPrefix(string(inst), "OLI")
}

// DefaultExcludeBands lists the bands not used by surface reflectance or
// surface temperature processing.
var DefaultExcludeBands = []string{
	"b62", "b8", "b9",
	"sensor_azimuth_band4", "sensor_zenith_band4", "solar_azimuth_band4",
}

// Angle band numeric derivations. The stored pixel values are scaled
// degrees; the valid range is the physical range divided by the scale.
const (
	angleScaleFactor = 0.01
	angleAddOffset   = 0.0
)

func angleValidRange(name string) [2]float64 {
	min := -180.0
	if strings.Contains(name, "zenith") {
		min = 0.0
	}
	return [2]float64{
		min/angleScaleFactor + angleAddOffset,
		180.0/angleScaleFactor + angleAddOffset,
	}
}
