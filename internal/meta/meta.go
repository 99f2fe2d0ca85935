// Package meta holds the canonical scene representation shared by the MTL
// reader, the XML serializer and the raster transcoder.
package meta

import "fmt"

type Satellite string

const (
	Landsat4 Satellite = "LANDSAT_4"
	Landsat5 Satellite = "LANDSAT_5"
	Landsat7 Satellite = "LANDSAT_7"
	Landsat8 Satellite = "LANDSAT_8"
	Landsat9 Satellite = "LANDSAT_9"
)

// ParseSatellite normalizes the SPACECRAFT_ID value. Both the underscored
// and the compact vendor spellings are accepted.
func ParseSatellite(v string) (Satellite, error) {
	switch v {
	case "LANDSAT_4", "Landsat4":
		return Landsat4, nil
	case "LANDSAT_5", "Landsat5":
		return Landsat5, nil
	case "LANDSAT_7", "Landsat7":
		return Landsat7, nil
	case "LANDSAT_8", "Landsat8":
		return Landsat8, nil
	case "LANDSAT_9", "Landsat9":
		return Landsat9, nil
	}
	return "", &UnsupportedValueError{Field: "SPACECRAFT_ID", Value: v}
}

type Instrument string

const (
	InstrumentTM      Instrument = "TM"
	InstrumentETM     Instrument = "ETM"
	InstrumentOLI     Instrument = "OLI"
	InstrumentTIRS    Instrument = "TIRS"
	InstrumentOLITIRS Instrument = "OLI_TIRS"
)

// validInstruments maps each satellite to the sensors it can carry.
var validInstruments = map[Satellite][]Instrument{
	Landsat4: {InstrumentTM},
	Landsat5: {InstrumentTM},
	Landsat7: {InstrumentETM},
	Landsat8: {InstrumentOLITIRS, InstrumentOLI, InstrumentTIRS},
	Landsat9: {InstrumentOLITIRS, InstrumentOLI, InstrumentTIRS},
}

// ValidatePairing checks the SENSOR_ID against the SPACECRAFT_ID.
func ValidatePairing(sat Satellite, inst Instrument) error {
	valid, ok := validInstruments[sat]
	if !ok {
		return &UnsupportedValueError{Field: "SPACECRAFT_ID", Value: string(sat)}
	}
	for _, v := range valid {
		if v == inst {
			return nil
		}
	}
	return &UnsupportedValueError{Field: "SENSOR_ID", Value: string(inst)}
}

// ProjectionType uses the GCTP projection codes.
type ProjectionType int

const (
	ProjGeographic ProjectionType = 0
	ProjUTM        ProjectionType = 1
	ProjAlbers     ProjectionType = 3
	ProjPS         ProjectionType = 6
)

func (p ProjectionType) String() string {
	switch p {
	case ProjGeographic:
		return "GEO"
	case ProjUTM:
		return "UTM"
	case ProjAlbers:
		return "AEA"
	case ProjPS:
		return "PS"
	}
	return fmt.Sprintf("GCTP(%d)", int(p))
}

// ParseProjection maps the MAP_PROJECTION value. Only UTM, PS and Albers
// appear in vendor metadata; Geographic exists for canonical graphs.
func ParseProjection(v string) (ProjectionType, error) {
	switch v {
	case "UTM":
		return ProjUTM, nil
	case "PS":
		return ProjPS, nil
	case "AEA":
		return ProjAlbers, nil
	case "GEO":
		return ProjGeographic, nil
	}
	return 0, &UnsupportedValueError{Field: "MAP_PROJECTION", Value: v}
}

type Datum string

const DatumWGS84 Datum = "WGS84"

type ResampleMethod string

const (
	ResampleCubic    ResampleMethod = "cubic convolution"
	ResampleNearest  ResampleMethod = "nearest neighbor"
	ResampleBilinear ResampleMethod = "bilinear"
)

func ParseResampleMethod(v string) (ResampleMethod, error) {
	switch v {
	case "CUBIC_CONVOLUTION":
		return ResampleCubic, nil
	case "NEAREST_NEIGHBOR":
		return ResampleNearest, nil
	case "BILINEAR":
		return ResampleBilinear, nil
	}
	return "", &UnsupportedValueError{Field: "RESAMPLING_OPTION", Value: v}
}

type DataType string

const (
	Int8    DataType = "INT8"
	UInt8   DataType = "UINT8"
	Int16   DataType = "INT16"
	UInt16  DataType = "UINT16"
	Int32   DataType = "INT32"
	UInt32  DataType = "UINT32"
	Float32 DataType = "FLOAT32"
	Float64 DataType = "FLOAT64"
)

func ParseDataType(v string) (DataType, error) {
	switch DataType(v) {
	case Int8, UInt8, Int16, UInt16, Int32, UInt32, Float32, Float64:
		return DataType(v), nil
	}
	return "", &UnsupportedValueError{Field: "DATA_TYPE", Value: v}
}

// Size returns the per-element size in bytes.
func (d DataType) Size() int {
	switch d {
	case Int8, UInt8:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32:
		return 4
	case Float64:
		return 8
	}
	return 0
}

// Category classifies a band. Angle bands are serialized with the image
// category to stay compatible with the historical wire format, but are a
// distinct class for dimension and derivation logic.
type Category string

const (
	CategoryImage   Category = "image"
	CategoryQuality Category = "qa"
	CategoryAngle   Category = "angle"
)

// WGS84Based reports whether the descriptor can be written by the native
// raster path. Only the WGS84 datum qualifies; a geographic descriptor
// with no stated datum is treated as implicitly WGS84.
func (p ProjectionDescriptor) WGS84Based() bool {
	if p.Datum == DatumWGS84 {
		return true
	}
	return p.Type == ProjGeographic && p.Datum == ""
}

// ProjCorner is a projected map coordinate (meters, or degrees for the
// geographic projection).
type ProjCorner struct {
	X float64
	Y float64
}

// ProjectionDescriptor holds the map projection for a scene. Corner
// coordinates refer to the center of the corner pixels (grid origin
// "CENTER"); the raster transcoder depends on that convention.
type ProjectionDescriptor struct {
	Type       ProjectionType
	Datum      Datum
	Units      string
	GridOrigin string

	UTMZone int

	// Polar Stereographic
	LongitudePole     float64
	LatitudeTrueScale float64

	// Albers (false easting/northing shared with PS)
	StandardParallel1 float64
	StandardParallel2 float64
	CentralMeridian   float64
	OriginLatitude    float64

	FalseEasting  float64
	FalseNorthing float64

	ULCorner ProjCorner
	LRCorner ProjCorner
}

// GeoCorner is a geographic corner coordinate in decimal degrees.
type GeoCorner struct {
	Latitude  float64
	Longitude float64
}

// BoundingBox is the geographic extent of a scene in decimal degrees.
type BoundingBox struct {
	West  float64
	East  float64
	North float64
	South float64
}

// BandDescriptor describes one band of a scene. Optional radiometric
// fields are nil when the vendor metadata does not provide them.
type BandDescriptor struct {
	Name      string
	LongName  string
	ShortName string
	Product   string
	Category  Category
	DataType  DataType
	Thermal   bool

	NLines    int
	NSamps    int
	PixelSize [2]float64

	DataUnits  string
	PixelUnits string

	ResampleMethod ResampleMethod
	FillValue      *int64
	ValidRange     *[2]float64
	ScaleFactor    *float64
	AddOffset      *float64

	RadGain  *float64
	RadBias  *float64
	ReflGain *float64
	ReflBias *float64
	K1Const  *float64
	K2Const  *float64

	AppVersion     string
	ProductionDate string
	FileName       string

	// BitFlags is nil, or exactly BitFlagCount ordered descriptions.
	BitFlags []string
}

// BitFlagCount is the arity of every bit-flag table.
const BitFlagCount = 16

// SceneMetadata is the canonical metadata graph for one conversion run.
type SceneMetadata struct {
	DataProvider string
	Satellite    Satellite
	Instrument   Instrument

	AcquisitionDate      string
	SceneCenterTime      string
	Level1ProductionDate string

	SolarZenith      float64
	SolarAzimuth     float64
	SolarUnits       string
	EarthSunDistance float64

	WRSSystem int
	WRSPath   int
	WRSRow    int

	ProductID        string
	LPGSMetadataFile string
	OrientationAngle float64

	// Geographic UL/LR corner points as reported by the vendor
	// metadata, distinct from the computed bounding box.
	ULCorner GeoCorner
	LRCorner GeoCorner

	Projection ProjectionDescriptor
	Bounds     BoundingBox

	Bands []BandDescriptor
}
