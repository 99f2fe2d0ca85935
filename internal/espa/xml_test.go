package espa

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsrd/espa-convert/internal/meta"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func sampleScene() *meta.SceneMetadata {
	fill := int64(0)
	return &meta.SceneMetadata{
		DataProvider:         "USGS/EROS",
		Satellite:            meta.Landsat8,
		Instrument:           meta.InstrumentOLITIRS,
		AcquisitionDate:      "2013-10-14",
		SceneCenterTime:      "19:01:21.9150580Z",
		Level1ProductionDate: "2017-03-08T01:59:02Z",
		SolarZenith:          57.65981015,
		SolarAzimuth:         158.95841595,
		SolarUnits:           "degrees",
		EarthSunDistance:     0.9973919,
		WRSSystem:            2,
		WRSPath:              47,
		WRSRow:               27,
		ProductID:            "LC08_L1TP_047027_20131014_20170308_01_T1",
		LPGSMetadataFile:     "LC08_MTL.txt",
		ULCorner:             meta.GeoCorner{Latitude: 48.46263, Longitude: -122.83562},
		LRCorner:             meta.GeoCorner{Latitude: 46.29266, Longitude: -119.77594},
		Projection: meta.ProjectionDescriptor{
			Type:       meta.ProjUTM,
			Datum:      meta.DatumWGS84,
			Units:      "meters",
			GridOrigin: "CENTER",
			UTMZone:    10,
			ULCorner:   meta.ProjCorner{X: 512100, Y: 5369400},
			LRCorner:   meta.ProjCorner{X: 747900, Y: 5129700},
		},
		Bounds: meta.BoundingBox{West: -122.7, East: -119.5, North: 48.5, South: 46.3},
		Bands: []meta.BandDescriptor{
			{
				Name:           "b1",
				LongName:       "band 1 digital numbers",
				ShortName:      "LC08DN",
				Product:        "L1TP",
				Category:       meta.CategoryImage,
				DataType:       meta.UInt16,
				NLines:         7991,
				NSamps:         7861,
				PixelSize:      [2]float64{30, 30},
				DataUnits:      "digital numbers",
				PixelUnits:     "meters",
				ResampleMethod: meta.ResampleCubic,
				FillValue:      &fill,
				ValidRange:     &[2]float64{1, 65535},
				RadGain:        f64(1.2422e-02),
				RadBias:        f64(-62.10928),
				ReflGain:       f64(2.0e-05),
				ReflBias:       f64(-0.1),
				AppVersion:     "LPGS_13.1.0",
				ProductionDate: "2017-03-08T01:59:02Z",
				FileName:       "LC08_L1TP_047027_20131014_20170308_01_T1_b1.img",
			},
			{
				Name:           "b10",
				LongName:       "band 10 digital numbers",
				ShortName:      "LC08DN",
				Product:        "L1TP",
				Category:       meta.CategoryImage,
				Thermal:        true,
				DataType:       meta.UInt16,
				NLines:         7991,
				NSamps:         7861,
				PixelSize:      [2]float64{30, 30},
				DataUnits:      "digital numbers",
				PixelUnits:     "meters",
				ResampleMethod: meta.ResampleCubic,
				FillValue:      i64(0),
				K1Const:        f64(774.8853),
				K2Const:        f64(1321.0789),
				FileName:       "LC08_L1TP_047027_20131014_20170308_01_T1_b10.img",
			},
			{
				Name:           "solar_zenith_band4",
				LongName:       "band 4 solar zenith angles",
				ShortName:      "LC08SOLZEN",
				Product:        "L1TP",
				Category:       meta.CategoryAngle,
				DataType:       meta.Int16,
				NLines:         7991,
				NSamps:         7861,
				PixelSize:      [2]float64{30, 30},
				DataUnits:      "degrees",
				PixelUnits:     "meters",
				ResampleMethod: meta.ResampleCubic,
				FillValue:      i64(0),
				ScaleFactor:    f64(0.01),
				AddOffset:      f64(0),
				ValidRange:     &[2]float64{0, 18000},
				FileName:       "LC08_L1TP_047027_20131014_20170308_01_T1_solar_zenith_band4.img",
			},
			{
				Name:           "bqa_pixel",
				LongName:       "pixel quality band",
				ShortName:      "LC08PQA",
				Product:        "L1TP",
				Category:       meta.CategoryQuality,
				DataType:       meta.UInt16,
				NLines:         7991,
				NSamps:         7861,
				PixelSize:      [2]float64{30, 30},
				DataUnits:      "quality/feature classification",
				PixelUnits:     "meters",
				ResampleMethod: meta.ResampleCubic,
				FillValue:      i64(0),
				ValidRange:     &[2]float64{0, 65535},
				BitFlags: []string{
					"Data Fill Flag (0 = valid data, 1 = invalid data)",
					"Dilated Cloud", "Cirrus", "Cloud", "Cloud Shadow", "Snow",
					"Clear", "Water", "Cloud Confidence", "Cloud Confidence",
					"Cloud Shadow Confidence", "Cloud Shadow Confidence",
					"Snow/Ice Confidence", "Snow/Ice Confidence",
					"Cirrus Confidence", "Cirrus Confidence",
				},
				FileName: "LC08_L1TP_047027_20131014_20170308_01_T1_bqa_pixel.img",
			},
		},
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	scene := sampleScene()
	path := filepath.Join(t.TempDir(), "scene.xml")

	require.NoError(t, WriteMetadata(path, scene))
	got, err := ReadMetadata(path)
	require.NoError(t, err)

	assert.Equal(t, scene, got)
}

func TestWriteMetadataWireFormat(t *testing.T) {
	scene := sampleScene()
	path := filepath.Join(t.TempDir(), "scene.xml")
	require.NoError(t, WriteMetadata(path, scene))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)

	assert.True(t, strings.HasPrefix(text, "<?xml"))
	assert.Contains(t, text, `<espa_metadata version="2.0"`)
	assert.Contains(t, text, "<data_provider>USGS/EROS</data_provider>")
	assert.Contains(t, text, `<corner location="UL" latitude="48.46263" longitude="-122.83562">`)
	assert.Contains(t, text, `<corner_point location="UL"`)
	assert.Contains(t, text, "<zone_code>10</zone_code>")
	assert.Contains(t, text, `<bit num="0">Data Fill Flag (0 = valid data, 1 = invalid data)</bit>`)

	// Angle bands travel under the image category.
	assert.Contains(t, text, `name="solar_zenith_band4" category="image"`)
	assert.NotContains(t, text, `category="angle"`)
}

func TestReadMetadataRejectsBadDataType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.xml")
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<espa_metadata version="2.0" xmlns="http://espa.cr.usgs.gov/v2">
  <global_metadata>
    <projection_information projection="UTM" units="meters"/>
  </global_metadata>
  <bands>
    <band product="L1TP" name="b1" category="image" data_type="COMPLEX64" nlines="1" nsamps="1"/>
  </bands>
</espa_metadata>
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	_, err := ReadMetadata(path)
	var uv *meta.UnsupportedValueError
	require.ErrorAs(t, err, &uv)
}

func TestReadMetadataRejectsShortQualityBitmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.xml")
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<espa_metadata version="2.0" xmlns="http://espa.cr.usgs.gov/v2">
  <global_metadata>
    <projection_information projection="UTM" units="meters"/>
  </global_metadata>
  <bands>
    <band product="L1TP" name="bqa_pixel" category="qa" data_type="UINT16" nlines="1" nsamps="1">
      <bitmap_description>
        <bit num="0">Data Fill Flag</bit>
        <bit num="1">Dilated Cloud</bit>
        <bit num="2">Cirrus</bit>
      </bitmap_description>
    </band>
  </bands>
</espa_metadata>
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	_, err := ReadMetadata(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 bitmap descriptions, expected 16")
}

func TestPSProjectionRoundTrip(t *testing.T) {
	scene := sampleScene()
	scene.Projection = meta.ProjectionDescriptor{
		Type:              meta.ProjPS,
		Datum:             meta.DatumWGS84,
		Units:             "meters",
		GridOrigin:        "CENTER",
		LongitudePole:     0,
		LatitudeTrueScale: -71,
		FalseEasting:      0,
		FalseNorthing:     0,
		ULCorner:          meta.ProjCorner{X: -32400, Y: 2178600},
		LRCorner:          meta.ProjCorner{X: 203400, Y: 1938900},
	}
	path := filepath.Join(t.TempDir(), "scene.xml")
	require.NoError(t, WriteMetadata(path, scene))
	got, err := ReadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, scene.Projection, got.Projection)
	assert.Equal(t, scene.Bands, got.Bands)
}

func TestGeographicProjectionRoundTrip(t *testing.T) {
	scene := sampleScene()
	scene.Projection = meta.ProjectionDescriptor{
		Type:       meta.ProjGeographic,
		Datum:      meta.DatumWGS84,
		Units:      "degrees",
		GridOrigin: "CENTER",
		ULCorner:   meta.ProjCorner{X: -122.7, Y: 48.5},
		LRCorner:   meta.ProjCorner{X: -119.5, Y: 46.3},
	}
	path := filepath.Join(t.TempDir(), "scene.xml")
	require.NoError(t, WriteMetadata(path, scene))
	got, err := ReadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, scene.Projection, got.Projection)
}

func TestAlbersProjectionRoundTrip(t *testing.T) {
	scene := sampleScene()
	scene.Projection = meta.ProjectionDescriptor{
		Type:              meta.ProjAlbers,
		Datum:             meta.DatumWGS84,
		Units:             "meters",
		GridOrigin:        "CENTER",
		StandardParallel1: 29.5,
		StandardParallel2: 45.5,
		CentralMeridian:   -96,
		OriginLatitude:    23,
		FalseEasting:      0,
		FalseNorthing:     0,
		ULCorner:          meta.ProjCorner{X: -2265585, Y: 3164805},
		LRCorner:          meta.ProjCorner{X: -2030085, Y: 2925105},
	}
	path := filepath.Join(t.TempDir(), "scene.xml")
	require.NoError(t, WriteMetadata(path, scene))
	got, err := ReadMetadata(path)
	require.NoError(t, err)
	assert.Equal(t, scene.Projection, got.Projection)
}
