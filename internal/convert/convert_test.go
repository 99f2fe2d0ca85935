package convert

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/airbusgeo/godal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsrd/espa-convert/internal/espa"
	"github.com/lsrd/espa-convert/internal/meta"
)

func TestMain(m *testing.M) {
	godal.RegisterAll()
	os.Exit(m.Run())
}

const miniMTL = `GROUP = LANDSAT_METADATA_FILE
  GROUP = PRODUCT_CONTENTS
    LANDSAT_PRODUCT_ID = "LC08_TEST_SCENE"
    PROCESSING_LEVEL = "L1TP"
    FILE_NAME_BAND_1 = "LC08_B1.TIF"
    FILE_NAME_BAND_9 = "LC08_B9.TIF"
    DATA_TYPE_BAND_1 = "UINT16"
    DATA_TYPE_BAND_9 = "UINT16"
  END_GROUP = PRODUCT_CONTENTS
  GROUP = IMAGE_ATTRIBUTES
    SPACECRAFT_ID = "LANDSAT_8"
    SENSOR_ID = "OLI_TIRS"
    WRS_PATH = 47
    WRS_ROW = 27
    DATE_ACQUIRED = 2013-10-14
    SCENE_CENTER_TIME = "19:01:21.9150580Z"
    SUN_AZIMUTH = 158.9
    SUN_ELEVATION = 32.3
    EARTH_SUN_DISTANCE = 0.9973919
  END_GROUP = IMAGE_ATTRIBUTES
  GROUP = PROJECTION_ATTRIBUTES
    MAP_PROJECTION = "UTM"
    DATUM = "WGS84"
    UTM_ZONE = 10
    GRID_CELL_SIZE_REFLECTIVE = 30.00
    REFLECTIVE_LINES = 8
    REFLECTIVE_SAMPLES = 10
    CORNER_UL_PROJECTION_X_PRODUCT = 512100.000
    CORNER_UL_PROJECTION_Y_PRODUCT = 5369400.000
    CORNER_LR_PROJECTION_X_PRODUCT = 512370.000
    CORNER_LR_PROJECTION_Y_PRODUCT = 5369190.000
  END_GROUP = PROJECTION_ATTRIBUTES
  GROUP = LEVEL1_PROJECTION_PARAMETERS
    RESAMPLING_OPTION = "CUBIC_CONVOLUTION"
  END_GROUP = LEVEL1_PROJECTION_PARAMETERS
END_GROUP = LANDSAT_METADATA_FILE
END
`

func writeMiniScene(t *testing.T) (dir, mtlFile string) {
	t.Helper()
	dir = t.TempDir()
	mtlFile = filepath.Join(dir, "LC08_TEST_SCENE_MTL.txt")
	require.NoError(t, os.WriteFile(mtlFile, []byte(miniMTL), 0o644))

	for _, name := range []string{"LC08_B1.TIF", "LC08_B9.TIF"} {
		ds, err := godal.Create(godal.GTiff, filepath.Join(dir, name), 1, godal.UInt16, 10, 8)
		require.NoError(t, err)
		buf := make([]uint16, 10*8)
		for i := range buf {
			buf[i] = uint16(i)
		}
		band := ds.Bands()[0]
		require.NoError(t, band.Write(0, 0, buf, 10, 8))
		require.NoError(t, ds.Close())
	}
	return dir, mtlFile
}

func TestLPGSToESPA(t *testing.T) {
	dir, mtlFile := writeMiniScene(t)

	scene, err := LPGSToESPA(LPGSOptions{MTLFile: mtlFile})
	require.NoError(t, err)
	require.Len(t, scene.Bands, 2)

	xmlFile := filepath.Join(dir, "LC08_TEST_SCENE.xml")
	for _, name := range []string{
		"LC08_TEST_SCENE.xml",
		"LC08_TEST_SCENE_b1.img", "LC08_TEST_SCENE_b1.hdr",
		"LC08_TEST_SCENE_b9.img", "LC08_TEST_SCENE_b9.hdr",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	// The raw pixels survive the transcode.
	got, err := espa.ReadRawFile(filepath.Join(dir, "LC08_TEST_SCENE_b1.img"), &scene.Bands[0])
	require.NoError(t, err)
	assert.Equal(t, uint16(17), binary.LittleEndian.Uint16(got[17*2:]))

	// Source GeoTIFFs are kept without del-src.
	_, err = os.Stat(filepath.Join(dir, "LC08_B1.TIF"))
	assert.NoError(t, err)

	read, err := espa.ReadMetadata(xmlFile)
	require.NoError(t, err)
	assert.Equal(t, scene, read)
}

func TestLPGSToESPASurfaceOnlyDropsBands(t *testing.T) {
	_, mtlFile := writeMiniScene(t)

	scene, err := LPGSToESPA(LPGSOptions{MTLFile: mtlFile, SurfaceOnly: true})
	require.NoError(t, err)
	require.Len(t, scene.Bands, 1)
	assert.Equal(t, "b1", scene.Bands[0].Name)
}

func TestLPGSToESPADelSrc(t *testing.T) {
	dir, mtlFile := writeMiniScene(t)

	_, err := LPGSToESPA(LPGSOptions{MTLFile: mtlFile, DelSrc: true})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "LC08_B1.TIF"))
	assert.True(t, os.IsNotExist(err))
}

func TestESPAToGtif(t *testing.T) {
	dir, mtlFile := writeMiniScene(t)
	_, err := LPGSToESPA(LPGSOptions{MTLFile: mtlFile})
	require.NoError(t, err)

	xmlFile := filepath.Join(dir, "LC08_TEST_SCENE.xml")
	require.NoError(t, ESPAToGtif(GtifOptions{XMLFile: xmlFile, DelSrc: true}))

	for _, name := range []string{
		"LC08_TEST_SCENE_b1.tif",
		"LC08_TEST_SCENE_b9.tif",
		"LC08_TEST_SCENE_gtif.xml",
	} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	// del-src removes the raw binary scene.
	for _, name := range []string{"LC08_TEST_SCENE_b1.img", "LC08_TEST_SCENE_b1.hdr", "LC08_TEST_SCENE.xml"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.True(t, os.IsNotExist(err), name)
	}

	// The updated metadata points at the GeoTIFF files.
	scene, err := espa.ReadMetadata(filepath.Join(dir, "LC08_TEST_SCENE_gtif.xml"))
	require.NoError(t, err)
	assert.Equal(t, "LC08_TEST_SCENE_b1.tif", scene.Bands[0].FileName)
	assert.Equal(t, meta.ProjUTM, scene.Projection.Type)
}
