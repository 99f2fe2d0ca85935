package espa

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsrd/espa-convert/internal/meta"
)

func TestHeaderName(t *testing.T) {
	assert.Equal(t, "scene_b1.hdr", HeaderName("scene_b1.img"))
	assert.Equal(t, "/data/scene_b1.hdr", HeaderName("/data/scene_b1.img"))
}

func TestWriteHeaderUTM(t *testing.T) {
	fill := int64(0)
	b := &meta.BandDescriptor{
		Name:      "b1",
		LongName:  "band 1 digital numbers",
		DataType:  meta.UInt16,
		NLines:    7991,
		NSamps:    7861,
		PixelSize: [2]float64{30, 30},
		FillValue: &fill,
	}
	p := &meta.ProjectionDescriptor{
		Type:       meta.ProjUTM,
		Datum:      meta.DatumWGS84,
		GridOrigin: "CENTER",
		UTMZone:    10,
		ULCorner:   meta.ProjCorner{X: 512100, Y: 5369400},
	}

	path := filepath.Join(t.TempDir(), "b1.hdr")
	require.NoError(t, WriteHeader(path, b, p))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)

	assert.Contains(t, text, "ENVI\n")
	assert.Contains(t, text, "samples = 7861")
	assert.Contains(t, text, "lines = 7991")
	assert.Contains(t, text, "data type = 12")
	assert.Contains(t, text, "byte order = 0")
	assert.Contains(t, text, "data ignore value = 0")
	// Corner coordinates shift from pixel center to pixel edge.
	assert.Contains(t, text, "512085.000000, 5369415.000000")
	assert.Contains(t, text, "10, North, WGS-84")
}

func TestWriteHeaderSouthernZone(t *testing.T) {
	b := &meta.BandDescriptor{Name: "b1", DataType: meta.UInt8, NLines: 10, NSamps: 10, PixelSize: [2]float64{30, 30}}
	p := &meta.ProjectionDescriptor{Type: meta.ProjUTM, UTMZone: -23}

	path := filepath.Join(t.TempDir(), "b1.hdr")
	require.NoError(t, WriteHeader(path, b, p))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "23, South, WGS-84")
	assert.Contains(t, string(raw), "data type = 1")
}

func TestWriteHeaderAlbersProjectionInfo(t *testing.T) {
	b := &meta.BandDescriptor{Name: "b1", DataType: meta.Int16, NLines: 10, NSamps: 10, PixelSize: [2]float64{30, 30}}
	p := &meta.ProjectionDescriptor{
		Type:              meta.ProjAlbers,
		StandardParallel1: 29.5,
		StandardParallel2: 45.5,
		CentralMeridian:   -96,
		OriginLatitude:    23,
	}

	path := filepath.Join(t.TempDir(), "b1.hdr")
	require.NoError(t, WriteHeader(path, b, p))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "map info = {Albers Conical Equal Area")
	assert.Contains(t, string(raw), "projection info = {9,")
}

func TestWriteHeaderRejectsInt8(t *testing.T) {
	b := &meta.BandDescriptor{Name: "b1", DataType: meta.Int8, NLines: 10, NSamps: 10}
	p := &meta.ProjectionDescriptor{Type: meta.ProjUTM, UTMZone: 10}

	err := WriteHeader(filepath.Join(t.TempDir(), "b1.hdr"), b, p)
	var dte *meta.DataTypeError
	require.ErrorAs(t, err, &dte)
}
