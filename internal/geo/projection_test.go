package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsrd/espa-convert/internal/meta"
)

func TestProj4UTM(t *testing.T) {
	s, err := Proj4(meta.ProjectionDescriptor{Type: meta.ProjUTM, UTMZone: 10})
	require.NoError(t, err)
	assert.Equal(t, "+proj=utm +zone=10 +datum=WGS84 +units=m +no_defs", s)
}

func TestProj4UTMSouth(t *testing.T) {
	s, err := Proj4(meta.ProjectionDescriptor{Type: meta.ProjUTM, UTMZone: -23})
	require.NoError(t, err)
	assert.Equal(t, "+proj=utm +zone=23 +south +datum=WGS84 +units=m +no_defs", s)
}

func TestProj4PolarStereographic(t *testing.T) {
	s, err := Proj4(meta.ProjectionDescriptor{
		Type:              meta.ProjPS,
		LatitudeTrueScale: -71,
		LongitudePole:     0,
	})
	require.NoError(t, err)
	assert.Contains(t, s, "+proj=stere")
	assert.Contains(t, s, "+lat_0=-90")
	assert.Contains(t, s, "+lat_ts=-71")
}

func TestProj4Albers(t *testing.T) {
	s, err := Proj4(meta.ProjectionDescriptor{
		Type:              meta.ProjAlbers,
		StandardParallel1: 29.5,
		StandardParallel2: 45.5,
		CentralMeridian:   -96,
		OriginLatitude:    23,
	})
	require.NoError(t, err)
	assert.Contains(t, s, "+proj=aea")
	assert.Contains(t, s, "+lat_1=29.5")
	assert.Contains(t, s, "+lat_2=45.5")
	assert.Contains(t, s, "+lon_0=-96")
}

func TestProjParamsAlbersSlots(t *testing.T) {
	params := ProjParams(meta.ProjectionDescriptor{
		Type:              meta.ProjAlbers,
		StandardParallel1: 29.5,
		StandardParallel2: 45.5,
		CentralMeridian:   -96,
		OriginLatitude:    23,
		FalseEasting:      100,
		FalseNorthing:     200,
	})
	assert.InDelta(t, DegToDMS(29.5), params[2], 1e-9)
	assert.InDelta(t, DegToDMS(45.5), params[3], 1e-9)
	assert.InDelta(t, DegToDMS(-96), params[4], 1e-9)
	assert.InDelta(t, DegToDMS(23), params[5], 1e-9)
	assert.Equal(t, 100.0, params[6])
	assert.Equal(t, 200.0, params[7])
}

func TestProjParamsPSSlots(t *testing.T) {
	params := ProjParams(meta.ProjectionDescriptor{
		Type:              meta.ProjPS,
		LongitudePole:     0,
		LatitudeTrueScale: -71,
	})
	assert.Equal(t, 0.0, params[4])
	assert.InDelta(t, DegToDMS(-71), params[5], 1e-9)
	// UTM carries no parameter array values.
	assert.Equal(t, [NumProjParams]float64{}, ProjParams(meta.ProjectionDescriptor{Type: meta.ProjUTM, UTMZone: 10}))
}
