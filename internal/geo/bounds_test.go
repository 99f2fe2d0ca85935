package geo

import (
	"os"
	"testing"

	"github.com/airbusgeo/godal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsrd/espa-convert/internal/meta"
)

func TestMain(m *testing.M) {
	godal.RegisterAll()
	os.Exit(m.Run())
}

func TestComputeBoundsGeographic(t *testing.T) {
	p := meta.ProjectionDescriptor{
		Type:     meta.ProjGeographic,
		ULCorner: meta.ProjCorner{X: -122.0, Y: 47.0},
	}
	b, err := ComputeBounds(p, 100, 200, [2]float64{0.01, 0.01})
	require.NoError(t, err)

	assert.InDelta(t, -122.0, b.West, 1e-9)
	assert.InDelta(t, -122.0+199*0.01, b.East, 1e-9)
	assert.InDelta(t, 47.0, b.North, 1e-9)
	assert.InDelta(t, 47.0-99*0.01, b.South, 1e-9)
}

func TestComputeBoundsUTM(t *testing.T) {
	p := meta.ProjectionDescriptor{
		Type:     meta.ProjUTM,
		Datum:    meta.DatumWGS84,
		UTMZone:  10,
		ULCorner: meta.ProjCorner{X: 512100.0, Y: 5369400.0},
	}
	b, err := ComputeBounds(p, 7991, 7861, [2]float64{30, 30})
	require.NoError(t, err)

	assert.Less(t, b.West, b.East)
	assert.Less(t, b.South, b.North)
	// Zone 10 spans roughly 126W to 120W.
	assert.Greater(t, b.West, -127.0)
	assert.Less(t, b.East, -118.0)
	assert.InDelta(t, 48.5, b.North, 1.0)
}

func TestComputeBoundsFlippedScene(t *testing.T) {
	// Lines running south to north: negative line step. The extremes
	// must come from the actual pixel positions, not corner order.
	p := meta.ProjectionDescriptor{
		Type:     meta.ProjGeographic,
		ULCorner: meta.ProjCorner{X: -122.0, Y: 40.0},
	}
	b, err := ComputeBounds(p, 100, 200, [2]float64{0.01, -0.01})
	require.NoError(t, err)

	assert.InDelta(t, 40.0, b.South, 1e-9)
	assert.InDelta(t, 40.0+99*0.01, b.North, 1e-9)
	assert.InDelta(t, -122.0, b.West, 1e-9)
}

func TestComputeBoundsEmptyGrid(t *testing.T) {
	_, err := ComputeBounds(meta.ProjectionDescriptor{Type: meta.ProjGeographic}, 0, 0, [2]float64{30, 30})
	var pe *meta.ProjectionError
	require.ErrorAs(t, err, &pe)
}
