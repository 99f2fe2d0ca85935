package espa

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lsrd/espa-convert/internal/meta"
)

func TestRawFileRoundTrip(t *testing.T) {
	b := &meta.BandDescriptor{DataType: meta.UInt16, NLines: 3, NSamps: 4}
	data := make([]byte, 3*4*2)
	for i := range data {
		data[i] = byte(i)
	}

	path := filepath.Join(t.TempDir(), "band.img")
	require.NoError(t, WriteRawFile(path, data))

	got, err := ReadRawFile(path, b)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestReadRawFileSizeMismatch(t *testing.T) {
	b := &meta.BandDescriptor{DataType: meta.UInt16, NLines: 3, NSamps: 4}
	path := filepath.Join(t.TempDir(), "band.img")
	require.NoError(t, WriteRawFile(path, make([]byte, 10)))

	_, err := ReadRawFile(path, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 24")
}
