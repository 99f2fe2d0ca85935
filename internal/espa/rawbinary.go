package espa

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/lsrd/espa-convert/internal/meta"
)

// WriteRawFile writes one band's pixel plane as a flat little-endian file.
// The buffer is the full image, lines in order, no interleaving.
func WriteRawFile(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create raw file: %w", err)
	}
	w := bufio.NewWriter(f)
	if _, err := w.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write raw file %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush raw file %s: %w", path, err)
	}
	return f.Close()
}

// ReadRawFile reads a band's full pixel plane, validating the file length
// against the declared raster geometry.
func ReadRawFile(path string, b *meta.BandDescriptor) ([]byte, error) {
	size := b.DataType.Size()
	if size == 0 {
		return nil, &meta.DataTypeError{Op: "read raw file", DataType: b.DataType}
	}
	want := int64(b.NLines) * int64(b.NSamps) * int64(size)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raw file: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat raw file: %w", err)
	}
	if st.Size() != want {
		return nil, fmt.Errorf("raw file %s is %d bytes, expected %d (%dx%d %s)",
			path, st.Size(), want, b.NLines, b.NSamps, b.DataType)
	}

	data := make([]byte, want)
	if _, err := io.ReadFull(bufio.NewReader(f), data); err != nil {
		return nil, fmt.Errorf("failed to read raw file %s: %w", path, err)
	}
	return data, nil
}
