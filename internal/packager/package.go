// Package packager bundles a converted scene into a distributable
// checksummed tarball.
package packager

import (
	"archive/tar"
	"compress/gzip"
	"crypto/md5"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/lsrd/espa-convert/internal/espa"
)

// Result reports what PackageScene produced.
type Result struct {
	TarFile      string
	ChecksumFile string
	Checksum     string
}

// PackageScene writes <product_id>.tar.gz containing the metadata XML and
// every band's raster and header file, plus <product_id>_MD5.txt with the
// tarball's checksum. Files are stored flat under their base names.
func PackageScene(xmlFile, outDir string) (*Result, error) {
	scene, err := espa.ReadMetadata(xmlFile)
	if err != nil {
		return nil, err
	}
	if scene.ProductID == "" {
		return nil, fmt.Errorf("no product id in %s", xmlFile)
	}

	srcDir := filepath.Dir(xmlFile)
	files := []string{xmlFile}
	for i := range scene.Bands {
		img := filepath.Join(srcDir, scene.Bands[i].FileName)
		files = append(files, img, espa.HeaderName(img))
	}

	if outDir == "" {
		outDir = srcDir
	}
	tarFile := filepath.Join(outDir, scene.ProductID+".tar.gz")

	f, err := os.Create(tarFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create tarball: %w", err)
	}
	defer f.Close()

	// Checksum the compressed stream as it is written.
	sum := md5.New()
	gz := gzip.NewWriter(io.MultiWriter(f, sum))
	tw := tar.NewWriter(gz)

	bar := progressbar.Default(int64(len(files)), "packaging scene")
	for _, path := range files {
		if err := addFile(tw, path); err != nil {
			return nil, err
		}
		bar.Add(1)
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize tarball: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize tarball: %w", err)
	}

	checksum := fmt.Sprintf("%x", sum.Sum(nil))
	checksumFile := filepath.Join(outDir, scene.ProductID+"_MD5.txt")
	line := fmt.Sprintf("%s  %s\n", checksum, filepath.Base(tarFile))
	if err := os.WriteFile(checksumFile, []byte(line), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write checksum file: %w", err)
	}

	return &Result{TarFile: tarFile, ChecksumFile: checksumFile, Checksum: checksum}, nil
}

func addFile(tw *tar.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	hdr, err := tar.FileInfoHeader(st, "")
	if err != nil {
		return fmt.Errorf("failed to build tar header for %s: %w", path, err)
	}
	hdr.Name = filepath.Base(path)

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("failed to write tar header for %s: %w", path, err)
	}
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("failed to archive %s: %w", path, err)
	}
	return nil
}
