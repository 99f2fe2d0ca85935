package convert

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/lsrd/espa-convert/internal/espa"
	"github.com/lsrd/espa-convert/internal/raster"
)

// GtifOptions configures a raw binary to GeoTIFF conversion run.
type GtifOptions struct {
	// XMLFile is the scene metadata document. Band raster files are
	// expected in its directory.
	XMLFile string

	// Base is the output base name; per-band files become
	// <base>_<band>.tif. Empty derives the base from the XML file name.
	Base string

	// DelSrc removes each band's raw binary file and header after
	// conversion, and the source XML file at the end.
	DelSrc bool
}

// ESPAToGtif converts a raw binary scene to per-band GeoTIFFs and writes
// an updated metadata document pointing at them. WGS84 scenes go through
// the native GDAL writer; everything else through the gdal_translate
// subprocess.
func ESPAToGtif(opts GtifOptions) error {
	scene, err := espa.ReadMetadata(opts.XMLFile)
	if err != nil {
		return err
	}

	base := opts.Base
	if base == "" {
		base = sceneBase(opts.XMLFile)
	}
	srcDir := filepath.Dir(opts.XMLFile)

	native := scene.Projection.WGS84Based()

	bar := progressbar.Default(int64(len(scene.Bands)), "converting bands")
	for i := range scene.Bands {
		b := &scene.Bands[i]
		imgFile := filepath.Join(srcDir, b.FileName)
		gtifFile := raster.OutputName(base, b.Name, ".tif")

		if native {
			err = raster.ImgToGtif(imgFile, gtifFile, b, &scene.Projection)
		} else {
			err = raster.GdalTranslate(imgFile, gtifFile, b.FillValue)
		}
		if err != nil {
			return fmt.Errorf("failed to convert band %s: %w", b.Name, err)
		}
		bar.Add(1)

		if opts.DelSrc {
			for _, f := range []string{imgFile, espa.HeaderName(imgFile)} {
				if err := os.Remove(f); err != nil {
					return fmt.Errorf("failed to remove source file %s: %w", f, err)
				}
			}
		}

		b.FileName = filepath.Base(gtifFile)
	}

	if err := espa.WriteMetadata(base+"_gtif.xml", scene); err != nil {
		return err
	}

	if opts.DelSrc {
		if err := os.Remove(opts.XMLFile); err != nil {
			return fmt.Errorf("failed to remove source file %s: %w", opts.XMLFile, err)
		}
	}
	return nil
}
