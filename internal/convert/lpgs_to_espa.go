// Package convert drives the scene-level conversion pipelines.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/lsrd/espa-convert/internal/espa"
	"github.com/lsrd/espa-convert/internal/meta"
	"github.com/lsrd/espa-convert/internal/mtl"
	"github.com/lsrd/espa-convert/internal/raster"
)

// LPGSOptions configures a Level-1 to raw binary conversion run.
type LPGSOptions struct {
	// MTLFile is the vendor metadata text file. Band GeoTIFFs are
	// expected in the same directory.
	MTLFile string

	// XMLFile is the output metadata document. Empty derives
	// <product_id>.xml next to the MTL file. Band raster files are
	// written into the same directory as the XML file.
	XMLFile string

	// DelSrc removes each source GeoTIFF after its band is converted.
	DelSrc bool

	// SurfaceOnly drops the bands not used by surface reflectance or
	// surface temperature processing before conversion.
	SurfaceOnly bool
}

// LPGSToESPA converts a vendor Level-1 scene to the raw binary product:
// one flat raster plus ENVI header per band, and the metadata XML.
func LPGSToESPA(opts LPGSOptions) (*meta.SceneMetadata, error) {
	scene, sources, err := mtl.ReadMTL(opts.MTLFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read MTL file %s: %w", opts.MTLFile, err)
	}

	if opts.SurfaceOnly {
		keep := mtl.ExcludeBands(scene, mtl.DefaultExcludeBands)
		kept := sources[:0]
		for i, k := range keep {
			if k {
				kept = append(kept, sources[i])
			}
		}
		sources = kept
	}

	xmlFile := opts.XMLFile
	if xmlFile == "" {
		xmlFile = filepath.Join(filepath.Dir(opts.MTLFile), scene.ProductID+".xml")
	}
	outDir := filepath.Dir(xmlFile)

	bar := progressbar.Default(int64(len(scene.Bands)), "converting bands")
	for i := range scene.Bands {
		b := &scene.Bands[i]
		imgFile := filepath.Join(outDir, b.FileName)
		if err := raster.GtifToImg(sources[i], imgFile, b, &scene.Projection); err != nil {
			return nil, fmt.Errorf("failed to convert band %s: %w", b.Name, err)
		}
		bar.Add(1)

		if opts.DelSrc {
			if err := os.Remove(sources[i]); err != nil {
				return nil, fmt.Errorf("failed to remove source file %s: %w", sources[i], err)
			}
		}
	}

	if err := espa.WriteMetadata(xmlFile, scene); err != nil {
		return nil, err
	}
	return scene, nil
}

// sceneBase strips the .xml suffix from a metadata file path, giving the
// base the per-band output names are built from.
func sceneBase(xmlFile string) string {
	return strings.TrimSuffix(xmlFile, ".xml")
}
