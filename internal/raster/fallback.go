package raster

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/lsrd/espa-convert/internal/meta"
	"github.com/lsrd/espa-convert/internal/properties"
)

// GdalTranslate converts a flat raster to GeoTIFF through the
// gdal_translate executable. This path handles whatever GDAL itself can
// read, covering the projections and datums the native writer refuses.
func GdalTranslate(imgFile, gtifFile string, fill *int64) error {
	args := []string{"-of", "Gtiff"}
	if fill != nil {
		args = append(args, "-a_nodata", strconv.FormatInt(*fill, 10))
	}
	args = append(args, "-co", "TFW=YES", "-q", imgFile, gtifFile)

	cmd := exec.Command(properties.GdalTranslateBin(), args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return &meta.SubprocessError{
			Cmd: strings.Join(cmd.Args, " "),
			Err: fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out))),
		}
	}

	// gdal_translate leaves a statistics sidecar behind; it is not part
	// of the product. Removal is best effort.
	os.Remove(gtifFile + ".aux.xml")
	return nil
}
