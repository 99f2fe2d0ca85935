package properties

import "os"

// GdalTranslateBin returns the gdal_translate executable used by the
// subprocess conversion path. Defaults to lookup on PATH.
func GdalTranslateBin() string {
	if bin := os.Getenv("GDAL_TRANSLATE_BIN"); bin != "" {
		return bin
	}
	return "gdal_translate"
}

// OutputPath is the directory converted products are written into when a
// command does not receive one explicitly. Empty means the scene's own
// directory.
func OutputPath() string {
	return os.Getenv("OUTPUT_PATH")
}
