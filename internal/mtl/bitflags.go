package mtl

import (
	"fmt"

	"github.com/lsrd/espa-convert/internal/meta"
)

// Bit-flag tables for the quality bands. Each schema is exactly 16
// ordered descriptions; a handful of bit positions differ between the OLI
// and TM/ETM+ instrument families. The wording is fixed: downstream
// consumers match on these strings.

// legacyQABitFlags is the Collection-1 quality band schema. Collection-2
// identifiers no longer produce this band, but the schema remains
// selectable by band name.
func legacyQABitFlags(oli bool) []string {
	flags := []string{
		"Data Fill Flag (0 = valid data, 1 = invalid data)",
		"", // bit 1 set below
		"Radiometric Saturation",
		"Radiometric Saturation",
		"Cloud",
		"Cloud Confidence",
		"Cloud Confidence",
		"Cloud Shadow Confidence",
		"Cloud Shadow Confidence",
		"Snow/Ice Confidence",
		"Snow/Ice Confidence",
		"Not used",
		"Not used",
		"Not used",
		"Not used",
		"Not used",
	}
	if oli {
		flags[1] = "Terrain Occlusion (0 = not terrain occluded, 1 = terrain occluded)"
		flags[11] = "Cirrus Confidence"
		flags[12] = "Cirrus Confidence"
	} else {
		flags[1] = "Dropped Pixel (0 = not a dropped pixel , 1 = dropped pixel)"
	}
	return flags
}

// pixelQABitFlags is the Collection-2 pixel quality schema.
func pixelQABitFlags(oli bool) []string {
	flags := []string{
		"Data Fill Flag (0 = valid data, 1 = invalid data)",
		"Dilated Cloud",
		"Cirrus",
		"Cloud",
		"Cloud Shadow",
		"Snow",
		"Clear",
		"Water",
		"Cloud Confidence",
		"Cloud Confidence",
		"Cloud Shadow Confidence",
		"Cloud Shadow Confidence",
		"Snow/Ice Confidence",
		"Snow/Ice Confidence",
		"Not used",
		"Not used",
	}
	if oli {
		flags[14] = "Cirrus Confidence"
		flags[15] = "Cirrus Confidence"
	}
	return flags
}

// radsatQABitFlags is the radiometric saturation schema.
func radsatQABitFlags(oli bool) []string {
	flags := make([]string, meta.BitFlagCount)
	for bit := 0; bit < 8; bit++ {
		flags[bit] = fmt.Sprintf("Band %d Saturation", bit+1)
	}
	if oli {
		flags[8] = "Band 9 Saturation"
		flags[9] = "Band 10 Saturation"
		flags[10] = "Band 11 Saturation"
		flags[11] = "Terrain Occlusion"
	} else {
		flags[8] = "Band 6H Saturation"
		flags[9] = "Dropped Pixel"
		flags[10] = "Not used"
		flags[11] = "Not used"
	}
	for bit := 12; bit < meta.BitFlagCount; bit++ {
		flags[bit] = "Not used"
	}
	return flags
}

// BitFlagsForBand returns the 16-entry schema for a quality band name, or
// nil for non-quality bands.
func BitFlagsForBand(name string, inst meta.Instrument) []string {
	oli := isOLIFamily(inst)
	switch name {
	case "bqa":
		return legacyQABitFlags(oli)
	case "bqa_pixel":
		return pixelQABitFlags(oli)
	case "bqa_radsat":
		return radsatQABitFlags(oli)
	}
	return nil
}
