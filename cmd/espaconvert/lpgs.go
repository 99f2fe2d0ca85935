package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lsrd/espa-convert/internal/convert"
)

var lpgsOpts convert.LPGSOptions

var lpgsCmd = &cobra.Command{
	Use:   "lpgs-to-espa",
	Short: "Convert a Level-1 scene to raw binary",
	RunE: func(cmd *cobra.Command, args []string) error {
		scene, err := convert.LPGSToESPA(lpgsOpts)
		if err != nil {
			return err
		}
		fmt.Printf("Converted %d bands of %s\n", len(scene.Bands), scene.ProductID)
		return nil
	},
}

func init() {
	lpgsCmd.Flags().StringVar(&lpgsOpts.MTLFile, "mtl", "", "input MTL metadata text file (required)")
	lpgsCmd.Flags().StringVar(&lpgsOpts.XMLFile, "xml", "", "output metadata XML file (default <product_id>.xml next to the MTL)")
	lpgsCmd.Flags().BoolVar(&lpgsOpts.DelSrc, "del-src-files", false, "remove each source GeoTIFF after conversion")
	lpgsCmd.Flags().BoolVar(&lpgsOpts.SurfaceOnly, "sr-st-only", false, "convert only the bands used by surface reflectance and surface temperature")
	lpgsCmd.MarkFlagRequired("mtl")
}
