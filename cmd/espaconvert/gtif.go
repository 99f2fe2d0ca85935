package main

import (
	"github.com/spf13/cobra"

	"github.com/lsrd/espa-convert/internal/convert"
)

var gtifOpts convert.GtifOptions

var gtifCmd = &cobra.Command{
	Use:   "espa-to-gtif",
	Short: "Convert a raw binary scene to per-band GeoTIFFs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return convert.ESPAToGtif(gtifOpts)
	},
}

func init() {
	gtifCmd.Flags().StringVar(&gtifOpts.XMLFile, "xml", "", "input metadata XML file (required)")
	gtifCmd.Flags().StringVar(&gtifOpts.Base, "gtif", "", "output base name, bands become <base>_<band>.tif (default derived from the XML name)")
	gtifCmd.Flags().BoolVar(&gtifOpts.DelSrc, "del-src-files", false, "remove the raw binary files and source XML after conversion")
	gtifCmd.MarkFlagRequired("xml")
}
