package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/lsrd/espa-convert/internal/browse"
)

var browseXML string
var browseBand string
var browseOut string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Render a grayscale quicklook PNG for a converted scene band",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := browseOut
		if out == "" {
			out = strings.TrimSuffix(browseXML, ".xml") + "_browse.png"
		}
		return browse.CreateBrowseImage(browseXML, browseBand, out)
	},
}

func init() {
	browseCmd.Flags().StringVar(&browseXML, "xml", "", "input metadata XML file (required)")
	browseCmd.Flags().StringVar(&browseBand, "band", "", "band name to render (default first image band)")
	browseCmd.Flags().StringVar(&browseOut, "out", "", "output PNG path (default <scene>_browse.png)")
	browseCmd.MarkFlagRequired("xml")
}
