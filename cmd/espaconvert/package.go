package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lsrd/espa-convert/internal/packager"
	"github.com/lsrd/espa-convert/internal/properties"
)

var packageXML string
var packageOut string

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Bundle a converted scene into a checksummed tarball",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := packageOut
		if out == "" {
			out = properties.OutputPath()
		}
		res, err := packager.PackageScene(packageXML, out)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s (md5 %s)\n", res.TarFile, res.Checksum)
		return nil
	},
}

func init() {
	packageCmd.Flags().StringVar(&packageXML, "xml", "", "input metadata XML file (required)")
	packageCmd.Flags().StringVar(&packageOut, "out", "", "output directory (default $OUTPUT_PATH, then the scene directory)")
	packageCmd.MarkFlagRequired("xml")
}
