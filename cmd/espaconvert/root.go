package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "espaconvert",
	Short: "Convert Landsat Level-1 scenes to and from the raw binary format",
	Long: `espaconvert reads vendor Level-1 (LPGS) scenes and converts them to the
raw binary science format: one flat binary file plus ENVI header per band,
described by a single metadata XML document. The reverse direction writes
per-band GeoTIFFs from a converted scene.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(lpgsCmd)
	rootCmd.AddCommand(gtifCmd)
	rootCmd.AddCommand(packageCmd)
	rootCmd.AddCommand(browseCmd)
}
