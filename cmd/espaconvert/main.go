package main

import (
	"fmt"
	"os"

	"github.com/airbusgeo/godal"
	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/joho/godotenv"
)

func printBanner() {
	banner := figure.NewFigure("espa convert", "isometric1", true)
	bannercolor.Cyan(banner.String())
	fmt.Println()
}

func main() {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	godal.RegisterAll()
	printBanner()

	if err := rootCmd.Execute(); err != nil {
		bannercolor.Red(err.Error())
		os.Exit(1)
	}
}
