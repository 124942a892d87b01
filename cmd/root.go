package cmd

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shopcrawl",
	Short: "Shopify storefront catalog scraper",
	Long:  "Scrapes product catalogs from Shopify storefronts into Postgres.",
	Run: func(cmd *cobra.Command, args []string) {
		// ASCII banner on bare invocation (random font each run)
		fonts := []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "thick", "doom", "larry3d", "puffy", "rectangles"}
		fig := figure.NewFigure("shopcrawl ->", fonts[rand.Intn(len(fonts))], true)
		fig.Print()
		fmt.Println()
		_ = cmd.Help()
	},
}

// Execute runs the CLI. Custom packages register their commands via
// Register() in init(); Apply() locks the command registry before parsing.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
