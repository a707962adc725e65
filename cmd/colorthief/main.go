// colorthief extracts dominant colors and palettes from images.
package main

import (
	"os"

	"github.com/ironsheep/colorthief/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
