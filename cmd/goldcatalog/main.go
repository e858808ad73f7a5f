package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const service = "catalog"

var version = "dev"

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "goldcatalog",
		Short:         "Product catalog priced from the live gold rate",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")

	root.AddCommand(
		newServeCmd(&configPath),
		newPriceCmd(&configPath),
		newProductsCmd(&configPath),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
