package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"GoldCatalog/internal/catalog"
	"GoldCatalog/pkg/kit"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			s := &catalog.Server{
				Pricer: a.pricer,
				Gold:   a.oracle,
				Log:    a.log,
			}
			h := catalog.NewHandler(s, catalog.HTTPDeps{
				Log:             a.log,
				Service:         service,
				Registry:        a.reg,
				MetricsEnabled:  a.cfg.Metrics.Enabled,
				MetricsToken:    a.cfg.Metrics.Token,
				RateLimitPerMin: a.cfg.RateLimitPerMin,
			})

			if err := kit.RunHTTPServer(cmd.Context(), a.cfg.Addr(), h, a.log); err != nil {
				a.log.Error("http server stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}
}

func newPriceCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "price",
		Short: "Print the current gold price per gram and where it came from",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			q := a.oracle.Quote(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "%s USD/g (%s, %s)\n",
				q.PricePerGram.StringFixed(2), q.Origin, q.At.UTC().Format(time.RFC3339))
			return nil
		},
	}
}

func newProductsCmd(configPath *string) *cobra.Command {
	var (
		minPrice, maxPrice           string
		minPopularity, maxPopularity string
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "Print the priced product list as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			q := map[string][]string{
				"minPrice":      {minPrice},
				"maxPrice":      {maxPrice},
				"minPopularity": {minPopularity},
				"maxPopularity": {maxPopularity},
			}
			f, err := catalog.ParseFilter(q)
			if err != nil {
				return err
			}

			products, err := a.pricer.PriceAll(cmd.Context(), f)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(products)
		},
	}

	cmd.Flags().StringVar(&minPrice, "min-price", "", "inclusive lower bound on price")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "inclusive upper bound on price")
	cmd.Flags().StringVar(&minPopularity, "min-popularity", "", "inclusive lower bound on the raw popularity score")
	cmd.Flags().StringVar(&maxPopularity, "max-popularity", "", "inclusive upper bound on the raw popularity score")
	return cmd
}
