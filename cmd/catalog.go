package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/account-intel/internal/adapter"
	"github.com/sells-group/account-intel/internal/catalog"
	anthropicpkg "github.com/sells-group/account-intel/pkg/anthropic"
	"github.com/sells-group/account-intel/pkg/tavily"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the product catalog used for recommendations",
}

var catalogBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Research product information and write the catalog file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if cfg.Anthropic.Key == "" || cfg.Tavily.Key == "" {
			return eris.New("catalog build requires ACCOUNTINTEL_ANTHROPIC_KEY and ACCOUNTINTEL_TAVILY_KEY")
		}

		searchClient := tavily.NewClient(cfg.Tavily.Key,
			tavily.WithBaseURL(cfg.Tavily.BaseURL),
			tavily.WithRateLimit(cfg.Tavily.RateLimit),
		)
		llmClient := anthropicpkg.NewClient(cfg.Anthropic.Key)
		ad := adapter.New(searchClient, llmClient, adapter.Config{
			Model:           cfg.Anthropic.Model,
			MaxTokens:       int64(cfg.Research.MaxTokens),
			CallTimeout:     time.Duration(cfg.Research.CallTimeoutSecs) * time.Second,
			EnableWebSearch: true,
		})

		cat, err := catalog.Build(ctx, ad)
		if err != nil {
			return eris.Wrap(err, "build catalog")
		}
		if err := cat.Save(cfg.Catalog.Path); err != nil {
			return err
		}

		zap.L().Info("catalog written",
			zap.String("path", cfg.Catalog.Path),
			zap.Int("products", len(cat.Products)),
		)
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the catalog grouped by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}
		if cat == nil {
			return eris.Errorf("no catalog at %s (run: account-intel catalog build)", cfg.Catalog.Path)
		}

		fmt.Printf("%d products (generated %s)\n\n", len(cat.Products), cat.Metadata.GeneratedAt)
		for category, names := range cat.Categories() {
			fmt.Printf("%s:\n", category)
			for _, name := range names {
				fmt.Printf("  - %s\n", name)
			}
		}
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogBuildCmd, catalogShowCmd)
	rootCmd.AddCommand(catalogCmd)
}
