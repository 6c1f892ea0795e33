package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/ecomwatch/restock/pkg/fetch"
	"github.com/ecomwatch/restock/pkg/product"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single stock check and print the result",
	RunE: func(cmd *cobra.Command, _ []string) error {
		target, err := targetFromFlags(cmd)
		if err != nil {
			return err
		}
		ctx := context.Background()

		if static, _ := cmd.Flags().GetBool("static"); static {
			res, err := fetch.Get(ctx, target.URL)
			if err != nil {
				return err
			}
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body))
			if err != nil {
				return err
			}
			inStock, reason := product.ClassifyStatic(doc)
			fmt.Printf("in_stock=%t reason=%s url=%s\n", inStock, reason, res.FinalURL)
			return nil
		}

		checker := checkerFromConfig()
		obs := checker.CheckOnce(ctx, target)
		fmt.Printf("in_stock=%t reason=%s url=%s\n", obs.InStock, obs.Reason, obs.ResolvedURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("static", false, "Classify the fetched HTML without a browser (no variant selection)")
}
