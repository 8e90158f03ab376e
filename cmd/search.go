package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/fkarrer/knuspr/filter"
	"github.com/fkarrer/knuspr/knuspr"
)

var (
	searchLimit  int
	filterExpr   string
	filterPreset string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for products",
	Long: `Search the knuspr.de catalog. Promoted (sponsored) placements are
excluded from the results. Results can be narrowed further with a filter
expression, e.g.:

  knuspr search milch --filter 'Price < 2.0 and contains(Brand, "bio")'`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "maximum number of results")
	searchCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	searchCmd.Flags().StringVarP(&filterPreset, "preset", "p", "", "use a preset filter from config")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	productFilter, err := resolveFilter()
	if err != nil {
		return err
	}

	var results []knuspr.SearchResult
	err = client.Run(cmd.Context(), func(ctx context.Context, c *knuspr.Client) error {
		results, err = c.SearchProducts(ctx, query, searchLimit)
		return err
	})
	if err != nil {
		return err
	}

	results = filter.Apply(results, productFilter)
	if len(results) == 0 {
		fmt.Printf("No results for %q\n", query)
		return nil
	}

	t := newTable(fmt.Sprintf("Search: %s", query))
	t.AppendHeader(table.Row{"ID", "Name", "Price", "Amount", "Brand", "Stock"})
	for _, r := range results {
		stock := "yes"
		if !r.InStock {
			stock = "no"
		}
		t.AppendRow(table.Row{r.ID, r.Name, r.Price.String(), r.Amount, r.Brand, stock})
	}
	t.Render()

	return nil
}

// resolveFilter compiles the filter from the flag, a config preset, or
// falls back to match-everything.
func resolveFilter() (filter.ProductFilter, error) {
	expression := filterExpr
	if expression == "" && filterPreset != "" {
		preset, ok := cfg.Filter.Presets[filterPreset]
		if !ok {
			return nil, fmt.Errorf("preset '%s' not found in config", filterPreset)
		}
		expression = preset
	}

	productFilter, err := filter.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return productFilter, nil
}
