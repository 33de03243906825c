package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/celiapp/catalog-cli/internal/cost"
	"github.com/celiapp/catalog-cli/internal/extract"
	"github.com/celiapp/catalog-cli/internal/model"
	"github.com/celiapp/catalog-cli/pkg/tabular"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate AI extraction cost without dispatching anything",
	Long:  "Reads the catalog sheet, applies the extraction eligibility rules and cap, and prints the token and dollar estimate. No API calls, no writes.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sheets, err := initSheets()
		if err != nil {
			return err
		}
		rules, err := loadRules()
		if err != nil {
			return err
		}

		rows, err := sheets.ReadAll(ctx, cfg.Sheets.SheetName)
		if err != nil {
			return eris.Wrapf(err, "estimate: read sheet %q", cfg.Sheets.SheetName)
		}
		if len(rows) == 0 {
			return eris.Errorf("estimate: sheet %q is empty", cfg.Sheets.SheetName)
		}
		cm, err := tabular.ResolveColumns(rows[0].Values)
		if err != nil {
			return err
		}

		rc := cfg.Reconcile
		extractor := extract.NewExtractor(nil, rules, cost.NewCalculator(cost.DefaultRates()), extract.Config{
			Model:         cfg.Anthropic.Model,
			MinNameLength: rc.MinNameLength,
			MaxNameLength: rc.MaxNameLength,
			BatchSize:     rc.BatchSize,
			MaxProducts:   rc.MaxAIProducts,
		})

		recs := make([]*model.ProductRecord, 0, len(rows)-1)
		for _, row := range rows[1:] {
			recs = append(recs, cm.ToRecord(row))
		}
		est := extractor.Estimate(recs)

		fmt.Fprintf(os.Stdout, "Records on sheet:   %d\n", len(recs))
		fmt.Fprintf(os.Stdout, "Eligible (capped):  %d\n", est.RecordCount)
		fmt.Fprintf(os.Stdout, "Estimated tokens:   %d\n", est.EstimatedTokens)
		fmt.Fprintf(os.Stdout, "Estimated cost:     $%.4f (%s)\n", est.EstimatedCost, cfg.Anthropic.Model)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(estimateCmd)
}
