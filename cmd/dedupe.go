package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/celiapp/catalog-cli/internal/pipeline"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Run only normalization and duplicate merging",
	Long:  "Runs the normalize and dedupe stages without backup restoration or AI extraction. Dry run unless --live is set.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		live, _ := cmd.Flags().GetBool("live")
		rc := cfg.Reconcile
		rc.EnableBackupRestoration = false
		rc.EnableBrandExtraction = false
		rc.EnableTypeFill = false
		if live {
			rc.TestMode = false
		}

		sheets, err := initSheets()
		if err != nil {
			return err
		}
		history, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer history.Close() //nolint:errcheck
		if err := history.Migrate(ctx); err != nil {
			return err
		}
		rules, err := loadRules()
		if err != nil {
			return err
		}

		p := pipeline.New(pipeline.Opts{
			Sheets:    sheets,
			History:   history,
			Rules:     rules,
			Config:    rc,
			SheetName: cfg.Sheets.SheetName,
			Confirm:   os.Stdin,
			Out:       os.Stdout,
		})

		_, err = p.Run(ctx)
		return err
	},
}

func init() {
	dedupeCmd.Flags().Bool("live", false, "allow writing changes back to the sheet (still gated on confirmation)")
	rootCmd.AddCommand(dedupeCmd)
}
