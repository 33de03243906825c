package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/celiapp/catalog-cli/internal/pipeline"
)

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Run only backup field restoration",
	Long:  "Fills empty brand, subcategory, and type fields from the backup sheet by fuzzy name match. No merging or AI extraction. Dry run unless --live is set.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		live, _ := cmd.Flags().GetBool("live")
		rc := cfg.Reconcile
		rc.EnableNormalization = false
		rc.EnableExactDedup = false
		rc.EnableFuzzyDedup = false
		rc.EnableBrandExtraction = false
		rc.EnableTypeFill = false
		rc.EnableBackupRestoration = true
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

		p := pipeline.New(pipeline.Opts{
			Sheets:     sheets,
			History:    history,
			Config:     rc,
			SheetName:  cfg.Sheets.SheetName,
			BackupName: cfg.Sheets.BackupSheetName,
			Confirm:    os.Stdin,
			Out:        os.Stdout,
		})

		_, err = p.Run(ctx)
		return err
	},
}

func init() {
	restoreCmd.Flags().Bool("live", false, "allow writing changes back to the sheet (still gated on confirmation)")
	rootCmd.AddCommand(restoreCmd)
}
