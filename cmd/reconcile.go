package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/celiapp/catalog-cli/internal/pipeline"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run the full reconciliation pipeline",
	Long:  "Loads the catalog sheet, normalizes fields, merges duplicates, restores from backup, fills missing brands, and writes the result back after confirmation. Runs dry unless --live is set.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		live, _ := cmd.Flags().GetBool("live")
		rc := cfg.Reconcile
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
		client, err := initAnthropic()
		if err != nil {
			return err
		}
		rules, err := loadRules()
		if err != nil {
			return err
		}

		p := pipeline.New(pipeline.Opts{
			Sheets:     sheets,
			History:    history,
			Client:     client,
			Rules:      rules,
			Config:     rc,
			Model:      cfg.Anthropic.Model,
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
	reconcileCmd.Flags().Bool("live", false, "allow writing changes back to the sheet (still gated on confirmation)")
	rootCmd.AddCommand(reconcileCmd)
}
