package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/celiapp/catalog-cli/internal/normalize"
	"github.com/celiapp/catalog-cli/internal/store"
	"github.com/celiapp/catalog-cli/pkg/anthropic"
	"github.com/celiapp/catalog-cli/pkg/tabular"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		path := cfg.Store.SQLitePath
		if path == "" {
			path = "catalog.db"
		}
		s, err := store.NewSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initSheets() (tabular.Store, error) {
	switch cfg.Tabular.Driver {
	case "gsheets":
		if cfg.Sheets.Token == "" {
			return nil, eris.New("sheets token is required (CATALOG_SHEETS_TOKEN)")
		}
		if cfg.Sheets.SpreadsheetID == "" {
			return nil, eris.New("spreadsheet ID is required (CATALOG_SHEETS_SPREADSHEET_ID)")
		}
		var opts []tabular.GSheetsOption
		if cfg.Sheets.BaseURL != "" {
			opts = append(opts, tabular.WithBaseURL(cfg.Sheets.BaseURL))
		}
		return tabular.NewGSheetsStore(cfg.Sheets.Token, cfg.Sheets.SpreadsheetID, opts...), nil
	case "xlsx":
		if cfg.Tabular.XLSXPath == "" {
			return nil, eris.New("xlsx path is required (CATALOG_TABULAR_XLSX_PATH)")
		}
		return tabular.NewXLSXStore(cfg.Tabular.XLSXPath), nil
	default:
		return nil, eris.Errorf("unsupported tabular driver: %s", cfg.Tabular.Driver)
	}
}

// initAnthropic returns nil without error when AI extraction is disabled;
// the extractor falls back to the rule-based splitter.
func initAnthropic() (anthropic.Client, error) {
	if !cfg.Reconcile.UseAIBrandExtraction {
		return nil, nil
	}
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic API key is required (CATALOG_ANTHROPIC_KEY)")
	}
	return anthropic.NewClient(cfg.Anthropic.Key), nil
}

func loadRules() (*normalize.Ruleset, error) {
	if cfg.Reconcile.RulesFile == "" {
		return normalize.Default(), nil
	}
	return normalize.Load(cfg.Reconcile.RulesFile)
}
