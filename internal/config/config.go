package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Sheets    SheetsConfig    `yaml:"sheets" mapstructure:"sheets"`
	Tabular   TabularConfig   `yaml:"tabular" mapstructure:"tabular"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Reconcile ReconcileConfig `yaml:"reconcile" mapstructure:"reconcile"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SheetsConfig holds the Google Sheets endpoint and sheet identifiers.
// Credential bootstrapping is a collaborator concern; the client only
// needs a ready bearer token.
type SheetsConfig struct {
	BaseURL         string `yaml:"base_url" mapstructure:"base_url"`
	Token           string `yaml:"token" mapstructure:"token"`
	SpreadsheetID   string `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	SheetName       string `yaml:"sheet_name" mapstructure:"sheet_name"`
	BackupSheetName string `yaml:"backup_sheet_name" mapstructure:"backup_sheet_name"`
}

// TabularConfig selects the tabular store backend.
type TabularConfig struct {
	Driver   string `yaml:"driver" mapstructure:"driver"` // "gsheets" or "xlsx"
	XLSXPath string `yaml:"xlsx_path" mapstructure:"xlsx_path"`
}

// StoreConfig configures the run-history database.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "postgres"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// AnthropicConfig holds Anthropic API settings for brand extraction.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// ReconcileConfig is the per-run configuration, read once at start and
// passed explicitly into each stage. Immutable for the duration of a run.
type ReconcileConfig struct {
	TestMode bool `yaml:"test_mode" mapstructure:"test_mode"`

	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	AmbiguityMargin     float64 `yaml:"ambiguity_margin" mapstructure:"ambiguity_margin"`

	BatchSize     int `yaml:"batch_size" mapstructure:"batch_size"`
	MaxAIProducts int `yaml:"max_ai_products" mapstructure:"max_ai_products"`
	MinNameLength int `yaml:"min_name_length" mapstructure:"min_name_length"`
	MaxNameLength int `yaml:"max_name_length" mapstructure:"max_name_length"`

	// EnableBrandExtraction gates the whole extraction stage;
	// UseAIBrandExtraction picks the AI path over the rule splitter
	// within it.
	EnableBrandExtraction   bool `yaml:"enable_brand_extraction" mapstructure:"enable_brand_extraction"`
	UseAIBrandExtraction    bool `yaml:"use_ai_brand_extraction" mapstructure:"use_ai_brand_extraction"`
	EnableNormalization     bool `yaml:"enable_normalization" mapstructure:"enable_normalization"`
	EnableExactDedup        bool `yaml:"enable_exact_dedup" mapstructure:"enable_exact_dedup"`
	EnableFuzzyDedup        bool `yaml:"enable_fuzzy_dedup" mapstructure:"enable_fuzzy_dedup"`
	EnableBackupRestoration bool `yaml:"enable_backup_restoration" mapstructure:"enable_backup_restoration"`
	EnableTypeFill          bool `yaml:"enable_type_fill" mapstructure:"enable_type_fill"`

	// RulesFile optionally replaces the built-in normalization tables.
	RulesFile string `yaml:"rules_file" mapstructure:"rules_file"`
}

// Validate rejects settings that would make a run unsafe. Violations are
// fatal before any sheet read.
func (c ReconcileConfig) Validate() error {
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return eris.Errorf("config: similarity_threshold must be in (0,1], got %v", c.SimilarityThreshold)
	}
	if c.AmbiguityMargin < 0 {
		return eris.Errorf("config: ambiguity_margin must be >= 0, got %v", c.AmbiguityMargin)
	}
	if c.BatchSize < 1 {
		return eris.Errorf("config: batch_size must be >= 1, got %d", c.BatchSize)
	}
	if c.MaxAIProducts < 0 {
		return eris.Errorf("config: max_ai_products must be >= 0, got %d", c.MaxAIProducts)
	}
	if c.MinNameLength < 0 || c.MaxNameLength < c.MinNameLength {
		return eris.Errorf("config: invalid name length bounds [%d,%d]", c.MinNameLength, c.MaxNameLength)
	}
	return nil
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sheets.base_url", "https://sheets.googleapis.com/v4")
	v.SetDefault("sheets.sheet_name", "Products")
	v.SetDefault("sheets.backup_sheet_name", "Backup")
	v.SetDefault("tabular.driver", "gsheets")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "catalog-runs.db")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("reconcile.test_mode", true)
	v.SetDefault("reconcile.similarity_threshold", 0.9)
	v.SetDefault("reconcile.ambiguity_margin", 0.02)
	v.SetDefault("reconcile.batch_size", 50)
	v.SetDefault("reconcile.max_ai_products", 500)
	v.SetDefault("reconcile.min_name_length", 5)
	v.SetDefault("reconcile.max_name_length", 100)
	v.SetDefault("reconcile.enable_brand_extraction", true)
	v.SetDefault("reconcile.use_ai_brand_extraction", false)
	v.SetDefault("reconcile.enable_normalization", true)
	v.SetDefault("reconcile.enable_exact_dedup", true)
	v.SetDefault("reconcile.enable_fuzzy_dedup", true)
	v.SetDefault("reconcile.enable_backup_restoration", true)
	v.SetDefault("reconcile.enable_type_fill", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Reconcile.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
