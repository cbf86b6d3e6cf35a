package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Sheets struct {
		CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file"`
		// QuotaDelayMS is the pause between spreadsheet API calls, to stay
		// under the per-minute read/write quotas.
		QuotaDelayMS int `mapstructure:"quota_delay_ms" yaml:"quota_delay_ms"`
		// Files maps spreadsheet names to their IDs. Names not listed here
		// are treated as IDs directly.
		Files map[string]string `mapstructure:"files" yaml:"files"`
	} `mapstructure:"sheets" yaml:"sheets"`

	Books struct {
		Workbook     string `mapstructure:"workbook" yaml:"workbook"`
		Transactions string `mapstructure:"transactions" yaml:"transactions"`
		Billing      string `mapstructure:"billing" yaml:"billing"`
	} `mapstructure:"books" yaml:"books"`

	Extraction struct {
		// IncludeBlankNamedGoods keeps colored name cells whose OCR text came
		// out empty as line item placeholders.
		IncludeBlankNamedGoods bool `mapstructure:"include_blank_named_goods" yaml:"include_blank_named_goods"`
	} `mapstructure:"extraction" yaml:"extraction"`

	Matching struct {
		DayMatchThreshold int `mapstructure:"day_match_threshold" yaml:"day_match_threshold"`
	} `mapstructure:"matching" yaml:"matching"`

	Billing struct {
		// NoteThreshold is the price at which a purchase's name is worth a
		// cell note in the budget sheet.
		NoteThreshold string `mapstructure:"note_threshold" yaml:"note_threshold"`
	} `mapstructure:"billing" yaml:"billing"`

	Merchants struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"merchants" yaml:"merchants"`

	AI struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Model   string `mapstructure:"model" yaml:"model"`
		APIKey  string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`
}

// InitializeConfig loads configuration from defaults, an optional config
// file and RECEIPTBOOK_* environment variables, in that precedence order.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.receiptbook")
	v.AddConfigPath(".receiptbook")
	v.AddConfigPath(".")

	v.SetEnvPrefix("RECEIPTBOOK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			Logger.Warnf("error reading config file %s: %v", v.ConfigFileUsed(), err)
		}
	}

	// The API key always comes from the environment, unprefixed.
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		Logger.Warnf("failed to bind GEMINI_API_KEY environment variable: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("sheets.credentials_file", "credentials.json")
	v.SetDefault("sheets.quota_delay_ms", 1100)

	v.SetDefault("books.workbook", "Workbook")
	v.SetDefault("books.transactions", "Transactions")
	v.SetDefault("books.billing", "")

	v.SetDefault("extraction.include_blank_named_goods", true)
	v.SetDefault("matching.day_match_threshold", 2)
	v.SetDefault("billing.note_threshold", "50")
	v.SetDefault("merchants.file", "merchants.yaml")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}
	if config.Sheets.QuotaDelayMS < 0 {
		return fmt.Errorf("invalid quota delay: %d", config.Sheets.QuotaDelayMS)
	}
	if config.Matching.DayMatchThreshold < 0 {
		return fmt.Errorf("invalid day match threshold: %d", config.Matching.DayMatchThreshold)
	}
	return nil
}
