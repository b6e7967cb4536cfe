package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the settings shared by the CLI and the bot.
// Values come from config.yaml or from environment variables of the same name.
type Config struct {
	Token            string        `mapstructure:"CRAWLBASE_TOKEN"`
	JSToken          string        `mapstructure:"CRAWLBASE_JS_TOKEN"`
	BaseURL          string        `mapstructure:"CRAWLBASE_BASE_URL"`
	Timeout          time.Duration `mapstructure:"CRAWLBASE_TIMEOUT"`
	BadgerDBPath     string        `mapstructure:"BADGERDB_PATH"`
	TelegramBotToken string        `mapstructure:"TELEGRAM_BOT_TOKEN"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]any{
	"CRAWLBASE_TOKEN":    "",
	"CRAWLBASE_JS_TOKEN": "",
	"CRAWLBASE_BASE_URL": "https://api.crawlbase.com",
	"CRAWLBASE_TIMEOUT":  90 * time.Second,
	"BADGERDB_PATH":      "./badger_data",
	"TELEGRAM_BOT_TOKEN": "",
	"LOG_LEVEL":          "info",
}

// LoadConfig reads config.yaml from path (if present) and the environment.
// Environment variables win over the file.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Unmarshal only sees keys viper already knows, so register them all.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if strings.TrimSpace(cfg.Token) == "" {
		return Config{}, fmt.Errorf("CRAWLBASE_TOKEN is not set")
	}
	if cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("CRAWLBASE_TIMEOUT must be positive, got %s", cfg.Timeout)
	}
	return cfg, nil
}
