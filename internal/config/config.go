package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Polygon struct {
		APIKey       string `yaml:"api_key" validate:"required"`
		BaseURL      string `yaml:"base_url" validate:"required,url"`
		LookbackDays int    `yaml:"lookback_days" validate:"gte=0"`
	} `yaml:"polygon"`
	Input struct {
		CSVPath    string `yaml:"csv_path" validate:"required_without=SQLitePath"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"input"`
	Scan struct {
		RSIMode     string        `yaml:"rsi_mode" validate:"oneof=wilder simple"`
		MappingMode string        `yaml:"mapping_mode" validate:"oneof=strict loose"`
		RowDelay    time.Duration `yaml:"row_delay" validate:"gte=0"`
		CacheTTL    time.Duration `yaml:"cache_ttl" validate:"gte=0"`
	} `yaml:"scan"`
	Output struct {
		CSVPath string `yaml:"csv_path" validate:"required"`
	} `yaml:"output"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron" validate:"required"`
	} `yaml:"schedule"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token" validate:"required_with=ChatID"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
		TopN     int    `yaml:"top_n" validate:"gte=0"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional; existing environment variables take precedence.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"POLYGON_API_KEY":    &c.Polygon.APIKey,
		"POLYGON_BASE_URL":   &c.Polygon.BaseURL,
		"INPUT_CSV":          &c.Input.CSVPath,
		"INPUT_SQLITE":       &c.Input.SQLitePath,
		"OUTPUT_CSV":         &c.Output.CSVPath,
		"RSI_MODE":           &c.Scan.RSIMode,
		"MAPPING_MODE":       &c.Scan.MappingMode,
		"CRON_SCAN":          &c.Schedule.ScanCron,
		"HTTP_ADDR":          &c.Server.Addr,
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"HTTPS_PROXY":        &c.Proxy,
	}
	for env, dst := range strs {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("LOOKBACK_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LOOKBACK_DAYS: %w", err)
		}
		c.Polygon.LookbackDays = n
	}
	durs := map[string]*time.Duration{
		"ROW_DELAY": &c.Scan.RowDelay,
		"CACHE_TTL": &c.Scan.CacheTTL,
	}
	for env, dst := range durs {
		if v := os.Getenv(env); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", env, err)
			}
			*dst = d
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Polygon.BaseURL == "" {
		c.Polygon.BaseURL = "https://api.polygon.io"
	}
	if c.Input.CSVPath == "" && c.Input.SQLitePath == "" {
		c.Input.CSVPath = "nyse_11.1.2025.csv"
	}
	c.Scan.RSIMode = strings.ToLower(c.Scan.RSIMode)
	if c.Scan.RSIMode == "" {
		c.Scan.RSIMode = "wilder"
	}
	c.Scan.MappingMode = strings.ToLower(c.Scan.MappingMode)
	if c.Scan.MappingMode == "" {
		c.Scan.MappingMode = "strict"
	}
	if c.Scan.RowDelay == 0 {
		c.Scan.RowDelay = 50 * time.Millisecond
	}
	if c.Scan.CacheTTL == 0 {
		c.Scan.CacheTTL = time.Hour
	}
	if c.Output.CSVPath == "" {
		c.Output.CSVPath = "rsi_relative_sorted.csv"
	}
	if c.Schedule.ScanCron == "" {
		c.Schedule.ScanCron = "0 30 22 * * 1-5"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Telegram.TopN == 0 {
		c.Telegram.TopN = 10
	}
}

// TelegramEnabled reports whether reports should be pushed to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s %s", field, fe.Tag(), fe.Param()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
