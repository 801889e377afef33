package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"BreakoutScope/internal/analysis"
	"BreakoutScope/internal/model"
)

// DefaultPath is used when neither --config nor CONFIG_PATH is given.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Instrument string `yaml:"instrument"`
	Benchmark  string `yaml:"benchmark"`
	DataSource struct {
		Source      string            `yaml:"source"` // "yahoo" or "file"
		Range       string            `yaml:"range"`
		CSVDir      string            `yaml:"csv_dir"`
		CSVPaths    map[string]string `yaml:"csv_paths"`
		CalendarMIC string            `yaml:"calendar_mic"` // empty disables calendar filtering
		DropLastBar *bool             `yaml:"drop_last_bar"`
	} `yaml:"data_source"`
	Analysis struct {
		MonthDays     int   `yaml:"month_days"`
		WindowMonths  int   `yaml:"window_months"`
		RearmMonths   int   `yaml:"rearm_months"`
		HorizonMonths int   `yaml:"horizon_months"`
		Checkpoints   []int `yaml:"checkpoints"`
	} `yaml:"analysis"`
	Schedule struct {
		RefreshCron string        `yaml:"refresh_cron"`
		Timezone    string        `yaml:"timezone"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Snapshot struct {
		Path string `yaml:"path"`
	} `yaml:"snapshot"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// ResolvePath picks the config file: an explicit flag wins over CONFIG_PATH,
// which wins over DefaultPath.
func ResolvePath(flag string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// LoadDotEnv loads the first .env file found. Variables already set in the
// environment are not overridden.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env", "configs/.env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
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

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setString("SCOPE_INSTRUMENT", &c.Instrument)
	setString("SCOPE_BENCHMARK", &c.Benchmark)
	setString("SCOPE_SOURCE", &c.DataSource.Source)
	setString("SCOPE_CSV_DIR", &c.DataSource.CSVDir)
	setString("SCOPE_CALENDAR_MIC", &c.DataSource.CalendarMIC)
	setString("TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken)
	setString("TELEGRAM_CHAT_ID", &c.Telegram.ChatID)
	setString("CRON_REFRESH", &c.Schedule.RefreshCron)
	setString("SCOPE_TIMEZONE", &c.Schedule.Timezone)
	setString("SQLITE_PATH", &c.Database.SQLitePath)
	setString("SNAPSHOT_PATH", &c.Snapshot.Path)
	setString("LOG_LEVEL", &c.Log.Level)
	setString("LOG_FORMAT", &c.Log.Format)
	setString("HTTPS_PROXY", &c.Proxy)

	if v := os.Getenv("SCOPE_DROP_LAST_BAR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.DataSource.DropLastBar = &b
		}
	}
	if v := os.Getenv("SCOPE_REFRESH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Schedule.Timeout = d
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Instrument == "" {
		c.Instrument = "AZN.L"
	}
	if c.Benchmark == "" {
		c.Benchmark = "^FTSE"
	}
	if c.DataSource.Source == "" {
		c.DataSource.Source = "yahoo"
	}
	c.DataSource.Source = strings.ToLower(c.DataSource.Source)
	if c.DataSource.Range == "" {
		c.DataSource.Range = "10y"
	}
	if c.DataSource.CSVDir == "" {
		c.DataSource.CSVDir = "data"
	}
	if c.DataSource.DropLastBar == nil {
		drop := true
		c.DataSource.DropLastBar = &drop
	}
	if c.Analysis.MonthDays == 0 {
		c.Analysis.MonthDays = analysis.DefaultMonthDays
	}
	if c.Analysis.WindowMonths == 0 {
		c.Analysis.WindowMonths = analysis.DefaultWindowMonths
	}
	if c.Analysis.RearmMonths == 0 {
		c.Analysis.RearmMonths = analysis.DefaultRearmMonths
	}
	if c.Analysis.HorizonMonths == 0 {
		c.Analysis.HorizonMonths = analysis.DefaultHorizonMonths
	}
	if len(c.Analysis.Checkpoints) == 0 {
		c.Analysis.Checkpoints = append([]int(nil), analysis.DefaultCheckpoints...)
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 0 4 * * *"
	}
	if c.Schedule.Timezone == "" {
		c.Schedule.Timezone = "Europe/London"
	}
	if c.Schedule.Timeout == 0 {
		c.Schedule.Timeout = 2 * time.Minute
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/breakoutscope.db"
	}
	if c.Snapshot.Path == "" {
		c.Snapshot.Path = "data/snapshot.json"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Params converts the analysis section into trading-day parameters.
func (c *Config) Params() model.Params {
	a := c.Analysis
	return analysis.ParamsFromMonths(a.MonthDays, a.WindowMonths, a.RearmMonths, a.HorizonMonths, a.Checkpoints)
}

// DropLastBar reports whether the final fetched bar is discarded.
func (c *Config) DropLastBar() bool {
	return c.DataSource.DropLastBar == nil || *c.DataSource.DropLastBar
}

// Location returns the scheduler time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Schedule.Timezone)
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Instrument == "" {
		return fmt.Errorf("instrument is required")
	}
	if c.Benchmark == "" {
		return fmt.Errorf("benchmark is required")
	}
	if c.Instrument == c.Benchmark {
		return fmt.Errorf("instrument and benchmark must differ")
	}
	switch c.DataSource.Source {
	case "yahoo":
	case "file":
		if c.DataSource.CSVDir == "" && len(c.DataSource.CSVPaths) == 0 {
			return fmt.Errorf("data_source.csv_dir or csv_paths is required for file source")
		}
	default:
		return fmt.Errorf("data_source.source must be yahoo or file, got %q", c.DataSource.Source)
	}
	if err := analysis.ValidateParams(c.Params()); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.Schedule.RefreshCron); err != nil {
		return fmt.Errorf("schedule.refresh_cron: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}
	if c.Schedule.Timeout < 0 {
		return fmt.Errorf("schedule.timeout must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
