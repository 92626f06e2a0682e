package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 儲存機器人與外部相依的執行設定。
type Config struct {
	Discord   DiscordConfig   `yaml:"discord"`
	Fred      FredConfig      `yaml:"fred"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

type DiscordConfig struct {
	Token  string `yaml:"token"`
	Prefix string `yaml:"prefix"`
}

type FredConfig struct {
	APIKey       string        `yaml:"api_key"`
	LookbackDays int           `yaml:"lookback_days"`
	Timeout      time.Duration `yaml:"timeout"`
}

type SchedulerConfig struct {
	FetchInterval time.Duration `yaml:"fetch_interval"`
	ScanInterval  time.Duration `yaml:"scan_interval"`
	NotifyLeadMin time.Duration `yaml:"notify_lead_min"`
	NotifyLeadMax time.Duration `yaml:"notify_lead_max"`
	Timezone      string        `yaml:"timezone"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// LoadFromFile 從 YAML 組態檔載入設定，檔案不存在時僅用預設值與環境變數。
func LoadFromFile(path string) (Config, error) {
	// 嘗試載入 .env 檔案（如果存在）
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config yaml: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg = applyDefaults(cfg)
	cfg = applyEnv(cfg)
	return cfg, nil
}

func applyDefaults(cfg Config) Config {
	if cfg.Discord.Prefix == "" {
		cfg.Discord.Prefix = ";"
	}
	if cfg.Fred.LookbackDays == 0 {
		cfg.Fred.LookbackDays = 30
	}
	if cfg.Fred.Timeout == 0 {
		cfg.Fred.Timeout = 10 * time.Second
	}
	if cfg.Scheduler.FetchInterval == 0 {
		cfg.Scheduler.FetchInterval = 24 * time.Hour
	}
	if cfg.Scheduler.ScanInterval == 0 {
		cfg.Scheduler.ScanInterval = time.Minute
	}
	if cfg.Scheduler.NotifyLeadMin == 0 {
		cfg.Scheduler.NotifyLeadMin = 14 * time.Minute
	}
	if cfg.Scheduler.NotifyLeadMax == 0 {
		cfg.Scheduler.NotifyLeadMax = 15 * time.Minute
	}
	if cfg.Scheduler.Timezone == "" {
		cfg.Scheduler.Timezone = "America/New_York"
	}
	return cfg
}

func applyEnv(cfg Config) Config {
	if val := os.Getenv("DISCORD_TOKEN"); val != "" {
		cfg.Discord.Token = val
	}
	if val := os.Getenv("COMMAND_PREFIX"); val != "" {
		cfg.Discord.Prefix = val
	}
	if val := os.Getenv("FRED_API_KEY"); val != "" {
		cfg.Fred.APIKey = val
	}
	if val := os.Getenv("FETCH_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Scheduler.FetchInterval = d
		}
	}
	if val := os.Getenv("SCAN_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Scheduler.ScanInterval = d
		}
	}
	if val := os.Getenv("METRICS_ADDR"); val != "" {
		cfg.Metrics.Addr = val
	}
	return cfg
}
