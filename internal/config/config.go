package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Cron    CronConfig    `mapstructure:"cron"`
	Meteora MeteoraConfig `mapstructure:"meteora"`
	Refresh RefreshConfig `mapstructure:"refresh"`
	Stream  StreamConfig  `mapstructure:"stream"`
}

type AppConfig struct {
	Env string `mapstructure:"env"`
	// Timezone is used when rendering timestamps in user-facing messages.
	Timezone string `mapstructure:"timezone"`
}

type ServerConfig struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level             string `mapstructure:"level"`
	Encoding          string `mapstructure:"encoding"`
	Development       bool   `mapstructure:"development"`
	Sampling          bool   `mapstructure:"sampling"`
	DisableCaller     bool   `mapstructure:"disable_caller"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
}

type CronConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	PoolRefresh string `mapstructure:"pool_refresh"`
}

type MeteoraConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

type RefreshConfig struct {
	TopN               int     `mapstructure:"top_n"`
	AddressLength      int     `mapstructure:"address_length"`
	HistoryMaxDiscount float64 `mapstructure:"history_max_discount"`
	RunOnStartup       bool    `mapstructure:"run_on_startup"`
}

type StreamConfig struct {
	Buffer       int           `mapstructure:"buffer"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

func Load(path string, envOnly bool) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.timezone", "Asia/Singapore")
	v.SetDefault("server.http_addr", ":3001")
	v.SetDefault("server.allowed_origins", []string{"http://127.0.0.1:8080", "http://localhost:8080"})
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", true)
	v.SetDefault("log.sampling", false)
	v.SetDefault("log.disable_caller", false)
	v.SetDefault("log.disable_stacktrace", false)
	v.SetDefault("cron.enabled", true)
	// Wall-clock aligned: :00, :20 and :40 of every hour.
	v.SetDefault("cron.pool_refresh", "0 */20 * * * *")
	v.SetDefault("meteora.base_url", "https://dlmm-api.meteora.ag")
	v.SetDefault("meteora.timeout", "30s")
	v.SetDefault("meteora.requests_per_second", 1)
	v.SetDefault("refresh.top_n", 10)
	v.SetDefault("refresh.address_length", 44)
	v.SetDefault("refresh.history_max_discount", 0.1)
	v.SetDefault("refresh.run_on_startup", true)
	v.SetDefault("stream.buffer", 4)
	v.SetDefault("stream.write_timeout", "5s")

	if !envOnly {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Location resolves the display timezone, falling back to UTC.
func (c AppConfig) Location() *time.Location {
	if strings.TrimSpace(c.Timezone) == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
