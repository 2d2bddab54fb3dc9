package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	CreateLivePhotos bool   `mapstructure:"CREATE_LIVE_PHOTOS"`
	SaveDir          string `mapstructure:"SAVE_DIR"`
	NamingTemplate   string `mapstructure:"NAMING_TEMPLATE"`
	DataDir          string `mapstructure:"DATA_DIR"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	UserAgent             string `mapstructure:"USER_AGENT"`
	HttpConnectTimeoutSec int    `mapstructure:"HTTP_CONNECT_TIMEOUT_SEC"`
	HttpReadTimeoutSec    int    `mapstructure:"HTTP_READ_TIMEOUT_SEC"`
	HttpWriteTimeoutSec   int    `mapstructure:"HTTP_WRITE_TIMEOUT_SEC"`
	MaxConcurrencyNum     int    `mapstructure:"MAX_CONCURRENCY_NUM"`

	CacheBackend       string `mapstructure:"CACHE_BACKEND"`
	CacheDefaultTTLSec int    `mapstructure:"CACHE_DEFAULT_TTL_SEC"`
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int    `mapstructure:"REDIS_DB"`
	RedisKeyPrefix     string `mapstructure:"REDIS_KEY_PREFIX"`

	StoreBackend string `mapstructure:"STORE_BACKEND"`
	SQLitePath   string `mapstructure:"SQLITE_PATH"`
	MySQLDSN     string `mapstructure:"MYSQL_DSN"`
	PostgresDSN  string `mapstructure:"POSTGRES_DSN"`
	MongoURI     string `mapstructure:"MONGO_URI"`
	MongoDB      string `mapstructure:"MONGO_DB"`
}

var AppConfig Config

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

func LoadConfig(path string) error {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("CREATE_LIVE_PHOTOS", true)
	viper.SetDefault("SAVE_DIR", "")
	viper.SetDefault("NAMING_TEMPLATE", "{postId}_{index}")
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("USER_AGENT", defaultUserAgent)
	viper.SetDefault("HTTP_CONNECT_TIMEOUT_SEC", 30)
	viper.SetDefault("HTTP_READ_TIMEOUT_SEC", 60)
	viper.SetDefault("HTTP_WRITE_TIMEOUT_SEC", 30)
	viper.SetDefault("MAX_CONCURRENCY_NUM", 4)
	viper.SetDefault("CACHE_BACKEND", "memory")
	viper.SetDefault("CACHE_DEFAULT_TTL_SEC", 600)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_KEY_PREFIX", "xhsdn:")
	viper.SetDefault("STORE_BACKEND", "file")
	viper.SetDefault("SQLITE_PATH", "data/xhsdn.db")
	viper.SetDefault("MYSQL_DSN", "")
	viper.SetDefault("POSTGRES_DSN", "")
	viper.SetDefault("MONGO_URI", "")
	viper.SetDefault("MONGO_DB", "xhsdn")

	viper.SetEnvPrefix("XHSDN")
	viper.AutomaticEnv()

	// If no config file found, just use defaults/env
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return err
	}
	Normalize(&AppConfig)
	return nil
}

func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.CacheBackend))
	cfg.SaveDir = strings.TrimSpace(cfg.SaveDir)
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.MaxConcurrencyNum < 1 {
		cfg.MaxConcurrencyNum = 1
	}
}
