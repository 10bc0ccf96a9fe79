// Package config загружает настройки клиента из файла, окружения и .env.
// Приоритет: переменные окружения (ZAPSYNC_*) > файл конфигурации > значения по умолчанию.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/iudanet/zapsync/internal/cache/policy"
	"github.com/iudanet/zapsync/internal/validation"
)

// EnvPrefix префикс переменных окружения
const EnvPrefix = "ZAPSYNC"

// Config holds all client configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Network NetworkConfig `mapstructure:"network"`
}

// APIConfig адрес backend и таймаут запросов
type APIConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// StorageConfig расположение локальных баз
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// LogConfig уровень и формат логов
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
}

// CacheConfig настройки персистентного кэша
type CacheConfig struct {
	Domains         map[string]DomainConfig `mapstructure:"domains"`
	Buster          string                  `mapstructure:"buster"`
	MaxAge          time.Duration           `mapstructure:"max_age"`
	CleanupInterval time.Duration           `mapstructure:"cleanup_interval"`
}

// DomainConfig переопределение политики домена. Нулевые значения не меняют политику.
type DomainConfig struct {
	Persist  *bool         `mapstructure:"persist"`
	MaxAge   time.Duration `mapstructure:"max_age"`
	MaxItems int           `mapstructure:"max_items"`
}

// NetworkConfig настройки проверки сети
type NetworkConfig struct {
	ProbeInterval time.Duration `mapstructure:"probe_interval"`
}

// defaults значения по умолчанию, ключи в формате viper
func defaults() map[string]any {
	return map[string]any{
		"api.url":                "http://localhost:8080",
		"api.timeout":            30 * time.Second,
		"storage.data_dir":       ".zapsync",
		"log.level":              "info",
		"log.format":             "text",
		"cache.buster":           "",
		"cache.max_age":          24 * time.Hour,
		"cache.cleanup_interval": 24 * time.Hour,
		"network.probe_interval": 15 * time.Second,
	}
}

// Load читает конфигурацию.
// configPath пустой: файл не используется. envFile пустой: читается .env
// из текущего каталога, если он существует.
func Load(configPath, envFile string) (*Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile загружает .env. Уже заданные переменные окружения не перезаписываются.
func loadEnvFile(envFile string) error {
	path := envFile
	if path == "" {
		path = ".env"
	}

	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	// Отсутствующий .env по умолчанию не ошибка
	if envFile == "" && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load env file %s: %w", path, err)
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.API.URL == "" {
		return errors.New("api.url is required")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.Storage.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}
	if c.Cache.MaxAge <= 0 {
		return errors.New("cache.max_age must be positive")
	}
	if c.Cache.CleanupInterval <= 0 {
		return errors.New("cache.cleanup_interval must be positive")
	}
	if c.Network.ProbeInterval <= 0 {
		return errors.New("network.probe_interval must be positive")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	for name, d := range c.Cache.Domains {
		if err := validation.ValidateDomain(name); err != nil {
			return err
		}
		if d.MaxAge < 0 || d.MaxItems < 0 {
			return fmt.Errorf("cache domain %q: limits cannot be negative", name)
		}
	}

	return nil
}

// PolicyTable возвращает таблицу политик по умолчанию с переопределениями из конфигурации
func (c *Config) PolicyTable() (*policy.Table, error) {
	overrides := make(map[string]policy.Override, len(c.Cache.Domains))
	for name, d := range c.Cache.Domains {
		overrides[name] = policy.Override{
			Persist:  d.Persist,
			MaxAge:   d.MaxAge,
			MaxItems: d.MaxItems,
		}
	}

	table := policy.DefaultTable().WithOverrides(overrides)
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cache policy: %w", err)
	}
	return table, nil
}

// DBPath путь к основной BoltDB базе (снимок кэша, сессия, метаданные)
func (c *Config) DBPath() string {
	return filepath.Join(c.Storage.DataDir, "client.db")
}

// QueuePath путь к SQLite базе офлайн-очереди
func (c *Config) QueuePath() string {
	return filepath.Join(c.Storage.DataDir, "queue.db")
}

// EnsureDataDir создает каталог данных
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.Storage.DataDir, 0o700); err != nil {
		return fmt.Errorf("failed to create data dir %s: %w", c.Storage.DataDir, err)
	}
	return nil
}
