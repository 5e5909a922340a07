package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Server    ServerConfig    `mapstructure:"server"`
	Translate TranslateConfig `mapstructure:"translate"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ServerConfig holds the HTTP API configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// TranslateConfig describes the translator chain and each provider.
type TranslateConfig struct {
	// Chain lists provider names in the order they are tried.
	Chain          []string             `mapstructure:"chain"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	LibreTranslate LibreTranslateConfig `mapstructure:"libretranslate"`
	MyMemory       MyMemoryConfig       `mapstructure:"mymemory"`
	OpenAI         OpenAIConfig         `mapstructure:"openai"`
}

// LibreTranslateConfig holds the primary endpoint settings
type LibreTranslateConfig struct {
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

// MyMemoryConfig holds the secondary endpoint settings
type MyMemoryConfig struct {
	URL   string `mapstructure:"url"`
	Email string `mapstructure:"email"`
}

// OpenAIConfig holds the optional LLM translator settings
type OpenAIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// StorageConfig holds the history persistence settings
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	Key    string `mapstructure:"key"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// SetDefaults registers every key with its default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", "8080")
	v.SetDefault("translate.chain", []string{"libretranslate", "mymemory"})
	v.SetDefault("translate.timeout", time.Duration(0))
	v.SetDefault("translate.libretranslate.url", "https://libretranslate.com/translate")
	v.SetDefault("translate.libretranslate.api_key", "")
	v.SetDefault("translate.mymemory.url", "https://api.mymemory.translated.net/get")
	v.SetDefault("translate.mymemory.email", "")
	v.SetDefault("translate.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("translate.openai.api_key", "")
	v.SetDefault("translate.openai.model", "gpt-4o-mini")
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "history.db")
	v.SetDefault("storage.key", "tradutor.history.v1")
}

// Load loads the configuration from config.yaml using the global viper instance.
// CONFIG_PATH, when set, names the config file explicitly.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper(), os.Getenv("CONFIG_PATH"))
}

// LoadFrom reads configuration into v. An explicit path must exist; without
// one, a missing config.yaml leaves the defaults in place.
func LoadFrom(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix("TRADUTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
