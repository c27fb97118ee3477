package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/factupro/factupro/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Document   DocumentConfig   `validate:"required"`
	S3         S3Config
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

// DocumentConfig holds the rendering defaults
type DocumentConfig struct {
	DefaultCurrency types.Currency `mapstructure:"default_currency" validate:"required"`
	// LetterheadFetchTimeout bounds the download of letterheads stored as http(s) urls
	LetterheadFetchTimeout time.Duration `mapstructure:"letterhead_fetch_timeout"`
	// RemoteLetterheads allows company letterheads given as http(s) urls to be downloaded
	// by the server. Off by default: the url comes from an editable company record.
	RemoteLetterheads bool `mapstructure:"remote_letterheads"`
	// ExportConcurrency caps the number of documents rendered in parallel by batch exports
	ExportConcurrency int `mapstructure:"export_concurrency" validate:"gte=0"`
}

// S3Config configures the optional upload of rendered documents
type S3Config struct {
	Enabled   bool   `mapstructure:"enabled"`
	Region    string `mapstructure:"region" validate:"required_if=Enabled true"`
	Bucket    string `mapstructure:"bucket" validate:"required_if=Enabled true"`
	KeyPrefix string `mapstructure:"key_prefix"`
	// Endpoint overrides the aws endpoint, for minio and localstack
	Endpoint string `mapstructure:"endpoint"`
}

func NewConfig() (*Configuration, error) {
	// .env is optional, values already in the environment win
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/factupro")

	v.SetEnvPrefix("FACTUPRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("document.default_currency", types.DefaultCurrency)
	v.SetDefault("document.letterhead_fetch_timeout", 10*time.Second)
	v.SetDefault("document.remote_letterheads", false)
	v.SetDefault("document.export_concurrency", 4)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return c.Document.DefaultCurrency.Validate()
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for the cli and for tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Document: DocumentConfig{
			DefaultCurrency:        types.DefaultCurrency,
			LetterheadFetchTimeout: 10 * time.Second,
			ExportConcurrency:      4,
		},
	}
}
