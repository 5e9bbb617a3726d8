package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Decks     DecksConfig     `mapstructure:"decks"`
	Corpus    CorpusConfig    `mapstructure:"corpus"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Content   ContentConfig   `mapstructure:"content"`
	Outbox    OutboxConfig    `mapstructure:"outbox"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
}

type DecksConfig struct {
	Directories     []string `mapstructure:"directories"`
	EventsDirectory string   `mapstructure:"events_directory"`
}

type CorpusConfig struct {
	CacheDirectory string `mapstructure:"cache_directory"`
	Host           string `mapstructure:"host"`
	Key            string `mapstructure:"key"`
}

type SchedulerConfig struct {
	LeechThreshold  int     `mapstructure:"leech_threshold" validate:"gte=0"`
	MaxIntervalDays float64 `mapstructure:"max_interval_days" validate:"gte=0"`
}

type ContentConfig struct {
	TargetWords     int    `mapstructure:"target_words" validate:"gt=0"`
	OutputDirectory string `mapstructure:"output_directory"`
	BriefTemplate   string `mapstructure:"brief_template" validate:"omitempty,file"`
}

type OutboxConfig struct {
	Path string `mapstructure:"path"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/fluency")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("decks.directories", []string{filepath.Join("notebooks", "decks")})
	v.SetDefault("decks.events_directory", filepath.Join("notebooks", "events"))
	v.SetDefault("corpus.cache_directory", filepath.Join("corpus", "cache"))
	v.SetDefault("scheduler.leech_threshold", 8)
	// Zero keeps the interval ladder's unbounded doubling.
	v.SetDefault("scheduler.max_interval_days", 0)
	v.SetDefault("content.target_words", 12)
	v.SetDefault("content.output_directory", filepath.Join("outputs", "briefs"))
	// Template is optional - if not specified, will use embedded fallback template
	v.SetDefault("content.brief_template", "")
	v.SetDefault("outbox.path", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "local")
	v.SetDefault("database.username", "user")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allowed_origins", []string{"http://localhost:3000"})

	// Bind corpus service credentials to environment variables only (not from config file)
	if err := v.BindEnv("corpus.host", "CORPUS_API_HOST"); err != nil {
		return nil, fmt.Errorf("failed to bind CORPUS_API_HOST environment variable: %w", err)
	}
	if err := v.BindEnv("corpus.key", "CORPUS_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind CORPUS_API_KEY environment variable: %w", err)
	}

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}
