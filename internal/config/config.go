package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance. When configFile is empty the
// usual locations are searched for config.yaml and a missing file is not
// an error.
func New(configFile string) (*Config, error) {
	v := NewEmptyViper()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/spam-model-trainer/")
		v.AddConfigPath("$HOME/.spam-model-trainer")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Environment variables
	v.SetEnvPrefix("SPAM_TRAINER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Dataset defaults
	v.SetDefault("dataset.path", "spam.csv")
	v.SetDefault("dataset.encoding", "latin-1")
	v.SetDefault("dataset.label_column", "v1")
	v.SetDefault("dataset.text_column", "v2")
	v.SetDefault("dataset.unknown_labels", "reject")

	v.SetDefault("text.stopwords_file", "")

	v.SetDefault("features.max_features", 3000)

	v.SetDefault("split.test_fraction", 0.2)
	v.SetDefault("split.seed", 42)

	// Model defaults
	v.SetDefault("model.solver", "gd")
	v.SetDefault("model.max_iter", 1000)
	v.SetDefault("model.learning_rate", 0.1)
	v.SetDefault("model.c", 1.0)
	v.SetDefault("model.tolerance", 1e-4)
	v.SetDefault("model.batch_size", 32)

	// Artifact store defaults
	v.SetDefault("artifacts.store", "file")
	v.SetDefault("artifacts.name", "spam-classifier")
	v.SetDefault("artifacts.model_path", "model.gob")
	v.SetDefault("artifacts.vectorizer_path", "vectorizer.gob")
	v.SetDefault("artifacts.sqlite_path", "artifacts.db")
	v.SetDefault("artifacts.mysql_dsn", "user:password@tcp(localhost:3306)/spam_trainer")

	v.SetDefault("metrics.textfile", "")

	// Spam defaults
	v.SetDefault("spam.threshold", 0.5)
	v.SetDefault("spam.whitelisted_domains", []string{})
	v.SetDefault("spam.top_tokens", 5)

	// Detector defaults
	v.SetDefault("detector.filter_type", "cli")
	v.SetDefault("detector.max_body_size", 65536)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Set overrides a value, taking precedence over file and environment
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetInt64 gets an int64 value from the configuration
func (c *Config) GetInt64(key string) int64 {
	return c.v.GetInt64(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
