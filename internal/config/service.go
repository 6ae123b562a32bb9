package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// ConfigService implements the Service interface
type ConfigService struct {
	logger Logger
}

// NewConfigService creates a new configuration service
func NewConfigService(logger Logger) *ConfigService {
	return &ConfigService{
		logger: logger,
	}
}

// Load loads the configuration from the specified path
func (s *ConfigService) Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	// Use test configuration file if ENV is set to test
	if os.Getenv("ENV") == "test" {
		viper.SetConfigName("config_test")
	} else {
		viper.SetConfigName("config")
	}
	viper.SetConfigType("yaml")

	// Set default values
	s.setDefaults()

	// Read the config file
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %v", err)
	}

	// Validate the configuration
	if err := s.validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	s.logger.LogInfo("Configuration loaded successfully", nil)
	return &config, nil
}

// setDefaults sets default values for configuration
func (s *ConfigService) setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.timezone", "UTC")
	viper.SetDefault("database.pool.maxOpen", 100)
	viper.SetDefault("database.pool.maxIdle", 10)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("scylladb.hosts", []string{"localhost:9042"})
	viper.SetDefault("scylladb.keyspace", "clipstream")
	viper.SetDefault("scylladb.consistency", "ONE")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
	viper.SetDefault("storage.uploadDir", "uploads")
	viper.SetDefault("engagement.maxCommentDepth", 3)
	viper.SetDefault("engagement.defaultPageSize", 10)
	viper.SetDefault("engagement.maxPageSize", 100)
	viper.SetDefault("engagement.maxContentLength", 2000)
	viper.SetDefault("engagement.viewCacheTTL", "24h")
	viper.SetDefault("engagement.commentCacheTTL", "30s")
	viper.SetDefault("notification.enabled", true)
	viper.SetDefault("notification.keyspace", "clipstream")
}

// validate performs validation on the configuration
func (s *ConfigService) validate(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("invalid server port")
	}

	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Database.Dbname == "" {
		return fmt.Errorf("database name is required")
	}

	if config.Engagement.MaxCommentDepth < 1 {
		return fmt.Errorf("engagement.maxCommentDepth must be at least 1")
	}

	if config.Engagement.MaxPageSize < config.Engagement.DefaultPageSize {
		return fmt.Errorf("engagement.maxPageSize must not be smaller than defaultPageSize")
	}

	return nil
}
