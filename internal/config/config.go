package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100" validate:"min=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50" validate:"min=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// PipelineConfig controls pipeline execution
type PipelineConfig struct {
	StageTimeout    time.Duration `yaml:"stage_timeout" envconfig:"STAGE_TIMEOUT" default:"10m"`
	ContinueOnError bool          `yaml:"continue_on_error" envconfig:"CONTINUE_ON_ERROR" default:"false"`
}

// AnalysisConfig carries tunables for the analytics stages
type AnalysisConfig struct {
	CompanyClusters  int   `yaml:"company_clusters" envconfig:"COMPANY_CLUSTERS" default:"3" validate:"min=2"`
	UserClusters     int   `yaml:"user_clusters" envconfig:"USER_CLUSTERS" default:"4" validate:"min=2"`
	CustomerClusters int   `yaml:"customer_clusters" envconfig:"CUSTOMER_CLUSTERS" default:"3" validate:"min=2"`
	KMeansRestarts   int   `yaml:"kmeans_restarts" envconfig:"KMEANS_RESTARTS" default:"10" validate:"min=1"`
	ForestTrees      int   `yaml:"forest_trees" envconfig:"FOREST_TREES" default:"300" validate:"min=1"`
	RandomSeed       int64 `yaml:"random_seed" envconfig:"RANDOM_SEED" default:"42"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("CYBERLENS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Overlay file config when present
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a config populated with the struct tag defaults,
// bypassing the environment and config file. Used by tests and tools that
// need a known baseline.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Pipeline: PipelineConfig{
			StageTimeout: 10 * time.Minute,
		},
		Analysis: AnalysisConfig{
			CompanyClusters:  3,
			UserClusters:     4,
			CustomerClusters: 3,
			KMeansRestarts:   10,
			ForestTrees:      300,
			RandomSeed:       42,
		},
	}
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs merges the file config under the env config. Environment values
// win so deployments can override the checked-in file.
func mergeConfigs(file, env Config) Config {
	merged := file

	if env.Server.Port != 0 {
		merged.Server.Port = env.Server.Port
	}
	if env.Server.ReadTimeout != 0 {
		merged.Server.ReadTimeout = env.Server.ReadTimeout
	}
	if env.Server.WriteTimeout != 0 {
		merged.Server.WriteTimeout = env.Server.WriteTimeout
	}
	if env.Server.IdleTimeout != 0 {
		merged.Server.IdleTimeout = env.Server.IdleTimeout
	}
	if env.Server.ShutdownTimeout != 0 {
		merged.Server.ShutdownTimeout = env.Server.ShutdownTimeout
	}
	if len(env.Security.AllowedOrigins) > 0 {
		merged.Security.AllowedOrigins = env.Security.AllowedOrigins
	}
	merged.Security.EnableCORS = env.Security.EnableCORS
	merged.Security.RateLimit = env.Security.RateLimit
	if env.Logging.Level != "" {
		merged.Logging.Level = env.Logging.Level
	}
	if env.Logging.Output != "" {
		merged.Logging.Output = env.Logging.Output
	}
	if env.Logging.FilePath != "" {
		merged.Logging.FilePath = env.Logging.FilePath
	}
	if env.Paths.BaseDir != "" {
		merged.Paths.BaseDir = env.Paths.BaseDir
	}
	if env.Paths.DataDir != "" {
		merged.Paths.DataDir = env.Paths.DataDir
	}
	if env.Paths.LogsDir != "" {
		merged.Paths.LogsDir = env.Paths.LogsDir
	}
	if env.Pipeline.StageTimeout != 0 {
		merged.Pipeline.StageTimeout = env.Pipeline.StageTimeout
	}
	if env.Analysis.CompanyClusters != 0 {
		merged.Analysis = env.Analysis
	}

	return merged
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			fields := make([]string, 0, len(errs))
			for _, fe := range errs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config fields: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

// getConfigFilePath returns the config file path, honoring an override env var
func getConfigFilePath() string {
	if path := os.Getenv("CYBERLENS_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}
