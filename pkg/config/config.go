// Package config provides configuration management for the graph engine.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the engine.
type Config struct {
	Engine    EngineConfig    `mapstructure:"engine"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

// EngineConfig holds the engine's build-time/environment knobs. Load
// parses and validates them, but no code outside this package reads them:
// the CLI builds its device queue with device.NewQueue(0) (subgroup width
// 32) and its graph in host memory, the drivers build frontiers with
// 64-bit words, and profiling is switched on by the CLI's --profile flag.
type EngineConfig struct {
	// BitmapWordBits selects the word width used by every level of the
	// multi-level bitmap frontier: 32 or 64.
	BitmapWordBits int `mapstructure:"bitmap_word_bits"`

	// ComputeUnitSize is the logical workgroup size (WG). It is not
	// passed to the device queue or the advance operator.
	ComputeUnitSize int `mapstructure:"compute_unit_size"`

	// GraphLocation is the default memory space ("host", "device", or
	// "shared") CSR and frontier buffers are allocated in when a driver
	// doesn't override it.
	GraphLocation string `mapstructure:"graph_location"`

	// ProfilingEnabled turns on the OpenTelemetry profiler collaborator.
	ProfilingEnabled bool `mapstructure:"profiling_enabled"`

	// MaxIterations bounds iterative algorithms (PageRank) that would
	// otherwise have no natural termination guarantee.
	MaxIterations int `mapstructure:"max_iterations"`
}

// DatabaseConfig holds the optional run-ledger database connection.
type DatabaseConfig struct {
	Type     string `mapstructure:"type"` // postgres, mysql, or sqlite
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	MaxConns int    `mapstructure:"max_conns"`
}

// StorageConfig holds object-storage configuration for graph input files.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`
	Scheme    string `mapstructure:"scheme"`
	LocalPath string `mapstructure:"local_path"`
}

// TelemetryConfig holds the OpenTelemetry exporter configuration used by
// the profiler collaborator.
type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"` // json or text
}

// Load reads configuration from the specified file path, falling back to
// defaults and environment variables (VERTEXFLOW_* prefix).
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/vertexflow")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("config file not found, using defaults")
		} else if os.IsNotExist(err) {
			fmt.Printf("config file %s not found, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("VERTEXFLOW")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw content (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.bitmap_word_bits", 64)
	v.SetDefault("engine.compute_unit_size", 0)
	v.SetDefault("engine.graph_location", "shared")
	v.SetDefault("engine.profiling_enabled", false)
	v.SetDefault("engine.max_iterations", 100)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./graphs")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "vertexflow")
	v.SetDefault("telemetry.sample_ratio", 1.0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "")
	v.SetDefault("log.format", "text")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Engine.BitmapWordBits {
	case 32, 64:
	default:
		return fmt.Errorf("bitmap_word_bits must be 32 or 64, got %d", c.Engine.BitmapWordBits)
	}

	switch c.Engine.GraphLocation {
	case "host", "device", "shared":
	default:
		return fmt.Errorf("graph_location must be host, device, or shared, got %q", c.Engine.GraphLocation)
	}

	switch c.Database.Type {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	if c.Engine.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be at least 1")
	}

	return nil
}
