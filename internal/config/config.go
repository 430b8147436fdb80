package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Stats     StatsConfig     `yaml:"stats" mapstructure:"stats"`
	Boundary  BoundaryConfig  `yaml:"boundary" mapstructure:"boundary"`
	Adjacency AdjacencyConfig `yaml:"adjacency" mapstructure:"adjacency"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StatsConfig configures the per-area statistics store backend.
type StatsConfig struct {
	// Driver selects the store implementation: json, sqlite, or postgres.
	Driver string `yaml:"driver" mapstructure:"driver"`
	// Path is the JSON file or SQLite database path.
	Path string `yaml:"path" mapstructure:"path"`
	// DatabaseURL is the Postgres connection string.
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// BoundaryConfig configures boundary dataset acquisition.
type BoundaryConfig struct {
	// URL is the default boundary dataset location (http, https, or ftp).
	URL string `yaml:"url" mapstructure:"url"`
	// TempDir is where downloaded archives are extracted.
	TempDir string `yaml:"temp_dir" mapstructure:"temp_dir"`
	// RateLimit caps downloader requests per second.
	RateLimit float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// AdjacencyConfig configures the offline adjacency precompute batch.
type AdjacencyConfig struct {
	// CellSizeDeg is the spatial grid cell size in degrees.
	CellSizeDeg float64 `yaml:"cell_size_deg" mapstructure:"cell_size_deg"`
	// ToleranceM is the boundary proximity tolerance in meters.
	ToleranceM float64 `yaml:"tolerance_m" mapstructure:"tolerance_m"`
	// Workers is the number of parallel cell workers (0 = GOMAXPROCS).
	Workers int `yaml:"workers" mapstructure:"workers"`
	// Symmetrize unions reverse edges into the output table.
	Symmetrize bool `yaml:"symmetrize" mapstructure:"symmetrize"`
	// OutputPath is where the adjacency artifact is written.
	OutputPath string `yaml:"output_path" mapstructure:"output_path"`
	// ProgressInterval is how many areas between progress log lines.
	ProgressInterval int `yaml:"progress_interval" mapstructure:"progress_interval"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DEMOGRAPHICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("stats.driver", "json")
	v.SetDefault("stats.path", "data/area_statistics.json")
	v.SetDefault("boundary.temp_dir", "/tmp/boundaries")
	v.SetDefault("boundary.rate_limit", 2.0)
	v.SetDefault("adjacency.cell_size_deg", 0.1)
	v.SetDefault("adjacency.tolerance_m", 50.0)
	v.SetDefault("adjacency.symmetrize", true)
	v.SetDefault("adjacency.output_path", "data/adjacency.json")
	v.SetDefault("adjacency.progress_interval", 1000)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
