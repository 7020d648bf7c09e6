package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for both binaries.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Sim      SimConfig      `mapstructure:"sim"`
	Replay   ReplayConfig   `mapstructure:"replay"`
}

// ServerConfig configures the replay playback server.
type ServerConfig struct {
	Address        string        `mapstructure:"address"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig configures the optional result store. When Enabled is
// false the simulator runs without any database.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// LoggingConfig selects log level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// SimConfig configures what the simulator runs.
type SimConfig struct {
	Seed       string `mapstructure:"seed"`
	Games      int    `mapstructure:"games"`
	CardSetDir string `mapstructure:"card_set_dir"` // empty: built-in set only
	FirstDeck  string `mapstructure:"first_deck"`   // deck file; empty: faction default
	SecondDeck string `mapstructure:"second_deck"`
}

// ReplayConfig configures replay recording.
type ReplayConfig struct {
	Record bool   `mapstructure:"record"`
	Dir    string `mapstructure:"dir"`
}

// Load reads configuration from the given YAML file, layered under
// DUELSIM_-prefixed environment variables. A missing file is not an error;
// defaults and environment cover everything.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DUELSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("sim.seed", "duelsim")
	v.SetDefault("sim.games", 1)

	v.SetDefault("replay.record", false)
	v.SetDefault("replay.dir", "replays")
}

func validate(cfg *Config) error {
	if cfg.Sim.Games < 1 {
		return fmt.Errorf("sim.games must be at least 1, got %d", cfg.Sim.Games)
	}
	if cfg.Database.Enabled && cfg.Database.URL == "" {
		return fmt.Errorf("database.enabled requires database.url")
	}
	if cfg.Replay.Record && cfg.Replay.Dir == "" {
		return fmt.Errorf("replay.record requires replay.dir")
	}
	return nil
}
