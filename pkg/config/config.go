package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system.
// This should be called once at application startup.
func Init() error {
	once.Do(func() {
		setDefaults()

		// Environment variable overrides
		viper.SetEnvPrefix("VIDEODIARY")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		// Load config from fixed location (cleaned for safety)
		configPath := filepath.Clean("./config/settings.yaml")
		viper.SetConfigFile(configPath)

		if err := viper.ReadInConfig(); err != nil {
			// A missing config file is fine - defaults and env vars apply
			if !os.IsNotExist(err) {
				initErr = fmt.Errorf("error reading config file %s: %w", configPath, err)
				return
			}
		}

		if err := validate(); err != nil {
			initErr = fmt.Errorf("invalid configuration: %w", err)
		}
	})

	return initErr
}

// GetConfig returns the current configuration as a struct.
// Init() must be called before using this.
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	if viper.GetString("database.path") == "" {
		fmt.Println("Warning: No database path configured, using in-memory database")
	}

	minDur := viper.GetDuration("trim.min_duration")
	maxDur := viper.GetDuration("trim.max_duration")
	if minDur <= 0 || maxDur <= 0 || minDur > maxDur {
		return fmt.Errorf("invalid trim duration bounds: min=%v max=%v", minDur, maxDur)
	}

	if fixed := viper.GetDuration("trim.fixed_duration"); fixed != 0 {
		if fixed < minDur || fixed > maxDur {
			return fmt.Errorf("fixed trim duration %v outside bounds [%v, %v]", fixed, minDur, maxDur)
		}
	}

	// Auto-correct a missing source-duration floor
	if viper.GetDuration("trim.min_source_duration") <= 0 {
		viper.Set("trim.min_source_duration", maxDur)
	}

	// Auto-correct a non-positive processing timeout
	if viper.GetDuration("processing.timeout") <= 0 {
		viper.Set("processing.timeout", 5*time.Minute)
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Trim.MinDuration <= 0 || c.Trim.MaxDuration <= 0 || c.Trim.MinDuration > c.Trim.MaxDuration {
		return fmt.Errorf("invalid trim duration bounds: min=%v max=%v", c.Trim.MinDuration, c.Trim.MaxDuration)
	}

	if c.Trim.FixedDuration != 0 {
		if c.Trim.FixedDuration < c.Trim.MinDuration || c.Trim.FixedDuration > c.Trim.MaxDuration {
			return fmt.Errorf("fixed trim duration %v outside bounds [%v, %v]",
				c.Trim.FixedDuration, c.Trim.MinDuration, c.Trim.MaxDuration)
		}
	}

	if c.Trim.MinSourceDuration <= 0 {
		c.Trim.MinSourceDuration = c.Trim.MaxDuration
	}

	if c.Processing.Timeout <= 0 {
		c.Processing.Timeout = 5 * time.Minute
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.path", "./data/videodiary.db")
	viper.SetDefault("database.verbose", false)

	// Storage defaults
	viper.SetDefault("storage.media_dir", "./data/media")
	viper.SetDefault("storage.scratch_dir", "./tmp")
	viper.SetDefault("storage.sweep_interval", 1*time.Hour)
	viper.SetDefault("storage.max_scratch_age", 24*time.Hour)

	// Trim defaults: 1-5 second bounded selection, 5s source floor
	viper.SetDefault("trim.min_duration", 1*time.Second)
	viper.SetDefault("trim.max_duration", 5*time.Second)
	viper.SetDefault("trim.fixed_duration", 0)
	viper.SetDefault("trim.min_source_duration", 5*time.Second)

	// Processing defaults
	viper.SetDefault("processing.ffmpeg_path", "ffmpeg")
	viper.SetDefault("processing.ffprobe_path", "ffprobe")
	viper.SetDefault("processing.timeout", 5*time.Minute)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
}
