package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Trim       TrimConfig       `mapstructure:"trim"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// StorageConfig contains file storage settings.
// MediaDir is durable storage for trimmed videos and thumbnails;
// ScratchDir holds intermediate files that may be reclaimed at any time.
type StorageConfig struct {
	MediaDir      string        `mapstructure:"media_dir"`
	ScratchDir    string        `mapstructure:"scratch_dir"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	MaxScratchAge time.Duration `mapstructure:"max_scratch_age"`
}

// TrimConfig contains trim selection policy settings.
// FixedDuration of zero selects the bounded policy
// (MinDuration..MaxDuration); nonzero requires exactly that duration.
type TrimConfig struct {
	MinDuration       time.Duration `mapstructure:"min_duration"`
	MaxDuration       time.Duration `mapstructure:"max_duration"`
	FixedDuration     time.Duration `mapstructure:"fixed_duration"`
	MinSourceDuration time.Duration `mapstructure:"min_source_duration"`
}

// ProcessingConfig contains video processing settings
type ProcessingConfig struct {
	FFmpegPath  string        `mapstructure:"ffmpeg_path"`
	FFprobePath string        `mapstructure:"ffprobe_path"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}
