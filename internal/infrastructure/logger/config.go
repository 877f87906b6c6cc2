package logger

import "os"

// Config controls log level, rendering and destination.
type Config struct {
	Level    string `json:"level"     yaml:"level"`  // debug, info, warn, error
	Format   string `json:"format"    yaml:"format"` // console, json, text
	Output   string `json:"output"    yaml:"output"` // stdout, stderr, file
	FilePath string `json:"file_path" yaml:"file_path"`

	// Rotation settings, used when Output is "file".
	MaxSize    int  `json:"max_size"    yaml:"max_size"` // MB
	MaxBackups int  `json:"max_backups" yaml:"max_backups"`
	MaxAge     int  `json:"max_age"     yaml:"max_age"` // days
	Compress   bool `json:"compress"    yaml:"compress"`
}

// NewDefaultConfig returns a console logger at info level with sane
// rotation settings for when file output is switched on.
func NewDefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
}

// BaseFields returns static fields attached to every log line.
func BaseFields() Fields {
	hostname, _ := os.Hostname()
	fields := Fields{
		"hostname": hostname,
		"pid":      os.Getpid(),
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		fields["environment"] = env
	}
	return fields
}
