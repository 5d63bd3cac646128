// Package config loads server settings from the environment, an optional
// .env file and command-line flags, in increasing order of precedence.
package config

import "time"

// Config holds all server configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Upload   UploadConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `env:"REPUESTOS_ADDR" default:":8080"`
	ReadTimeout     time.Duration `env:"REPUESTOS_READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `env:"REPUESTOS_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"REPUESTOS_SHUTDOWN_TIMEOUT" default:"5s"`

	// CORSOrigins are the browser origins allowed to call the API,
	// comma-separated. Empty disables CORS.
	CORSOrigins []string `env:"REPUESTOS_CORS_ORIGINS"`
}

// DatabaseConfig holds storage settings.
type DatabaseConfig struct {
	Path string `env:"REPUESTOS_DB" default:"repuestos.sqlite3"`

	// AdminUser is the administrator created on first run.
	AdminUser string `env:"REPUESTOS_ADMIN_USER" default:"admin"`
}

// UploadConfig limits request bodies carrying files.
type UploadConfig struct {
	// MaxBytes caps workbook and photo uploads (default 10 MiB).
	MaxBytes int64 `env:"REPUESTOS_MAX_UPLOAD" default:"10485760"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" default:"info"`
	Format string `env:"LOG_FORMAT" default:"text"`

	// File, when set, receives a copy of every log line.
	File string `env:"REPUESTOS_LOG"`
}
