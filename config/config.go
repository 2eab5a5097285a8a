package config

import (
	"github.com/sshagain/sshagain/internal/session"
	"github.com/sshagain/sshagain/util/conf"
)

type Config struct {
	// LogLevel is the log level for the application
	LogLevel string `conf:"log_level"`

	// LogFormat is the log format for the application
	LogFormat string `conf:"log_format"`

	// Verbose forces debug logging regardless of LogLevel
	Verbose bool `conf:"verbose"`

	// Session is the configuration for the ssh session supervisor
	Session session.Config `conf:"session"`
}

// DefaultConfig is the lowest-precedence configuration layer. Values
// from config files, environment variables and cli flags are merged
// on top of it.
var DefaultConfig = conf.MergeDefaults("", conf.DefaultConfig{
	"log_level":  "info",
	"log_format": "production",
	"verbose":    false,
}, conf.MergeDefaults("session", session.DefaultConfig))
