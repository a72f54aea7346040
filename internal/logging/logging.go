// Package logging configures the process-wide zerolog logger.
//
// Logs go to a file rather than the terminal: the interactive view owns
// stdout, and stray writes would corrupt it. When the log file cannot be
// opened the logger is disabled instead of failing the program.
package logging

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const appDirName = "flakewatch"
const logFileName = "flakewatch.log"

// Setup initializes the global logger. The level is taken from the
// FLAKEWATCH_LOG environment variable (trace, debug, info, warn, error);
// unset or unrecognized values mean warn.
func Setup() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(levelFromEnv())

	path := logPath()
	if path == "" {
		log.Logger = zerolog.Nop()
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Logger = zerolog.Nop()
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Logger = zerolog.Nop()
		return
	}
	log.Logger = zerolog.New(f).With().Timestamp().Logger()
}

func levelFromEnv() zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("FLAKEWATCH_LOG"))) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}

// logPath returns the log file location under the user data directory.
func logPath() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName, logFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", appDirName, logFileName)
}
