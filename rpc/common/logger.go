package common

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/rs/zerolog"
)

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// hmsLogger implements the ILogger interface on top of a zerolog logger
type hmsLogger struct {
	name   string
	level  logger.LogLevel
	logger zerolog.Logger
}

func (l *hmsLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *hmsLogger) Debugf(format string, args ...interface{}) {
	if l.level >= logger.DEBUG {
		l.logger.Debug().Msgf(format, args...)
	}
}

func (l *hmsLogger) Infof(format string, args ...interface{}) {
	if l.level >= logger.INFO {
		l.logger.Info().Msgf(format, args...)
	}
}

func (l *hmsLogger) Warningf(format string, args ...interface{}) {
	if l.level >= logger.WARNING {
		l.logger.Warn().Msgf(format, args...)
	}
}

func (l *hmsLogger) Errorf(format string, args ...interface{}) {
	if l.level >= logger.ERROR {
		l.logger.Error().Msgf(format, args...)
	}
}

func (l *hmsLogger) Panicf(format string, args ...interface{}) {
	if l.level >= logger.CRITICAL {
		panic(fmt.Sprintf(format, args...))
	}
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// logOutput is where all loggers created by CreateLogger write to
var logOutput io.Writer = os.Stdout

// CreateLogger implements the dragonboat logger.Factory
func CreateLogger(pkgName string) logger.ILogger {
	console := zerolog.ConsoleWriter{
		Out:        logOutput,
		TimeFormat: time.DateTime,
		FormatMessage: func(i interface{}) string {
			return fmt.Sprintf("%-15s | %s", pkgName, i)
		},
	}

	return &hmsLogger{
		name:   pkgName,
		level:  logger.INFO,
		logger: zerolog.New(console).With().Timestamp().Logger(),
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return logger.INFO, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// loggerNames are the loggers of all packages of this module
var loggerNames = []string{"rpc", "transport/rpc", "server", "conf"}

// InitLoggers installs the custom logger factory and sets the level of all
// package loggers. It must be called before any logger is used.
func InitLoggers(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}

	// Set as the global logger factory
	logger.SetLoggerFactory(CreateLogger)

	for _, name := range loggerNames {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}
