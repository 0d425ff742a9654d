// Package logger provides structured logging for the config daemon
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nainya/ftsconfig/pkg/settings"
)

// Logger wraps zerolog and doubles as the config store's logging sink
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Pretty     bool   // pretty-print for development
	Output     io.Writer
	WithCaller bool
}

// NewLogger creates a new structured logger
func NewLogger(cfg Config) *Logger {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", "ftsconfig").
		Logger()

	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}

	return &Logger{zlog: zlog}
}

// GetZerolog returns the underlying zerolog logger
func (l *Logger) GetZerolog() *zerolog.Logger {
	return &l.zlog
}

// Info starts an info event
func (l *Logger) Info(msg string) *zerolog.Event {
	return l.zlog.Info().Str("msg", msg)
}

// Warn logs a warning with optional structured context
func (l *Logger) Warn(msg string, fields map[string]any) {
	l.zlog.Warn().Fields(fields).Msg(msg)
}

// Error logs an error with its cause and optional structured context
func (l *Logger) Error(err error, msg string, fields map[string]any) {
	l.zlog.Error().Err(err).Fields(fields).Msg(msg)
}

// Fatal starts a fatal event; sending it exits the process
func (l *Logger) Fatal(msg string) *zerolog.Event {
	return l.zlog.Fatal().Str("msg", msg)
}

// StoreLogger returns the sink handed to the config store
func (l *Logger) StoreLogger(path string) *Logger {
	return &Logger{
		zlog: l.zlog.With().
			Str("component", "config").
			Str("path", path).
			Logger(),
	}
}

// LogGrpcRequest logs gRPC request with structured fields
func (l *Logger) LogGrpcRequest(method string, duration time.Duration, err error) {
	event := l.zlog.Info().
		Str("component", "grpc").
		Str("method", method).
		Dur("duration_ms", duration)

	if err != nil {
		event = l.zlog.Error().
			Str("component", "grpc").
			Str("method", method).
			Dur("duration_ms", duration).
			Err(err)
	}

	event.Msg("gRPC request completed")
}

// LogConfigOperation logs a config load or save with structured fields
func (l *Logger) LogConfigOperation(operation string, duration time.Duration, err error) {
	event := l.zlog.Debug().
		Str("component", "config").
		Str("operation", operation).
		Dur("duration_ms", duration)

	if err != nil {
		event = l.zlog.Error().
			Str("component", "config").
			Str("operation", operation).
			Dur("duration_ms", duration).
			Err(err)
	}

	event.Msg("Config operation completed")
}

// ConfigObserver logs store loads, saves and settings changes
type ConfigObserver struct {
	log *Logger
}

// NewConfigObserver returns an observer writing through l
func NewConfigObserver(l *Logger) *ConfigObserver {
	return &ConfigObserver{log: l}
}

// ObserveOperation logs a completed load or save
func (o *ConfigObserver) ObserveOperation(operation string, duration time.Duration, err error) {
	o.log.LogConfigOperation(operation, duration, err)
}

// ObserveSettings logs the sizes of the flattened lists at debug level
func (o *ConfigObserver) ObserveSettings(s settings.Settings) {
	o.log.zlog.Debug().
		Str("component", "config").
		Bool("enabled", s.Enabled).
		Int("disallowed_content_types", len(s.DisallowedContentTypeAliases)).
		Int("disallowed_properties", len(s.DisallowedPropertyAliases)).
		Int("xpaths_to_remove", len(s.XPathsToRemove)).
		Int("cache_expiry_rules", len(s.CacheExpiryRules)).
		Msg("Config settings changed")
}

// LogServerStart logs server startup
func (l *Logger) LogServerStart(port int, configPath string) {
	l.zlog.Info().
		Str("event", "server_start").
		Int("port", port).
		Str("config", configPath).
		Msg("ftsconfig server starting")
}

// LogServerReady logs when server is ready
func (l *Logger) LogServerReady(port int) {
	l.zlog.Info().
		Str("event", "server_ready").
		Int("port", port).
		Msg("ftsconfig server ready to accept connections")
}

// LogServerShutdown logs server shutdown
func (l *Logger) LogServerShutdown() {
	l.zlog.Info().
		Str("event", "server_shutdown").
		Msg("ftsconfig server shutting down")
}

// Global logger instance
var globalLogger *Logger

// InitGlobalLogger initializes the global logger
func InitGlobalLogger(cfg Config) {
	globalLogger = NewLogger(cfg)
	log.Logger = *globalLogger.GetZerolog()
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		InitGlobalLogger(Config{
			Level:  "info",
			Pretty: true,
		})
	}
	return globalLogger
}
