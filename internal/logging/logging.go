// Package logging provides the named loggers used all over the service.
// Output goes to the console and optionally to a size rotated logfile and
// a GELF endpoint.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aphistic/golf"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config configures the logging output.
type Config struct {
	Level    string `yaml:"level"`
	Filename string `yaml:"filename"`
	Gelfurl  string `yaml:"gelf-url"`
}

// Logger is a named logger with printf style methods.
type Logger struct {
	name string
	sl   *slog.Logger
	gelf *golf.Logger
}

var (
	level slog.LevelVar
	root  = &Logger{sl: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &level}))}

	// Root is the unnamed default logger.
	Root = root
)

// Init configures the package wide logging from the given config. Without
// calling it everything goes to stderr on info level.
func Init(cfg Config) error {
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "", "info":
		level.Set(slog.LevelInfo)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %s", cfg.Level)
	}

	var w io.Writer = os.Stderr
	if cfg.Filename != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     7, // days
		})
	}
	root.sl = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &level}))

	if cfg.Gelfurl != "" {
		c, err := golf.NewClient()
		if err != nil {
			return fmt.Errorf("can't create gelf client: %v", err)
		}
		if err := c.Dial(cfg.Gelfurl); err != nil {
			return fmt.Errorf("can't dial gelf endpoint: %v", err)
		}
		l, err := c.NewLogger()
		if err != nil {
			return fmt.Errorf("can't create gelf logger: %v", err)
		}
		root.gelf = l
	}
	return nil
}

// New returns the root logger, usually followed by WithName.
func New() *Logger {
	return root
}

// WithName returns a logger tagged with the given component name.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		name: name,
		sl:   l.sl.With("component", name),
		gelf: l.gelf,
	}
}

func (l *Logger) Debugf(format string, args ...any) {
	l.sl.Debug(fmt.Sprintf(format, args...))
	if l.gelf != nil {
		_ = l.gelf.Dbgf(format, args...)
	}
}

func (l *Logger) Infof(format string, args ...any) {
	l.sl.Info(fmt.Sprintf(format, args...))
	if l.gelf != nil {
		_ = l.gelf.Infof(format, args...)
	}
}

func (l *Logger) Warnf(format string, args ...any) {
	l.sl.Warn(fmt.Sprintf(format, args...))
	if l.gelf != nil {
		_ = l.gelf.Warnf(format, args...)
	}
}

func (l *Logger) Errorf(format string, args ...any) {
	l.sl.Error(fmt.Sprintf(format, args...))
	if l.gelf != nil {
		_ = l.gelf.Errf(format, args...)
	}
}

// Fatalf logs the message and exits the process.
func (l *Logger) Fatalf(format string, args ...any) {
	l.Errorf(format, args...)
	os.Exit(1)
}

func (l *Logger) Info(msg string) {
	l.Infof("%s", msg)
}

func (l *Logger) Error(msg string) {
	l.Errorf("%s", msg)
}
