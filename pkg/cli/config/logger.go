package config

import (
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/opsdash/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Logger holds logger configuration
type Logger struct {
	Level  string
	Format string
	File   string
}

// Flags returns CLI flags for Logger configuration
func (l *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Category:    "Logging",
			Value:       "info",
			Sources:     cli.EnvVars("OPSDASH_LOG_LEVEL"),
			Destination: &l.Level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json, auto)",
			Category:    "Logging",
			Value:       "auto",
			Sources:     cli.EnvVars("OPSDASH_LOG_FORMAT"),
			Destination: &l.Format,
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "Write logs of the terminal UI commands to this file (discarded when empty)",
			Category:    "Logging",
			Sources:     cli.EnvVars("OPSDASH_LOG_FILE"),
			Destination: &l.File,
		},
	}
}

func (l *Logger) format() (logging.Format, error) {
	return logging.ParseFormat(l.Format)
}

// Configure sets up the logger based on configuration
func (l *Logger) Configure() (*slog.Logger, error) {
	format, err := l.format()
	if err != nil {
		return nil, err
	}

	logger := logging.NewLoggerWithFormat(logging.ParseLogLevel(l.Level), os.Stdout, format)
	return logger, nil
}

// ConfigureForTUI returns a logger that never writes to the terminal. Logs
// go to the log file when one is set and are discarded otherwise. The
// returned closer releases the file.
func (l *Logger) ConfigureForTUI() (*slog.Logger, io.Closer, error) {
	if l.File == "" {
		return logging.Discard(), io.NopCloser(nil), nil
	}

	format, err := l.format()
	if err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(l.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to open log file", goerr.V("path", l.File))
	}
	return logging.NewLoggerWithFormat(logging.ParseLogLevel(l.Level), f, format), f, nil
}

// LogValue returns structured log value
func (l Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", l.Level),
		slog.String("format", l.Format),
		slog.String("file", l.File),
	)
}

// Validate validates the logger configuration
func (l *Logger) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[l.Level] {
		return goerr.New("invalid log level", goerr.V("level", l.Level))
	}

	if _, err := l.format(); err != nil {
		return err
	}

	return nil
}
