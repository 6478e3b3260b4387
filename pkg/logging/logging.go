package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// LogFileName is the name of the log file inside the state directory
	LogFileName = "stencil.log"

	// EnvLogFile overrides the log file location
	EnvLogFile = "STENCIL_LOG_FILE"
)

// Options controls where stencil logs go
type Options struct {
	// Verbosity is the count of -v flags
	Verbosity int

	// Console receives human readable output, os.Stderr when nil
	Console io.Writer

	// LogFile is the JSON log destination. Empty means LogFilePath().
	LogFile string

	// NoFile disables the log file
	NoFile bool
}

var (
	mu      sync.Mutex
	logFile *os.File
)

// LevelForVerbosity maps the -v count to a level. Warnings are shown by
// default since prompts share the terminal with the console writer.
func LevelForVerbosity(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetupLogger configures the global logger for the CLI: console output on
// stderr plus the JSON log file.
func SetupLogger(verbosity int) {
	Setup(Options{Verbosity: verbosity})
}

// Setup replaces the global logger. The previous log file, if any, is closed.
// A log file that cannot be opened is reported once on the console.
func Setup(opts Options) {
	mu.Lock()
	defer mu.Unlock()

	zerolog.SetGlobalLevel(LevelForVerbosity(opts.Verbosity))

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{newConsoleWriter(console, opts.Verbosity)}

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	path := opts.LogFile
	if path == "" {
		path = LogFilePath()
	}
	var fileErr error
	if !opts.NoFile {
		logFile, fileErr = openLogFile(path)
		if fileErr == nil {
			writers = append(writers, logFile)
		}
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if opts.Verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", path).Msg("Failed to create log file, logging to console only")
	}
	log.Debug().Int("verbosity", opts.Verbosity).Str("log_file", path).Msg("Logger initialized")
}

// newConsoleWriter prints short lines until debugging is asked for
func newConsoleWriter(out io.Writer, verbosity int) zerolog.ConsoleWriter {
	w := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
		NoColor:    !colorEnabled(out),
	}
	if verbosity < 2 {
		w.PartsExclude = []string{zerolog.TimestampFieldName}
	}
	return w
}

func colorEnabled(out io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// LogFilePath returns the log file location: STENCIL_LOG_FILE when set,
// otherwise stencil/stencil.log under the XDG state home.
func LogFilePath() string {
	if path := os.Getenv(EnvLogFile); path != "" {
		return path
	}
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = xdg.StateHome
	}
	if stateHome == "" {
		return LogFileName
	}
	return filepath.Join(stateHome, "stencil", LogFileName)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// LogOperationStart logs the start of an operation and returns a function to log its completion
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().
		Str("operation", operation).
		Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
