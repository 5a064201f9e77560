package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ariel-frischer/relkit/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation settings for --log-file.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// logCloser is the open log file, if any. Closed by closeLogging.
var logCloser io.Closer

// setupLogging configures the default slog logger. --debug logs to stderr at
// debug level. --log-file, or log.file in the settings, logs to a rotating
// file. Without either, logs are discarded.
func setupLogging(cmd *cobra.Command) error {
	closeLogging()

	level := slog.LevelInfo
	logPath := logFileFlag

	// Settings errors surface later from the command that needs them.
	if root, err := projectRoot(); err == nil {
		if cfg, err := config.LoadWithOptions(config.LoadOptions{Root: root, SkipWarnings: true}); err == nil {
			level = parseSlogLevel(cfg.Log.Level, slog.LevelInfo)
			if logPath == "" {
				logPath = cfg.Log.File
			}
		}
	}

	var w io.Writer
	switch {
	case logPath != "":
		lj := &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
		}
		logCloser = lj
		w = lj
		if debugFlag {
			w = io.MultiWriter(lj, cmd.ErrOrStderr())
		}
	case debugFlag:
		w = cmd.ErrOrStderr()
	default:
		w = io.Discard
	}
	if debugFlag {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: debugFlag,
		Level:     level,
	})
	slog.SetDefault(slog.New(handler))
	slog.Debug("logging configured", "file", logPath, "level", level.String())
	return nil
}

func closeLogging() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(value); err == nil {
		return slog.Level(n)
	}
	return defaultLevel
}

// gitDebugLogger forwards go-git step tracing to slog.
func gitDebugLogger(format string, args ...any) {
	slog.Debug(fmt.Sprintf(format, args...), "component", "git")
}
