// Package logging configures slog handlers for the psmcp process.
//
// Log output defaults to stderr everywhere: when the server runs on the
// stdio transport, stdout carries the MCP protocol stream and must stay
// clean of log lines.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// SetupHandler builds a slog handler for the given level and format
// ("text" or "json"). Unknown formats fall back to text.
func SetupHandler(logLevel, format string, writer io.Writer) slog.Handler {
	if strings.EqualFold(format, "json") {
		return SetupHandlerJSON(logLevel, writer)
	}
	return SetupHandlerText(logLevel, writer)
}

// SetupHandlerText configures a text slog handler with the provided writer and log level
func SetupHandlerText(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}

	reportCaller := false
	reportTimestamp := false
	lvl := log.InfoLevel
	switch strings.ToLower(logLevel) {
	case "trace":
		reportCaller = true
		reportTimestamp = true
		lvl = log.DebugLevel
	case "debug":
		reportTimestamp = true
		lvl = log.DebugLevel
	case "info":
		lvl = log.InfoLevel
	case "warn", "warning":
		lvl = log.WarnLevel
	case "error":
		lvl = log.ErrorLevel
	}

	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: reportTimestamp,
		ReportCaller:    reportCaller,
		Level:           lvl,
	})
}

// SetupHandlerJSON configures a JSON slog handler with the provided writer and log level
func SetupHandlerJSON(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}

	reportCaller := false
	var level slog.Level

	switch strings.ToLower(logLevel) {
	case "trace":
		reportCaller = true
		level = slog.LevelDebug
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: reportCaller,
	}

	return slog.NewJSONHandler(writer, opts)
}

// SetupLogger configures the process-wide default logger based on the
// provided log level, writing text output to stderr.
func SetupLogger(logLevel string) {
	handler := SetupHandlerText(logLevel, nil)
	slog.SetDefault(slog.New(handler))
}
