package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"
)

func getLogFilePath() (string, error) {
	dir, err := gap.NewScope(gap.User, "sampler").CacheDir()
	if err != nil {
		return "", err //nolint:wrapcheck
	}
	return filepath.Join(dir, "sampler.log"), nil
}

// setupLog sends logs to a file in the user cache directory; the terminal
// belongs to the TUI.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	logFile, err := getLogFilePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		// log disabled
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		// log disabled
		return func() error { return nil }, nil
	}
	log.SetOutput(f)
	log.SetReportTimestamp(true)
	log.SetLevel(logLevel())
	return f.Close, nil
}

func logLevel() log.Level {
	if viper.GetBool("debug") {
		return log.DebugLevel
	}
	return log.InfoLevel
}
