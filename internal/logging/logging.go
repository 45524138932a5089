// Package logging wires up the driver's structured logger. Every component
// logs through log/slog; this package only decides where those log lines
// go.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Setup opens (creating parent directories as needed) the session log file
// at <dataDir>/pesticide/<session>.log and installs a slog.Logger writing
// to it as the process default. If dataDir is empty, logs go to stderr
// instead. The returned closer should be deferred by the caller.
func Setup(dataDir, session string) (*slog.Logger, io.Closer, error) {
	if dataDir == "" {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		slog.SetDefault(logger)
		return logger, nopCloser{}, nil
	}

	dir := filepath.Join(dataDir, "pesticide")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}

	path := filepath.Join(dir, session+".log")
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger = logger.With("session", session)
	slog.SetDefault(logger)

	return logger, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
