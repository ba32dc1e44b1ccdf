// Package logging builds the zap logger used across showcase-engine and
// provides helpers for scrubbing sensitive or user-controlled values before
// they reach a log line.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger constructs the root zap logger for the given environment.
// Local environments get a human-readable development logger at debug level;
// everything else gets the JSON production logger.
func NewLogger(env string) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if env == "local" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}
