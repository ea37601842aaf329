// Package logger builds the zap logger shared by the server and its tools.
package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a JSON logger in production and a console logger otherwise.
// An empty level keeps the environment default.
func New(env, level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if env == "production" {
		cfg = zap.NewProductionConfig()
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = lvl
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return log.With(zap.String("service", "jargoyle")), nil
}
