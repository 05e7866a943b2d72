// Package logger builds the structured logger used across the service.
package logger

import "go.uber.org/zap"

// New returns a production zap logger.
func New() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}
