package logger

import "go.uber.org/zap"

// New returns a human-readable debug logger for development and JSON production logging otherwise.
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
