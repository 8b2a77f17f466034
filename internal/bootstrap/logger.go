package bootstrap

import "go.uber.org/zap"

// NewLogger picks the zap preset for the environment: JSON in
// production, console everywhere else.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
