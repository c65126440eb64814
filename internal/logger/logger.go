package logger

import (
	"go-pdx/internal/config"

	"go.uber.org/zap"
)

// NewLogger builds the application logger. Production gets the JSON
// encoder with sampling; everything else gets the readable development
// console encoder.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.IsProduction() {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.EncoderConfig.FunctionKey = "func"

	return zapConfig.Build(zap.AddCaller())
}
