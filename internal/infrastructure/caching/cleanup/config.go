package cleanup

import (
	"time"

	"github.com/ming0627/bellyfed-new-sub002/pkg/config"
)

// Config holds cleanup worker configuration
type Config struct {
	CleanupInterval time.Duration
	AnalyticsBinTTL time.Duration
}

// NewConfig creates cleanup configuration from application defaults
func NewConfig() *Config {
	return &Config{
		CleanupInterval: config.CleanupInterval,
		AnalyticsBinTTL: config.AnalyticsBinTTL,
	}
}
