package cache

import (
	"github.com/factupro/factupro/internal/logger"
)

// Initialize creates the record cache
func Initialize(log *logger.Logger) Cache {
	log.Info("Initializing cache system")
	c := NewInMemoryCache()
	log.Info("Cache system initialized")
	return c
}
