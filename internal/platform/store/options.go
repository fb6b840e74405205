package store

import (
	"progdex/internal/platform/logger"
)

// Option mutates the Store while Open assembles it
type Option func(*Store) error

// WithLogger routes backend client logging, SQL tracing included
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}
