package leasing

import (
	"time"

	"github.com/rpggio/spacelease/internal/domain/contract"
)

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithNumberFunc replaces the contract number generator.
func WithNumberFunc(fn contract.NumberFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.number = fn
		}
	}
}

// WithInitialStatus sets the status of contracts created without one.
func WithInitialStatus(status contract.Status) Option {
	return func(s *Service) {
		if status != "" {
			s.initialStatus = status
		}
	}
}
