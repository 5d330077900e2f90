package leasing

import (
	"context"
	"time"
)

// RunExpirySweep calls ExpireOverdue every interval until ctx is done. Failed
// contracts are logged and retried on the next tick.
func (s *Service) RunExpirySweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("expiry sweep started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("expiry sweep stopped")
			return
		case <-ticker.C:
			if _, err := s.ExpireOverdue(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("expiry sweep incomplete", "error", err)
			}
		}
	}
}

// StartExpirySweep runs RunExpirySweep in a goroutine. The returned stop
// cancels it and blocks until the sweep has returned, so no tick touches the
// store after stop.
func (s *Service) StartExpirySweep(ctx context.Context, interval time.Duration) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.RunExpirySweep(ctx, interval)
	}()
	return func() {
		cancel()
		<-done
	}
}
