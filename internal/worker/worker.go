package worker

import (
	"context"
	"time"

	"github.com/rookgm/chinpay/internal/logger"
	"github.com/rookgm/chinpay/internal/metrics"
	"go.uber.org/zap"
)

// Registry is order registry swept by the worker
type Registry interface {
	Sweep(now time.Time, ttl time.Duration) int
}

// Sweeper is worker evicting expired orders from registry
type Sweeper struct {
	reg      Registry
	ttl      time.Duration
	interval time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewSweeper creates new sweeper
func NewSweeper(reg Registry, ttl, interval time.Duration, m *metrics.Metrics) *Sweeper {
	return &Sweeper{
		reg:      reg,
		ttl:      ttl,
		interval: interval,
		metrics:  m,
		now:      time.Now,
	}
}

// Run sweeps registry every interval until ctx is done
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("sweeper is done")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() {
	n := s.reg.Sweep(s.now(), s.ttl)
	s.metrics.Evicted(n)
	logger.Log.Debug("registry swept", zap.Int("evicted", n))
}
