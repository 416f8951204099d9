package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
)

// Pinger is satisfied by *database.DB.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreHealthProbe keeps the pool warm and reports store liveness.
type StoreHealthProbe struct {
	store Pinger
	now   func() time.Time
}

func NewStoreHealthProbe(store Pinger) *StoreHealthProbe {
	return &StoreHealthProbe{store: store, now: time.Now}
}

// RegisterJobs adds the probe to scheduler at the given interval.
func (p *StoreHealthProbe) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(Job{
		Name:     "store-health-probe",
		Interval: interval,
		Timeout:  interval / 2,
		Fn:       p.Probe,
	})
}

func (p *StoreHealthProbe) Probe(ctx context.Context) error {
	err := p.store.Ping(ctx)
	metrics.RecordStoreProbe(err == nil, p.now())
	if err != nil {
		slog.WarnContext(ctx, "store health probe failed", "error", err)
		return err
	}
	return nil
}
