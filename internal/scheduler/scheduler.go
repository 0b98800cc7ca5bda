// Package scheduler runs periodic maintenance jobs. The only job today is
// the session sweep, which deletes expired and revoked sessions once they
// fall out of the retention window.
package scheduler

import (
	"context"
	"errors"
	"time"

	authdomain "github.com/smallbiznis/folio/internal/auth/domain"
	"github.com/smallbiznis/folio/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log         *zap.Logger
	Clock       clock.Clock
	SessionRepo authdomain.SessionRepository
	Config      Config `optional:"true"`
}

type Scheduler struct {
	log         *zap.Logger
	cfg         Config
	clock       clock.Clock
	sessionRepo authdomain.SessionRepository
}

func New(p Params) *Scheduler {
	return &Scheduler{
		log:         p.Log.Named("scheduler"),
		cfg:         p.Config.withDefaults(),
		clock:       p.Clock,
		sessionRepo: p.SessionRepo,
	}
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	jobs := []struct {
		Name string
		Run  func(context.Context) error
	}{
		{"session_sweep", s.SessionSweepJob},
	}

	var err error
	for _, job := range jobs {
		err = errors.Join(err, s.runJob(parent, job.Name, job.Run))
	}
	return err
}

func (s *Scheduler) runJob(parent context.Context, name string, run func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, 30*time.Second)
	defer cancel()

	started := s.clock.Now()
	if err := run(ctx); err != nil {
		s.log.Warn("job failed",
			zap.String("job", name),
			zap.Duration("elapsed", s.clock.Now().Sub(started)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *Scheduler) SessionSweepJob(ctx context.Context) error {
	cutoff := s.clock.Now().Add(-s.cfg.SessionRetention)
	purged, err := s.sessionRepo.PurgeSessions(ctx, cutoff)
	if err != nil {
		return err
	}
	if purged > 0 {
		s.log.Info("purged sessions",
			zap.Int64("count", purged),
			zap.Time("cutoff", cutoff),
		)
	}
	return nil
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("maintenance run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
