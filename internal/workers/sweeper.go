package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/robfig/cron/v3"
)

// CronSweeper runs a [Sweeper] on a cron schedule.
type CronSweeper struct {
	cron    *cron.Cron
	sweeper Sweeper
	now     func() time.Time

	logger *logger.Logger
}

// NewCronSweeper parses schedule ("@every 1m", "*/5 * * * *", ...) and
// registers the sweep job.
func NewCronSweeper(sweeper Sweeper, schedule string, logger *logger.Logger) (*CronSweeper, error) {
	s := &CronSweeper{
		cron:    cron.New(),
		sweeper: sweeper,
		now:     time.Now,
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *CronSweeper) Run() {
	s.logger.Info().Msg("starting limiter sweeper")
	s.cron.Start()
}

// Stop waits for a running sweep to finish.
func (s *CronSweeper) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *CronSweeper) sweep() {
	if removed := s.sweeper.Sweep(s.now()); removed > 0 {
		s.logger.Debug().Str("func", "*CronSweeper.sweep").Int("removed", removed).Msg("swept expired limiter buckets")
	}
}
