package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"chainchat-server/internal/automation"
)

// Scheduler polls the automation controller's check phase on a fixed cadence
// and fires the execute phase when work is due. It is deliberately dumb: all
// gating lives in the controller, so overlapping or redundant polls are safe.
type Scheduler struct {
	cron       *cron.Cron
	controller *automation.Controller
	poll       time.Duration
	log        zerolog.Logger
}

func New(controller *automation.Controller, poll time.Duration, log zerolog.Logger) *Scheduler {
	if poll <= 0 {
		poll = 30 * time.Second
	}
	return &Scheduler{
		cron:       cron.New(),
		controller: controller,
		poll:       poll,
		log:        log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.poll), s.Poll); err != nil {
		return fmt.Errorf("schedule upkeep poll: %w", err)
	}
	s.cron.Start()
	s.log.Info().Dur("poll", s.poll).Msg("upkeep scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Poll runs one check/execute cycle.
func (s *Scheduler) Poll() {
	needed, data := s.controller.CheckUpkeep(nil)
	if !needed {
		return
	}
	if err := s.controller.PerformUpkeep(context.Background(), data); err != nil {
		s.log.Warn().Err(err).Msg("upkeep failed")
		return
	}
	s.log.Info().Msg("upkeep performed")
}
