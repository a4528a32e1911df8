package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

type Task func(ctx context.Context) error

// Scheduler wraps robfig/cron. Runs of the same task never overlap.
type Scheduler struct {
	cron *cron.Cron
	wg   sync.WaitGroup
}

func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
	}
}

// Add registers task under a cron spec ("@every 24h", "0 3 * * *"). With
// runNow it also runs once right away, in the background.
func (s *Scheduler) Add(ctx context.Context, spec, name string, task Task, runNow bool) error {
	run := func() {
		if ctx.Err() != nil {
			return
		}
		if err := task(ctx); err != nil {
			log.Printf("[%s] error: %v", name, err)
		}
	}
	if _, err := s.cron.AddFunc(spec, run); err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	log.Printf("[scheduler] %s scheduled: %s", name, spec)

	if runNow {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			run()
		}()
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for running tasks to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	log.Println("[scheduler] stopped")
}
