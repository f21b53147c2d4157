package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler owns every periodic task of the process. Tasks receive a context
// that is cancelled by Stop.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	tasks map[string]cron.EntryID
}

func NewScheduler() *Scheduler {
	logger := cron.PrintfLogger(log.New(os.Stderr, "cron: ", log.LstdFlags))
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger))),
		ctx:    ctx,
		cancel: cancel,
		tasks:  make(map[string]cron.EntryID),
	}
}

// AddTask schedules fn with a cron spec ("@every 30s", "0 * * * *", ...).
func (s *Scheduler) AddTask(name, spec string, fn func(ctx context.Context) error) (cron.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.tasks[name]; dup {
		return 0, fmt.Errorf("task %q already scheduled", name)
	}
	id, err := s.cron.AddFunc(spec, func() {
		if s.ctx.Err() != nil {
			return
		}
		if err := fn(s.ctx); err != nil {
			log.Printf("Scheduled task %s: %v", name, err)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("schedule %s: %w", name, err)
	}
	s.tasks[name] = id
	return id, nil
}

func (s *Scheduler) Every(name string, every time.Duration, fn func(ctx context.Context) error) (cron.EntryID, error) {
	if every <= 0 {
		return 0, fmt.Errorf("task %q: period must be positive", name)
	}
	return s.AddTask(name, "@every "+every.String(), fn)
}

// Cancel removes one task; it is a no-op for unknown names.
func (s *Scheduler) Cancel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.tasks[name]; ok {
		s.cron.Remove(id)
		delete(s.tasks, name)
	}
}

func (s *Scheduler) Tasks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.tasks))
	for n := range s.tasks {
		names = append(names, n)
	}
	return names
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop cancels running tasks and waits for them to return or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		log.Println("Scheduler: tasks did not stop in time")
	}
}
