package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartcampus/internal/entities"
)

type prunerStub struct {
	before time.Time
	n      int64
	err    error
}

func (p *prunerStub) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	p.before = before
	return p.n, p.err
}

func TestJobService_PruneHistory(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	p := &prunerStub{n: 3}
	jobs := NewJobService(nil, p, 24*time.Hour)
	jobs.now = func() time.Time { return now }

	require.NoError(t, jobs.PruneHistory(context.Background()))
	assert.Equal(t, now.Add(-24*time.Hour), p.before)

	p.err = errors.New("db down")
	assert.Error(t, jobs.PruneHistory(context.Background()))

	assert.NoError(t, NewJobService(nil, nil, time.Hour).PruneHistory(context.Background()))
}

func TestJobService_RefreshGroupIgnoresSupersede(t *testing.T) {
	f := newStubFetcher(blockUntilCancelled, zones(entities.ZoneOccupancy{ZoneID: "P1"}))
	occ := NewOccupancyService(f, sources)
	jobs := NewJobService(occ, nil, 0)

	done := make(chan error, 1)
	go func() { done <- jobs.RefreshGroup("gate")(context.Background()) }()
	<-f.calls

	_, err := occ.Refresh(context.Background(), "gate")
	require.NoError(t, err)
	assert.NoError(t, <-done)
}

func TestScheduler_RunsAndStops(t *testing.T) {
	sched := NewScheduler()
	ran := make(chan context.Context, 8)
	_, err := sched.Every("tick", time.Second, func(ctx context.Context) error {
		select {
		case ran <- ctx:
		default:
		}
		return nil
	})
	require.NoError(t, err)

	_, err = sched.Every("tick", time.Second, func(context.Context) error { return nil })
	assert.Error(t, err, "task names are unique")
	_, err = sched.Every("zero", 0, func(context.Context) error { return nil })
	assert.Error(t, err)
	_, err = sched.AddTask("bad", "not a spec", func(context.Context) error { return nil })
	assert.Error(t, err)

	sched.Start()
	var taskCtx context.Context
	select {
	case taskCtx = <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("task did not run")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	sched.Stop(stopCtx)
	assert.ErrorIs(t, taskCtx.Err(), context.Canceled)

	sched.Cancel("tick")
	assert.Empty(t, sched.Tasks())
}

func TestJobService_Register(t *testing.T) {
	occ := NewOccupancyService(newStubFetcher(), sources)
	sched := NewScheduler()
	jobs := NewJobService(occ, &prunerStub{}, time.Hour)
	require.NoError(t, jobs.Register(sched, 30*time.Second))
	assert.ElementsMatch(t, []string{"refresh:gate", "prune-history"}, sched.Tasks())
}
