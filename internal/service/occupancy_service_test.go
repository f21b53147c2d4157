package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartcampus/internal/config"
	"smartcampus/internal/entities"
)

type fetchCall struct {
	ctx context.Context
	url string
}

// stubFetcher answers each call from a queue of responders.
type stubFetcher struct {
	mu        sync.Mutex
	calls     chan fetchCall
	responses []func(ctx context.Context) ([]entities.ZoneOccupancy, error)
}

func newStubFetcher(responses ...func(ctx context.Context) ([]entities.ZoneOccupancy, error)) *stubFetcher {
	return &stubFetcher{calls: make(chan fetchCall, 16), responses: responses}
}

func (f *stubFetcher) FetchZones(ctx context.Context, url string) ([]entities.ZoneOccupancy, error) {
	f.mu.Lock()
	respond := f.responses[0]
	f.responses = f.responses[1:]
	f.mu.Unlock()
	f.calls <- fetchCall{ctx: ctx, url: url}
	return respond(ctx)
}

func zones(zs ...entities.ZoneOccupancy) func(context.Context) ([]entities.ZoneOccupancy, error) {
	return func(context.Context) ([]entities.ZoneOccupancy, error) { return zs, nil }
}

func failing(err error) func(context.Context) ([]entities.ZoneOccupancy, error) {
	return func(context.Context) ([]entities.ZoneOccupancy, error) { return nil, err }
}

func blockUntilCancelled(ctx context.Context) ([]entities.ZoneOccupancy, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type recorderStub struct {
	mu    sync.Mutex
	saved [][]entities.ZoneOccupancy
}

func (r *recorderStub) SaveSnapshot(_ context.Context, zs []entities.ZoneOccupancy, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, zs)
	return nil
}

type observerStub struct {
	prev, next []entities.ZoneOccupancy
	calls      int
}

func (o *observerStub) ObserveZones(prev, next []entities.ZoneOccupancy) {
	o.prev, o.next = prev, next
	o.calls++
}

var sources = []config.Source{{Name: "gate", URL: "http://gate/zones"}}

func TestOccupancyService_RefreshReplacesSnapshot(t *testing.T) {
	p1 := entities.ZoneOccupancy{ZoneID: "P1", Total: 10, Free: 6, Status: entities.StatusGreen}
	f := newStubFetcher(zones(p1))
	svc := NewOccupancyService(f, sources)
	rec, obs := &recorderStub{}, &observerStub{}
	svc.SetRecorder(rec)
	svc.SetObserver(obs)

	res, err := svc.Refresh(context.Background(), "gate")
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 1, res.Zones)
	assert.NotEmpty(t, res.RequestID)
	assert.Equal(t, "http://gate/zones", (<-f.calls).url)

	z, ok := svc.Zone("P1")
	require.True(t, ok)
	assert.Equal(t, p1, z.Zone)
	assert.False(t, z.Stale)
	assert.Len(t, rec.saved, 1)
	assert.Equal(t, 1, obs.calls)
	assert.Empty(t, obs.prev)
}

func TestOccupancyService_FailureKeepsSnapshotAndMarksStale(t *testing.T) {
	p1 := entities.ZoneOccupancy{ZoneID: "P1", Total: 10, Free: 1, Status: entities.StatusRed}
	f := newStubFetcher(zones(p1), failing(errors.New("connection refused")))
	svc := NewOccupancyService(f, sources)
	rec := &recorderStub{}
	svc.SetRecorder(rec)

	_, err := svc.Refresh(context.Background(), "gate")
	require.NoError(t, err)
	res, err := svc.Refresh(context.Background(), "gate")
	require.Error(t, err)
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "connection refused")

	snaps := svc.Snapshots()
	require.Len(t, snaps, 1)
	assert.True(t, snaps[0].Stale)
	assert.Equal(t, []entities.ZoneOccupancy{p1}, snaps[0].Zones)
	assert.Contains(t, snaps[0].LastError, "connection refused")

	z, ok := svc.Zone("P1")
	require.True(t, ok)
	assert.True(t, z.Stale)
	assert.Len(t, rec.saved, 1)
}

func TestOccupancyService_NewRefreshCancelsInFlight(t *testing.T) {
	fresh := entities.ZoneOccupancy{ZoneID: "P1", Total: 10, Free: 9, Status: entities.StatusGreen}
	f := newStubFetcher(blockUntilCancelled, zones(fresh))
	svc := NewOccupancyService(f, sources)

	type outcome struct {
		res entities.RefreshResult
		err error
	}
	first := make(chan outcome, 1)
	go func() {
		res, err := svc.Refresh(context.Background(), "gate")
		first <- outcome{res, err}
	}()
	call := <-f.calls

	_, err := svc.Refresh(context.Background(), "gate")
	require.NoError(t, err)

	out := <-first
	assert.ErrorIs(t, out.err, ErrSuperseded)
	assert.ErrorIs(t, call.ctx.Err(), context.Canceled)

	snaps := svc.Snapshots()
	assert.False(t, snaps[0].Stale, "a superseded request must not touch the snapshot")
	assert.Equal(t, []entities.ZoneOccupancy{fresh}, snaps[0].Zones)
}

func TestOccupancyService_CallerCancellationMarksStale(t *testing.T) {
	f := newStubFetcher(blockUntilCancelled)
	svc := NewOccupancyService(f, sources)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.Refresh(ctx, "gate")
		done <- err
	}()
	<-f.calls
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.True(t, svc.Snapshots()[0].Stale)
}

func TestOccupancyService_UnknownGroup(t *testing.T) {
	svc := NewOccupancyService(newStubFetcher(), sources)
	_, err := svc.Refresh(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownGroup)
}

func TestOccupancyService_RefreshAll(t *testing.T) {
	srcs := []config.Source{{Name: "a", URL: "http://a"}, {Name: "b", URL: "http://b"}}
	f := newStubFetcher(
		zones(entities.ZoneOccupancy{ZoneID: "Z"}),
		zones(entities.ZoneOccupancy{ZoneID: "Z"}),
	)
	svc := NewOccupancyService(f, srcs)
	results := svc.RefreshAll(context.Background())
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Group)
	assert.Equal(t, "b", results[1].Group)
	assert.True(t, results[0].OK)
	assert.True(t, results[1].OK)
	assert.Len(t, svc.Zones(), 1)
}

// countingFetcher answers every call at once with a zone whose total is the
// call number.
type countingFetcher struct {
	n atomic.Int64
}

func (f *countingFetcher) FetchZones(context.Context, string) ([]entities.ZoneOccupancy, error) {
	n := int(f.n.Add(1))
	return []entities.ZoneOccupancy{{ZoneID: "P1", Total: n}}, nil
}

type chainObserver struct {
	mu    sync.Mutex
	pairs [][2][]entities.ZoneOccupancy
}

func (o *chainObserver) ObserveZones(prev, next []entities.ZoneOccupancy) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pairs = append(o.pairs, [2][]entities.ZoneOccupancy{prev, next})
}

func TestOccupancyService_ObserverSeesReplacesInOrder(t *testing.T) {
	svc := NewOccupancyService(&countingFetcher{}, sources)
	obs := &chainObserver{}
	svc.SetObserver(obs)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Refresh(context.Background(), "gate")
		}()
	}
	wg.Wait()

	require.NotEmpty(t, obs.pairs)
	assert.Empty(t, obs.pairs[0][0])
	for i := 1; i < len(obs.pairs); i++ {
		assert.Equal(t, obs.pairs[i-1][1], obs.pairs[i][0], "observation %d", i)
	}
	last := obs.pairs[len(obs.pairs)-1][1]
	z, ok := svc.Zone("P1")
	require.True(t, ok)
	assert.Equal(t, last[0], z.Zone)
}
