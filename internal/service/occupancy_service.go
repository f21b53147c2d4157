package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"smartcampus/internal/config"
	"smartcampus/internal/entities"
)

var (
	ErrUnknownGroup = errors.New("unknown occupancy group")
	ErrSuperseded   = errors.New("refresh superseded by a newer request")
)

type ZoneFetcher interface {
	FetchZones(ctx context.Context, url string) ([]entities.ZoneOccupancy, error)
}

// Recorder persists successful snapshots.
type Recorder interface {
	SaveSnapshot(ctx context.Context, zones []entities.ZoneOccupancy, fetchedAt time.Time) error
}

// StatusObserver is told about every successful replace of a group snapshot,
// in replace order. It must not block.
type StatusObserver interface {
	ObserveZones(prev, next []entities.ZoneOccupancy)
}

// ZoneState is a zone record together with the freshness of its group.
type ZoneState struct {
	Zone  entities.ZoneOccupancy
	Group string
	Stale bool
}

type group struct {
	source config.Source

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// OccupancyService keeps the latest snapshot of every zone group. Each group
// has at most one request in flight; starting a refresh cancels the previous
// one, and a cancelled or failed refresh leaves the old snapshot in place,
// marked stale.
type OccupancyService struct {
	fetcher  ZoneFetcher
	recorder Recorder
	observer StatusObserver
	now      func() time.Time

	groups map[string]*group
	order  []string

	mu        sync.RWMutex
	snapshots map[string]*entities.ZoneSnapshot
}

func NewOccupancyService(fetcher ZoneFetcher, sources []config.Source) *OccupancyService {
	s := &OccupancyService{
		fetcher:   fetcher,
		now:       time.Now,
		groups:    make(map[string]*group, len(sources)),
		snapshots: make(map[string]*entities.ZoneSnapshot, len(sources)),
	}
	for _, src := range sources {
		s.groups[src.Name] = &group{source: src}
		s.order = append(s.order, src.Name)
		s.snapshots[src.Name] = &entities.ZoneSnapshot{Group: src.Name, Zones: []entities.ZoneOccupancy{}}
	}
	return s
}

func (s *OccupancyService) SetRecorder(r Recorder) { s.recorder = r }
func (s *OccupancyService) SetObserver(o StatusObserver) { s.observer = o }

func (s *OccupancyService) Groups() []string {
	return append([]string(nil), s.order...)
}

// Refresh fetches one group. ErrSuperseded means a newer refresh of the same
// group took over; the caller's result was discarded.
func (s *OccupancyService) Refresh(ctx context.Context, name string) (entities.RefreshResult, error) {
	res := entities.RefreshResult{Group: name, RequestID: uuid.NewString()}
	g, ok := s.groups[name]
	if !ok {
		res.Error = ErrUnknownGroup.Error()
		return res, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
	}

	g.mu.Lock()
	if g.cancel != nil {
		g.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	g.gen++
	gen := g.gen
	g.cancel = cancel
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		if g.gen == gen {
			g.cancel = nil
		}
		g.mu.Unlock()
		cancel()
	}()

	zones, fetchErr := s.fetcher.FetchZones(fetchCtx, g.source.URL)
	fetchedAt := s.now().UTC()

	g.mu.Lock()
	if g.gen != gen {
		g.mu.Unlock()
		log.Printf("Occupancy refresh %s (%s): superseded", name, res.RequestID)
		res.Error = ErrSuperseded.Error()
		return res, ErrSuperseded
	}
	if fetchErr != nil {
		s.markStale(name, fetchErr)
	} else {
		prev := s.replace(name, zones, fetchedAt)
		// observers see each group's snapshots in replace order
		if s.observer != nil {
			s.observer.ObserveZones(prev, zones)
		}
	}
	g.mu.Unlock()

	if fetchErr != nil {
		log.Printf("Occupancy refresh %s (%s) failed, keeping previous snapshot: %v", name, res.RequestID, fetchErr)
		res.Error = fetchErr.Error()
		return res, fmt.Errorf("refresh %s: %w", name, fetchErr)
	}

	res.OK = true
	res.Zones = len(zones)
	log.Printf("Occupancy refresh %s (%s): %d zones", name, res.RequestID, len(zones))

	if s.recorder != nil {
		if err := s.recorder.SaveSnapshot(ctx, zones, fetchedAt); err != nil {
			log.Printf("Occupancy refresh %s (%s): history not saved: %v", name, res.RequestID, err)
		}
	}
	return res, nil
}

// RefreshAll refreshes every group concurrently and reports each outcome.
func (s *OccupancyService) RefreshAll(ctx context.Context) []entities.RefreshResult {
	results := make([]entities.RefreshResult, len(s.order))
	var wg sync.WaitGroup
	for i, name := range s.order {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			results[i], _ = s.Refresh(ctx, name)
		}(i, name)
	}
	wg.Wait()
	return results
}

func (s *OccupancyService) replace(name string, zones []entities.ZoneOccupancy, fetchedAt time.Time) []entities.ZoneOccupancy {
	next := &entities.ZoneSnapshot{
		Group:     name,
		Zones:     append([]entities.ZoneOccupancy{}, zones...),
		FetchedAt: fetchedAt,
	}
	s.mu.Lock()
	prev := s.snapshots[name]
	s.snapshots[name] = next
	s.mu.Unlock()
	if prev == nil {
		return nil
	}
	return prev.Zones
}

func (s *OccupancyService) markStale(name string, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snapshots[name]
	next := *prev
	next.Stale = true
	next.LastError = cause.Error()
	s.snapshots[name] = &next
}

// Snapshots returns the current snapshot of every group in configuration order.
func (s *OccupancyService) Snapshots() []entities.ZoneSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.ZoneSnapshot, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.snapshots[name])
	}
	return out
}

// Zones indexes every known zone by id. When two groups report the same
// zone the newest fetch wins.
func (s *OccupancyService) Zones() map[string]ZoneState {
	snaps := s.Snapshots()
	sort.SliceStable(snaps, func(i, j int) bool { return snaps[i].FetchedAt.Before(snaps[j].FetchedAt) })
	out := make(map[string]ZoneState)
	for _, snap := range snaps {
		for _, z := range snap.Zones {
			out[z.ZoneID] = ZoneState{Zone: z, Group: snap.Group, Stale: snap.Stale}
		}
	}
	return out
}

func (s *OccupancyService) Zone(id string) (ZoneState, bool) {
	z, ok := s.Zones()[id]
	return z, ok
}
