package service

import (
	"log"
	"sort"
	"sync"

	"smartcampus/internal/entities"
	"smartcampus/internal/layout"
)

type cachedGrid struct {
	requested int
	grid      layout.Grid
}

// LayoutService owns the static pad configuration. Placement is resolved
// once; each pad keeps its last grid until the requested bay count changes,
// so an occupancy refresh usually only re-runs the occupancy mapping.
type LayoutService struct {
	anchor     layout.Anchor
	pads       []layout.PadLayout
	placements layout.Placements

	mu    sync.Mutex
	grids map[string]cachedGrid
}

func NewLayoutService(anchor layout.Anchor, pads []layout.PadLayout) *LayoutService {
	s := &LayoutService{
		anchor:     anchor,
		placements: layout.ResolvePlacements(anchor, pads),
		grids:      make(map[string]cachedGrid),
	}
	// duplicates are already reported by the resolver, the first one wins
	seen := map[string]bool{}
	for _, p := range pads {
		if !seen[p.ID] {
			seen[p.ID] = true
			s.pads = append(s.pads, p)
		}
	}
	for id, err := range s.placements.Skipped {
		log.Printf("Layout: pad %s omitted: %v", id, err)
	}
	return s
}

func (s *LayoutService) grid(p layout.PadLayout, requested int) layout.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.grids[p.ID]; ok && c.requested == requested {
		return c.grid
	}
	g := layout.PackPad(p, requested)
	s.grids[p.ID] = cachedGrid{requested: requested, grid: g}
	return g
}

// Pads builds the renderer view of every placed pad. Pads whose zone has no
// data yet are drawn empty with a red status.
func (s *LayoutService) Pads(zones map[string]ZoneState) []entities.PadView {
	views := make([]entities.PadView, 0, len(s.pads))
	for _, p := range s.pads {
		if v, ok := s.view(p, zones); ok {
			views = append(views, v)
		}
	}
	return views
}

func (s *LayoutService) Pad(id string, zones map[string]ZoneState) (entities.PadView, bool) {
	for _, p := range s.pads {
		if p.ID == id {
			return s.view(p, zones)
		}
	}
	return entities.PadView{}, false
}

func (s *LayoutService) view(p layout.PadLayout, zones map[string]ZoneState) (entities.PadView, bool) {
	pos, ok := s.placements.Positions[p.ID]
	if !ok {
		return entities.PadView{}, false
	}

	state, known := zones[p.Zone()]
	zone := state.Zone
	if !known {
		zone = entities.ZoneOccupancy{ZoneID: p.Zone(), Status: entities.StatusRed}
	}

	g := s.grid(p, layout.RequestedSlots(p, zone))
	v := layout.BuildPad(s.anchor, p, pos, g, zone).View()
	v.Status = zone.Status
	v.Stale = known && state.Stale
	if known {
		z := zone
		v.Zone = &z
	}
	return v, true
}

// PadForZone returns the id of the first placed pad reporting zoneID.
func (s *LayoutService) PadForZone(zoneID string) (string, bool) {
	for _, p := range s.pads {
		if _, ok := s.placements.Positions[p.ID]; ok && p.Zone() == zoneID {
			return p.ID, true
		}
	}
	return "", false
}

func (s *LayoutService) PadLayouts() []layout.PadLayout {
	return append([]layout.PadLayout(nil), s.pads...)
}

// SkippedPads lists placement configuration errors by pad id.
func (s *LayoutService) SkippedPads() map[string]string {
	out := make(map[string]string, len(s.placements.Skipped))
	for id, err := range s.placements.Skipped {
		out[id] = err.Error()
	}
	return out
}

func (s *LayoutService) ZoneIDs() []string {
	seen := map[string]bool{}
	var ids []string
	for _, p := range s.pads {
		if !seen[p.Zone()] {
			seen[p.Zone()] = true
			ids = append(ids, p.Zone())
		}
	}
	sort.Strings(ids)
	return ids
}
