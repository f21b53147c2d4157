package layout

import (
	"github.com/go-gl/mathgl/mgl64"

	"smartcampus/internal/entities"
)

// Pad is a placed pad with its bays and per-bay occupancy.
type Pad struct {
	Layout    PadLayout
	Position  mgl64.Vec3
	Yaw       float64
	Footprint entities.Footprint
	Grid      Grid
	Occupied  []bool
}

// RequestedSlots is the bay count asked of the packer: the configured
// SlotCount, or enough bays to show every vehicle the zone reports.
func RequestedSlots(p PadLayout, zone entities.ZoneOccupancy) int {
	if p.SlotCount > 0 {
		return p.SlotCount
	}
	vpb := max(p.VehiclesPerBay, 1)
	if zone.Total <= 0 {
		return 0
	}
	return (zone.Total + vpb - 1) / vpb
}

// PackPad picks the grid mode of the pad. Two-row pads are capped at
// TwoRowLimit since the request may come from an upstream total.
func PackPad(p PadLayout, requested int) Grid {
	if p.ForceExactTwoRows {
		requested = min(requested, TwoRowLimit(p.Kind, p.Width, p.FirstRowCount))
		return ComputeTwoRowGrid(p.Kind, requested, p.FirstRowCount, p.RowGap)
	}
	return ComputeGrid(p.Kind, p.Width, p.Depth, requested)
}

// FootprintFor is the visual pad size: the configured size, or with
// TightFit the grid bounds plus the kind's margins.
func FootprintFor(p PadLayout, g Grid) entities.Footprint {
	if !p.TightFit || len(g.Slots) == 0 {
		return entities.Footprint{Width: p.Width, Depth: p.Depth}
	}
	spec := SpecFor(p.Kind)
	return entities.Footprint{
		Width: g.GridWidth + 2*spec.MarginX,
		Depth: g.GridDepth + 2*spec.MarginZ,
	}
}

// BuildPad assembles a pad from a precomputed grid and the zone record.
func BuildPad(anchor Anchor, p PadLayout, position mgl64.Vec3, g Grid, zone entities.ZoneOccupancy) Pad {
	return Pad{
		Layout:    p,
		Position:  position,
		Yaw:       p.Yaw(anchor),
		Footprint: FootprintFor(p, g),
		Grid:      g,
		Occupied:  MapOccupancy(zone, p.VehiclesPerBay, len(g.Slots)),
	}
}

// View flattens the pad into the shape sent to the renderer.
func (p Pad) View() entities.PadView {
	v := entities.PadView{
		ID:              p.Layout.ID,
		ZoneID:          p.Layout.Zone(),
		Kind:            string(p.Layout.Kind),
		Position:        [3]float64(p.Position),
		RotationDegrees: p.Yaw,
		Scale:           p.Layout.ScaleFactor(),
		Footprint:       p.Footprint,
		Cols:            p.Grid.Cols,
		Rows:            p.Grid.Rows,
		Capacity:        p.Grid.Capacity,
		Slots:           make([]entities.SlotView, len(p.Grid.Slots)),
	}
	for i, s := range p.Grid.Slots {
		occupied := i < len(p.Occupied) && p.Occupied[i]
		if occupied {
			v.OccupiedBays++
		}
		v.Slots[i] = entities.SlotView{
			X: s.X, Z: s.Z, Width: s.Width, Depth: s.Depth,
			Row: s.Row, Col: s.Col, Occupied: occupied,
		}
	}
	return v
}
