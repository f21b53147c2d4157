package layout

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartcampus/internal/entities"
)

func TestRequestedSlots(t *testing.T) {
	zone := entities.ZoneOccupancy{Total: 45}
	assert.Equal(t, 30, RequestedSlots(PadLayout{SlotCount: 30}, zone))
	assert.Equal(t, 23, RequestedSlots(PadLayout{VehiclesPerBay: 2}, zone))
	assert.Equal(t, 45, RequestedSlots(PadLayout{}, zone))
	assert.Equal(t, 0, RequestedSlots(PadLayout{}, entities.ZoneOccupancy{}))
}

func TestFootprintFor_TightFit(t *testing.T) {
	p := PadLayout{Kind: KindCar, Width: 40, Depth: 30, TightFit: true}
	g := PackPad(p, 3)
	fp := FootprintFor(p, g)
	spec := SpecFor(KindCar)
	assert.InDelta(t, 3*spec.PitchX()-spec.GapX+2*spec.MarginX, fp.Width, 1e-9)
	assert.InDelta(t, spec.Depth+2*spec.MarginZ, fp.Depth, 1e-9)

	p.TightFit = false
	assert.Equal(t, entities.Footprint{Width: 40, Depth: 30}, FootprintFor(p, g))
}

func TestBuildPad_View(t *testing.T) {
	anchor := Anchor{YawDegrees: 10}
	p := PadLayout{
		ID: "moto-1", Kind: KindMoto, RotationDegrees: 5, VehiclesPerBay: 2,
		SlotCount: 45, ForceExactTwoRows: true, FirstRowCount: 30, RowGap: 1,
	}
	zone := entities.ZoneOccupancy{ZoneID: "moto-1", Total: 90, Occupied: 15, Free: 75}
	g := PackPad(p, RequestedSlots(p, zone))
	pad := BuildPad(anchor, p, mgl64.Vec3{1, 0, 2}, g, zone)

	v := pad.View()
	require.Len(t, v.Slots, 45)
	assert.Equal(t, "moto-1", v.ZoneID)
	assert.Equal(t, "moto", v.Kind)
	assert.Equal(t, 15.0, v.RotationDegrees)
	assert.Equal(t, 1.0, v.Scale)
	assert.Equal(t, [3]float64{1, 0, 2}, v.Position)
	assert.Equal(t, 8, v.OccupiedBays)
	assert.True(t, v.Slots[7].Occupied)
	assert.False(t, v.Slots[8].Occupied)
	assert.Equal(t, 2, v.Rows)
}

func TestPackPad_TwoRowCappedByPadWidth(t *testing.T) {
	p := PadLayout{ID: "m", Kind: KindMoto, Width: 20, Depth: 6, VehiclesPerBay: 1,
		ForceExactTwoRows: true, FirstRowCount: 30, RowGap: 1}
	requested := RequestedSlots(p, entities.ZoneOccupancy{Total: math.MaxInt32})
	require.Equal(t, math.MaxInt32, requested)

	g := PackPad(p, requested)
	assert.Len(t, g.Slots, 60)
	assert.Equal(t, 60, g.Capacity)
	assert.Equal(t, 30, g.Cols)
	assert.Equal(t, 2, g.Rows)
}

func TestPackPad_TwoRowWithinLimitIsExact(t *testing.T) {
	p := PadLayout{ID: "m", Kind: KindMoto, Width: 38, ForceExactTwoRows: true, FirstRowCount: 30, SlotCount: 45}
	g := PackPad(p, RequestedSlots(p, entities.ZoneOccupancy{}))
	assert.Len(t, g.Slots, 45)
}
