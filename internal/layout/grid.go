package layout

import (
	"math"

	"smartcampus/internal/utils"
)

type Kind string

const (
	KindCar  Kind = "car"
	KindMoto Kind = "moto"
)

// ParseKind accepts the vehicle names used across the campus feeds
// ("car", "suv", "motorcycle", "moto", ...). Unknown names map to car.
func ParseKind(name string) Kind {
	if utils.VehicleKindName(name) == string(KindMoto) {
		return KindMoto
	}
	return KindCar
}

// SlotSpec holds the physical bay dimensions for one vehicle kind.
type SlotSpec struct {
	Width   float64
	Depth   float64
	GapX    float64
	GapZ    float64
	MarginX float64
	MarginZ float64
}

func (s SlotSpec) PitchX() float64 { return s.Width + s.GapX }
func (s SlotSpec) PitchZ() float64 { return s.Depth + s.GapZ }

var (
	carSpec  = SlotSpec{Width: 2.5, Depth: 5.0, GapX: 0.3, GapZ: 0.6, MarginX: 0.5, MarginZ: 0.5}
	motoSpec = SlotSpec{Width: 1.0, Depth: 2.0, GapX: 0.2, GapZ: 0.4, MarginX: 0.3, MarginZ: 0.3}
)

// maxAxisBays bounds the bays along one pad axis.
const maxAxisBays = 1024

// SpecFor returns a copy, the package-level specs are never mutated.
func SpecFor(kind Kind) SlotSpec {
	if kind == KindMoto {
		return motoSpec
	}
	return carSpec
}

// Slot is one bay. X and Z are the bay center relative to the pad center.
type Slot struct {
	X     float64 `json:"x"`
	Z     float64 `json:"z"`
	Width float64 `json:"width"`
	Depth float64 `json:"depth"`
	Row   int     `json:"row"`
	Col   int     `json:"col"`
}

type Grid struct {
	Slots     []Slot  `json:"slots"`
	Cols      int     `json:"cols"`
	Rows      int     `json:"rows"`
	GridWidth float64 `json:"grid_width"`
	GridDepth float64 `json:"grid_depth"`
	Capacity  int     `json:"capacity"`
}

// ComputeGrid packs up to requestedCount bays of the given kind into a
// padWidth x padDepth footprint. Requests beyond capacity are dropped, and
// capacity never drops below one bay even when the pad is too small for it.
func ComputeGrid(kind Kind, padWidth, padDepth float64, requestedCount int) Grid {
	spec := SpecFor(kind)
	pitchX, pitchZ := spec.PitchX(), spec.PitchZ()

	colsCapacity := axisCapacity(padWidth, spec.MarginX, spec.GapX, pitchX)
	rowsCapacity := axisCapacity(padDepth, spec.MarginZ, spec.GapZ, pitchZ)

	grid := Grid{Capacity: colsCapacity * rowsCapacity}

	count := requestedCount
	if count > grid.Capacity {
		count = grid.Capacity
	}
	if count <= 0 {
		grid.Slots = []Slot{}
		return grid
	}

	grid.Rows = (count + colsCapacity - 1) / colsCapacity
	grid.Cols = min(colsCapacity, count)
	grid.GridWidth = float64(grid.Cols)*pitchX - spec.GapX
	grid.GridDepth = float64(grid.Rows)*pitchZ - spec.GapZ

	originX := -grid.GridWidth / 2
	originZ := -grid.GridDepth / 2

	grid.Slots = make([]Slot, 0, count)
	for i := 0; i < count; i++ {
		row, col := i/colsCapacity, i%colsCapacity
		grid.Slots = append(grid.Slots, Slot{
			X:     originX + float64(col)*pitchX + spec.Width/2,
			Z:     originZ + float64(row)*pitchZ + spec.Depth/2,
			Width: spec.Width,
			Depth: spec.Depth,
			Row:   row,
			Col:   col,
		})
	}
	return grid
}

// axisCapacity is the number of bays that fit along one axis, clamped to
// [1, maxAxisBays]. NaN and infinite extents land on the bounds.
func axisCapacity(extent, margin, gap, pitch float64) int {
	f := math.Floor((extent - 2*margin + gap) / pitch)
	if !(f >= 1) {
		return 1
	}
	if f > maxAxisBays {
		return maxAxisBays
	}
	return int(f)
}

// TwoRowLimit is the most bays a two-row pad may hold: the first row, plus
// a second row no longer than the first row or the pad width allows.
func TwoRowLimit(kind Kind, padWidth float64, firstRowCount int) int {
	spec := SpecFor(kind)
	cols := axisCapacity(padWidth, spec.MarginX, spec.GapX, spec.PitchX())
	first := min(max(firstRowCount, 0), maxAxisBays)
	return first + max(cols, first)
}

// ComputeTwoRowGrid is the manual layout for pads the uniform grid cannot
// express: firstRowCount bays in row 0, the rest in row 1, rows rowGap apart.
// The block is centered on the pad and both rows share its right edge.
func ComputeTwoRowGrid(kind Kind, requestedCount, firstRowCount int, rowGap float64) Grid {
	spec := SpecFor(kind)
	pitchX := spec.PitchX()

	if requestedCount < 0 {
		requestedCount = 0
	}
	requestedCount = min(requestedCount, 2*maxAxisBays)
	firstRowCount = min(max(firstRowCount, 0), maxAxisBays)
	if rowGap < 0 {
		rowGap = 0
	}
	first := min(firstRowCount, requestedCount)
	counts := [2]int{first, requestedCount - first}

	grid := Grid{Capacity: requestedCount, Slots: make([]Slot, 0, requestedCount)}
	if requestedCount == 0 {
		return grid
	}

	grid.Cols = max(counts[0], counts[1])
	grid.GridWidth = float64(grid.Cols)*pitchX - spec.GapX
	if counts[0] > 0 && counts[1] > 0 {
		grid.Rows = 2
		grid.GridDepth = 2*spec.Depth + rowGap
	} else {
		grid.Rows = 1
		grid.GridDepth = spec.Depth
	}

	right := grid.GridWidth / 2
	z := -grid.GridDepth/2 + spec.Depth/2
	row := 0
	for _, n := range counts {
		if n == 0 {
			continue
		}
		rowWidth := float64(n)*pitchX - spec.GapX
		startX := right - rowWidth
		for col := 0; col < n; col++ {
			grid.Slots = append(grid.Slots, Slot{
				X:     startX + float64(col)*pitchX + spec.Width/2,
				Z:     z,
				Width: spec.Width,
				Depth: spec.Depth,
				Row:   row,
				Col:   col,
			})
		}
		z += spec.Depth + rowGap
		row++
	}
	return grid
}
