package config

import (
	"github.com/go-gl/mathgl/mgl64"

	"smartcampus/internal/layout"
)

// DefaultAnchor is the main gate parking cluster on the campus map.
func DefaultAnchor() layout.Anchor {
	return layout.Anchor{Position: mgl64.Vec3{118, 0.05, -42}, YawDegrees: -12}
}

// DefaultPads describes the car and motorcycle pads around the main gate.
func DefaultPads() []layout.PadLayout {
	offset := func(x, y, z float64) *mgl64.Vec3 {
		v := mgl64.Vec3{x, y, z}
		return &v
	}
	return []layout.PadLayout{
		{
			ID: "car-a", ZoneID: "P1", Kind: layout.KindCar,
			Width: 42, Depth: 24, Scale: 1, VehiclesPerBay: 1,
			LocalOffset: offset(0, 0, 0), TightFit: true,
		},
		{
			ID: "car-b", ZoneID: "P2", Kind: layout.KindCar,
			Width: 30, Depth: 24, Scale: 1, VehiclesPerBay: 1,
			RelativeTo: &layout.Relation{PadID: "car-a", Axis: "x", Side: "right", ExtraGap: 6},
		},
		{
			ID: "moto-a", ZoneID: "M1", Kind: layout.KindMoto,
			Width: 38, Depth: 6, Scale: 1, VehiclesPerBay: 2,
			SlotCount: 45, ForceExactTwoRows: true, FirstRowCount: 30, RowGap: 1.2,
			RelativeTo: &layout.Relation{PadID: "car-a", Axis: "z", Side: "forward", ExtraGap: 3},
		},
		{
			ID: "moto-b", ZoneID: "M2", Kind: layout.KindMoto,
			Width: 14, Depth: 10, RotationDegrees: 90, Scale: 1, VehiclesPerBay: 3,
			FixedOffset: offset(-34, 0, 8),
		},
	}
}
