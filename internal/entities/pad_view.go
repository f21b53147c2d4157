package entities

// SlotView is a bay as the renderer draws it.
type SlotView struct {
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
	Width    float64 `json:"width"`
	Depth    float64 `json:"depth"`
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	Occupied bool    `json:"occupied"`
}

type Footprint struct {
	Width float64 `json:"width"`
	Depth float64 `json:"depth"`
}

// PadView is the world transform, footprint and bays of one parking pad.
type PadView struct {
	ID              string         `json:"id"`
	ZoneID          string         `json:"zone_id"`
	Kind            string         `json:"kind"`
	Position        [3]float64     `json:"position"`
	RotationDegrees float64        `json:"rotation_degrees"`
	Scale           float64        `json:"scale"`
	Footprint       Footprint      `json:"footprint"`
	Cols            int            `json:"cols"`
	Rows            int            `json:"rows"`
	Capacity        int            `json:"capacity"`
	OccupiedBays    int            `json:"occupied_bays"`
	Slots           []SlotView     `json:"slots"`
	Status          Status         `json:"status"`
	Stale           bool           `json:"stale"`
	Zone            *ZoneOccupancy `json:"zone,omitempty"`
}
