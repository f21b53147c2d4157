package layout

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrUnknownReference = errors.New("relative_to references an unknown pad")
	ErrNestedReference  = errors.New("relative_to references a pad that is itself relative")
	ErrSelfReference    = errors.New("relative_to references the pad itself")
	ErrDuplicatePad     = errors.New("duplicate pad id")
	ErrBadRelation      = errors.New("invalid relative_to axis/side")
)

type Anchor struct {
	Position   mgl64.Vec3 `json:"position"`
	YawDegrees float64    `json:"yaw_degrees"`
}

// Relation places a pad so it touches another pad along one of its local axes.
type Relation struct {
	PadID    string  `json:"pad_id"`
	Axis     string  `json:"axis"` // x or z
	Side     string  `json:"side"` // left/right on x, forward/back on z
	ExtraGap float64 `json:"extra_gap"`
}

// PadLayout is the static description of one parking pad. Exactly one of
// FixedOffset, LocalOffset and RelativeTo decides its position; a pad with
// none of them sits on the anchor.
type PadLayout struct {
	ID              string  `json:"id"`
	ZoneID          string  `json:"zone_id,omitempty"`
	Kind            Kind    `json:"kind"`
	Width           float64 `json:"width"`
	Depth           float64 `json:"depth"`
	RotationDegrees float64 `json:"rotation_degrees"`
	Scale           float64 `json:"scale"`
	VehiclesPerBay  int     `json:"vehicles_per_bay"`
	SlotCount       int     `json:"slot_count,omitempty"`

	FixedOffset *mgl64.Vec3 `json:"fixed_offset,omitempty"`
	LocalOffset *mgl64.Vec3 `json:"local_offset,omitempty"`
	RelativeTo  *Relation   `json:"relative_to,omitempty"`

	TightFit          bool    `json:"tight_fit,omitempty"`
	ForceExactTwoRows bool    `json:"force_exact_two_rows,omitempty"`
	FirstRowCount     int     `json:"first_row_count,omitempty"`
	RowGap            float64 `json:"row_gap,omitempty"`
}

// Zone returns the occupancy zone the pad reports, defaulting to its id.
func (p PadLayout) Zone() string {
	if p.ZoneID != "" {
		return p.ZoneID
	}
	return p.ID
}

func (p PadLayout) ScaleFactor() float64 {
	if p.Scale <= 0 {
		return 1
	}
	return p.Scale
}

// Yaw is the pad's world yaw in degrees.
func (p PadLayout) Yaw(anchor Anchor) float64 {
	return anchor.YawDegrees + p.RotationDegrees
}

type Placements struct {
	Positions map[string]mgl64.Vec3
	Skipped   map[string]error
}

// ResolvePlacements computes world positions for every pad. Anchored pads
// are resolved first, relative pads second, and a relative pad may only
// point at an anchored one. Misconfigured pads are left out of Positions
// and reported in Skipped.
func ResolvePlacements(anchor Anchor, pads []PadLayout) Placements {
	res := Placements{
		Positions: make(map[string]mgl64.Vec3, len(pads)),
		Skipped:   make(map[string]error),
	}

	byID := make(map[string]PadLayout, len(pads))
	var ordered []PadLayout
	for _, p := range pads {
		if _, dup := byID[p.ID]; dup {
			res.Skipped[p.ID] = fmt.Errorf("pad %q: %w", p.ID, ErrDuplicatePad)
			continue
		}
		byID[p.ID] = p
		ordered = append(ordered, p)
	}

	for _, p := range ordered {
		if p.RelativeTo != nil {
			continue
		}
		pos := anchor.Position
		switch {
		case p.FixedOffset != nil:
			pos = pos.Add(*p.FixedOffset)
		case p.LocalOffset != nil:
			pos = pos.Add(rotateYaw(*p.LocalOffset, p.Yaw(anchor)))
		}
		res.Positions[p.ID] = pos
	}

	for _, p := range ordered {
		if p.RelativeTo == nil {
			continue
		}
		pos, err := resolveRelative(anchor, p, byID, res.Positions)
		if err != nil {
			res.Skipped[p.ID] = fmt.Errorf("pad %q: %w", p.ID, err)
			continue
		}
		res.Positions[p.ID] = pos
	}
	return res
}

func resolveRelative(anchor Anchor, p PadLayout, byID map[string]PadLayout, resolved map[string]mgl64.Vec3) (mgl64.Vec3, error) {
	rel := p.RelativeTo
	if rel.PadID == p.ID {
		return mgl64.Vec3{}, ErrSelfReference
	}
	ref, ok := byID[rel.PadID]
	if !ok {
		return mgl64.Vec3{}, fmt.Errorf("%w: %q", ErrUnknownReference, rel.PadID)
	}
	if ref.RelativeTo != nil {
		return mgl64.Vec3{}, fmt.Errorf("%w: %q", ErrNestedReference, rel.PadID)
	}
	refPos, ok := resolved[rel.PadID]
	if !ok {
		return mgl64.Vec3{}, fmt.Errorf("%w: %q", ErrUnknownReference, rel.PadID)
	}

	offset, err := touchingOffset(ref, p, rel)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return refPos.Add(rotateYaw(offset, p.Yaw(anchor))), nil
}

func touchingOffset(ref, self PadLayout, rel *Relation) (mgl64.Vec3, error) {
	var refSize, selfSize float64
	switch rel.Axis {
	case "x":
		refSize, selfSize = ref.Width, self.Width
	case "z":
		refSize, selfSize = ref.Depth, self.Depth
	default:
		return mgl64.Vec3{}, fmt.Errorf("%w: axis %q", ErrBadRelation, rel.Axis)
	}
	dist := refSize*ref.ScaleFactor()/2 + selfSize*self.ScaleFactor()/2 + rel.ExtraGap

	switch {
	case rel.Axis == "x" && rel.Side == "right":
		return mgl64.Vec3{dist, 0, 0}, nil
	case rel.Axis == "x" && rel.Side == "left":
		return mgl64.Vec3{-dist, 0, 0}, nil
	case rel.Axis == "z" && rel.Side == "back":
		return mgl64.Vec3{0, 0, dist}, nil
	case rel.Axis == "z" && rel.Side == "forward":
		return mgl64.Vec3{0, 0, -dist}, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("%w: side %q on axis %q", ErrBadRelation, rel.Side, rel.Axis)
}

func rotateYaw(v mgl64.Vec3, yawDegrees float64) mgl64.Vec3 {
	if yawDegrees == 0 {
		return v
	}
	return mgl64.Rotate3DY(mgl64.DegToRad(yawDegrees)).Mul3x1(v)
}
