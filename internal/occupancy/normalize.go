package occupancy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"smartcampus/internal/entities"
	"smartcampus/internal/layout"
)

var ErrEmptyPayload = errors.New("empty occupancy payload")

// rawZone keeps the upstream keys as-is, including their spelling.
type rawZone map[string]json.RawMessage

// DecodeZones parses a payload holding one zone object or an array of them.
// Records without a zone id are dropped; every other bad field reads as 0.
func DecodeZones(body []byte, fetchedAt time.Time) ([]entities.ZoneOccupancy, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrEmptyPayload
	}

	var raws []rawZone
	if body[0] == '[' {
		if err := json.Unmarshal(body, &raws); err != nil {
			return nil, fmt.Errorf("decode zone list: %w", err)
		}
	} else {
		var one rawZone
		if err := json.Unmarshal(body, &one); err != nil {
			return nil, fmt.Errorf("decode zone: %w", err)
		}
		raws = []rawZone{one}
	}

	zones := make([]entities.ZoneOccupancy, 0, len(raws))
	for _, raw := range raws {
		z, ok := Normalize(raw, fetchedAt)
		if !ok {
			continue
		}
		zones = append(zones, z)
	}
	return zones, nil
}

// Normalize maps one upstream record onto ZoneOccupancy.
func Normalize(raw map[string]json.RawMessage, fetchedAt time.Time) (entities.ZoneOccupancy, bool) {
	id := text(raw["zone"])
	if id == "" {
		id = text(raw["id"])
	}
	if id == "" {
		return entities.ZoneOccupancy{}, false
	}

	z := entities.ZoneOccupancy{
		ZoneID:       id,
		Total:        count(raw["total"]),
		Occupied:     count(raw["occupied"]),
		Free:         count(raw["free"]),
		SnapLink:     text(raw["snap_link"]),
		CarOccupied:  count(raw["car-occ"]),
		CarFree:      count(raw["car-free"]),
		MotoOccupied: count(raw["motercycle-occ"]),
		MotoFree:     count(raw["motocycle-free"]),
		Timestamp:    timestamp(raw["timestamp"], fetchedAt),
	}
	z.Status = layout.StatusFromRatio(z.Free, z.Total)
	return z, true
}

// text reads a JSON string or number as a string.
func text(v json.RawMessage) string {
	if len(v) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String()
	}
	return ""
}

// number reads a JSON number or numeric string; anything else is 0.
func number(v json.RawMessage) float64 {
	if len(v) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		s := text(v)
		if s == "" {
			return 0
		}
		f, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func count(v json.RawMessage) int {
	f := number(v)
	if f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// timestamp accepts RFC 3339 strings and unix seconds or milliseconds.
func timestamp(v json.RawMessage, fallback time.Time) time.Time {
	s := text(v)
	if s == "" {
		return fallback.UTC()
	}
	for _, format := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC()
		}
	}
	f := number(v)
	switch {
	case f <= 0:
		return fallback.UTC()
	case f >= 1e12:
		return time.UnixMilli(int64(f)).UTC()
	default:
		return time.Unix(int64(f), 0).UTC()
	}
}
