package layout

import "smartcampus/internal/entities"

// StatusFromRatio derives the zone color from the share of free spaces.
// A zone without a positive total reads as red.
func StatusFromRatio(free, total int) entities.Status {
	if total <= 0 {
		return entities.StatusRed
	}
	ratio := float64(free) / float64(total)
	switch {
	case ratio >= 0.5:
		return entities.StatusGreen
	case ratio >= 0.2:
		return entities.StatusOrange
	default:
		return entities.StatusRed
	}
}

// OccupiedBays returns min(ceil(occupied/vehiclesPerBay), slotCount).
func OccupiedBays(occupied, vehiclesPerBay, slotCount int) int {
	if vehiclesPerBay < 1 {
		vehiclesPerBay = 1
	}
	if occupied <= 0 || slotCount <= 0 {
		return 0
	}
	bays := (occupied + vehiclesPerBay - 1) / vehiclesPerBay
	return min(bays, slotCount)
}

// MapOccupancy marks the first N bays of a pad as occupied, N being the
// aggregate count of the zone. Bays carry no sensor identity, so which bays
// are lit says nothing about which physical spaces are taken.
func MapOccupancy(zone entities.ZoneOccupancy, vehiclesPerBay, slotCount int) []bool {
	if slotCount < 0 {
		slotCount = 0
	}
	flags := make([]bool, slotCount)
	n := OccupiedBays(zone.Occupied, vehiclesPerBay, slotCount)
	for i := 0; i < n; i++ {
		flags[i] = true
	}
	return flags
}
