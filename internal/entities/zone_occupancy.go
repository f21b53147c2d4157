package entities

import "time"

type Status string

const (
	StatusGreen  Status = "green"
	StatusOrange Status = "orange"
	StatusRed    Status = "red"
)

// ZoneOccupancy is the normalized occupancy record of one parking zone.
// Status is always derived from Free/Total, never taken from the feed.
type ZoneOccupancy struct {
	ZoneID    string    `json:"zone_id"`
	Total     int       `json:"total"`
	Occupied  int       `json:"occupied"`
	Free      int       `json:"free"`
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`

	SnapLink     string `json:"snap_link,omitempty"`
	CarOccupied  int    `json:"car_occupied"`
	CarFree      int    `json:"car_free"`
	MotoOccupied int    `json:"moto_occupied"`
	MotoFree     int    `json:"moto_free"`
}
