package db

import "time"

// ZoneOccupancyRow is one row of zone_occupancy_history.
type ZoneOccupancyRow struct {
	ID         int64     `json:"id"`
	ZoneID     string    `json:"zone_id"`
	Total      int       `json:"total"`
	Occupied   int       `json:"occupied"`
	Free       int       `json:"free"`
	Status     string    `json:"status"`
	ObservedAt time.Time `json:"observed_at"`
	FetchedAt  time.Time `json:"fetched_at"`
}
