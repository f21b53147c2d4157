package entities

import "time"

// ZoneSnapshot is the latest occupancy of one zone group (one upstream source).
type ZoneSnapshot struct {
	Group     string          `json:"group"`
	Zones     []ZoneOccupancy `json:"zones"`
	FetchedAt time.Time       `json:"fetched_at"`
	Stale     bool            `json:"stale"`
	LastError string          `json:"last_error,omitempty"`
}

type RefreshResult struct {
	Group     string `json:"group"`
	RequestID string `json:"request_id"`
	OK        bool   `json:"ok"`
	Zones     int    `json:"zones"`
	Error     string `json:"error,omitempty"`
}
