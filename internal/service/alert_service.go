package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"smartcampus/internal/entities"
)

// AlertService notifies when a zone turns red. Zones seen for the first
// time never alert, so a restart does not replay alerts.
type AlertService struct {
	notifiers []Notifier
	timeout   time.Duration
	wg        sync.WaitGroup
}

func NewAlertService(notifiers []Notifier) *AlertService {
	return &AlertService{notifiers: notifiers, timeout: 20 * time.Second}
}

func (s *AlertService) Enabled() bool { return len(s.notifiers) > 0 }

// ObserveZones compares two snapshots of the same group.
func (s *AlertService) ObserveZones(prev, next []entities.ZoneOccupancy) {
	if !s.Enabled() {
		return
	}
	before := make(map[string]entities.Status, len(prev))
	for _, z := range prev {
		before[z.ZoneID] = z.Status
	}
	for _, z := range next {
		old, seen := before[z.ZoneID]
		if !seen || old == entities.StatusRed || z.Status != entities.StatusRed {
			continue
		}
		subject, body := alertMessage(z, old)
		s.send(subject, body)
	}
}

func alertMessage(z entities.ZoneOccupancy, old entities.Status) (string, string) {
	subject := fmt.Sprintf("Parking zone %s is almost full", z.ZoneID)
	body := fmt.Sprintf(
		"Zone %s changed from %s to %s.\nFree: %d of %d (occupied %d).\nReported at %s.",
		z.ZoneID, old, z.Status, z.Free, z.Total, z.Occupied,
		z.Timestamp.Format(time.RFC3339),
	)
	if z.SnapLink != "" {
		body += "\nSnapshot: " + z.SnapLink
	}
	return subject, body
}

func (s *AlertService) send(subject, body string) {
	for _, n := range s.notifiers {
		s.wg.Add(1)
		go func(n Notifier) {
			defer s.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()
			if err := n.Notify(ctx, subject, body); err != nil {
				log.Printf("Alert (async): %s delivery failed: %v", n.Name(), err)
			}
		}(n)
	}
}

// Wait blocks until in-flight notifications are done.
func (s *AlertService) Wait() { s.wg.Wait() }
