// Package scene tracks the highlight and selection intents the renderer
// applies to scene objects. Objects are referenced by stable string ids; the
// renderer keeps ownership of its scene graph.
package scene

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrUnknownObject = errors.New("unknown scene object")

const (
	SelectionColor = "#ffd54f"
	maxEvents      = 64
)

type Object struct {
	ID          string `json:"id"`
	BaseColor   string `json:"base_color"`
	Color       string `json:"color"`
	Highlighted bool   `json:"highlighted"`
}

// SelectionEvent is emitted when a zone region is picked on the map.
type SelectionEvent struct {
	ID     string    `json:"id"`
	ZoneID string    `json:"zone_id"`
	PadID  string    `json:"pad_id,omitempty"`
	At     time.Time `json:"at"`
}

type Registry struct {
	mu      sync.RWMutex
	objects map[string]*Object
	events  []SelectionEvent
	now     func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{objects: make(map[string]*Object), now: time.Now}
}

// Register adds an object or resets its base color.
func (r *Registry) Register(id, baseColor string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.objects[id] = &Object{ID: id, BaseColor: baseColor, Color: baseColor}
}

func (r *Registry) Highlight(id, color string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	obj, ok := r.objects[id]
	if !ok {
		return ErrUnknownObject
	}
	if color == "" {
		color = SelectionColor
	}
	obj.Color = color
	obj.Highlighted = true
	return nil
}

// Clear restores every object to its base color.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
}

func (r *Registry) clearLocked() {
	for _, obj := range r.objects {
		obj.Color = obj.BaseColor
		obj.Highlighted = false
	}
}

// Select records a zone selection and highlights the zone's pad, if any.
func (r *Registry) Select(zoneID, padID string) SelectionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clearLocked()
	if obj, ok := r.objects[padID]; ok {
		obj.Color = SelectionColor
		obj.Highlighted = true
	}

	ev := SelectionEvent{ID: uuid.NewString(), ZoneID: zoneID, PadID: padID, At: r.now().UTC()}
	r.events = append(r.events, ev)
	if len(r.events) > maxEvents {
		r.events = r.events[len(r.events)-maxEvents:]
	}
	return ev
}

// Objects returns a copy of every object sorted by id.
func (r *Registry) Objects() []Object {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Object, 0, len(r.objects))
	for _, obj := range r.objects {
		out = append(out, *obj)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Events returns the recent selection events, oldest first.
func (r *Registry) Events() []SelectionEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]SelectionEvent(nil), r.events...)
}
