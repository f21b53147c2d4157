package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	apperrors "smartcampus/internal/errors"
	"smartcampus/internal/scene"
	"smartcampus/internal/service"
)

const refreshTimeout = 30 * time.Second

type ParkingHandler struct {
	Layout    *service.LayoutService
	Occupancy *service.OccupancyService
	Scene     *scene.Registry
}

func NewParkingHandler(layout *service.LayoutService, occupancy *service.OccupancyService, registry *scene.Registry) *ParkingHandler {
	return &ParkingHandler{Layout: layout, Occupancy: occupancy, Scene: registry}
}

func (h *ParkingHandler) ListPads(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Layout.Pads(h.Occupancy.Zones()))
}

func (h *ParkingHandler) GetPad(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	pad, ok := h.Layout.Pad(id, h.Occupancy.Zones())
	if !ok {
		writeError(w, apperrors.ErrNotFound("Pad not found"))
		return
	}
	writeJSON(w, http.StatusOK, pad)
}

func (h *ParkingHandler) ListZones(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Occupancy.Snapshots())
}

func (h *ParkingHandler) GetZone(w http.ResponseWriter, r *http.Request) {
	zoneID := mux.Vars(r)["zoneId"]
	state, ok := h.Occupancy.Zone(zoneID)
	if !ok {
		writeError(w, apperrors.ErrNotFound("Zone not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"zone":  state.Zone,
		"group": state.Group,
		"stale": state.Stale,
	})
}

// Refresh re-fetches every group. Fetch failures are reported per group in
// a 200 response; the previous data stays available as stale.
func (h *ParkingHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), refreshTimeout)
	defer cancel()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": h.Occupancy.RefreshAll(ctx),
	})
}

func (h *ParkingHandler) SelectZone(w http.ResponseWriter, r *http.Request) {
	zoneID := mux.Vars(r)["zoneId"]
	padID, hasPad := h.Layout.PadForZone(zoneID)
	state, hasZone := h.Occupancy.Zone(zoneID)
	if !hasPad && !hasZone {
		writeError(w, apperrors.ErrNotFound("Zone not found"))
		return
	}
	ev := h.Scene.Select(zoneID, padID)
	resp := map[string]interface{}{"event": ev}
	if hasZone {
		resp["zone"] = state.Zone
		resp["stale"] = state.Stale
	}
	writeJSON(w, http.StatusOK, resp)
}
