package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"smartcampus/internal/db"
	apperrors "smartcampus/internal/errors"
	"smartcampus/internal/service"
)

type HistoryReader interface {
	ListHistory(ctx context.Context, zoneIDs []string, since time.Time, limit int) ([]db.ZoneOccupancyRow, error)
}

type AdminHandler struct {
	History HistoryReader
	Layout  *service.LayoutService
}

func NewAdminHandler(history HistoryReader, layout *service.LayoutService) *AdminHandler {
	return &AdminHandler{History: history, Layout: layout}
}

// ZoneHistory serves ?since=<RFC3339|duration>&limit=<n>, default the last 24h.
func (h *AdminHandler) ZoneHistory(w http.ResponseWriter, r *http.Request) {
	if h.History == nil {
		writeError(w, apperrors.ErrUnavailable("History storage is not configured"))
		return
	}
	zoneID := mux.Vars(r)["zoneId"]

	since := time.Now().Add(-24 * time.Hour)
	if s := r.URL.Query().Get("since"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			since = t
		} else if d, err := time.ParseDuration(s); err == nil {
			since = time.Now().Add(-d)
		} else {
			writeError(w, apperrors.ErrBadRequest("Invalid since"))
			return
		}
	}
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, apperrors.ErrBadRequest("Invalid limit"))
			return
		}
		limit = n
	}

	rows, err := h.History.ListHistory(r.Context(), []string{zoneID}, since, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if rows == nil {
		rows = []db.ZoneOccupancyRow{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *AdminHandler) LayoutErrors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Layout.SkippedPads())
}
