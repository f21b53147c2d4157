package api

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"smartcampus/internal/auth"
)

type RouterDeps struct {
	Parking        *ParkingHandler
	Scene          *SceneHandler
	Admin          *AdminHandler
	AdminJWTSecret string
	CORSOrigins    []string
	AccessLog      bool
}

func NewRouter(d RouterDeps) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	// Public endpoints
	r.HandleFunc("/api/parking/pads", d.Parking.ListPads).Methods("GET")
	r.HandleFunc("/api/parking/pads/{id}", d.Parking.GetPad).Methods("GET")
	r.HandleFunc("/api/parking/zones", d.Parking.ListZones).Methods("GET")
	r.HandleFunc("/api/parking/zones/{zoneId}", d.Parking.GetZone).Methods("GET")
	r.HandleFunc("/api/parking/zones/{zoneId}/select", d.Parking.SelectZone).Methods("POST")
	r.HandleFunc("/api/parking/refresh", d.Parking.Refresh).Methods("POST")

	r.HandleFunc("/api/scene/highlights", d.Scene.ListHighlights).Methods("GET")
	r.HandleFunc("/api/scene/highlights", d.Scene.Clear).Methods("DELETE")
	r.HandleFunc("/api/scene/highlights/{id}", d.Scene.Highlight).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(d.AdminJWTSecret))
	admin.HandleFunc("/zones/{zoneId}/history", d.Admin.ZoneHistory).Methods("GET")
	admin.HandleFunc("/layout/errors", d.Admin.LayoutErrors).Methods("GET")

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	var h http.Handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)(r)
	if d.AccessLog {
		h = handlers.CombinedLoggingHandler(os.Stdout, h)
	}
	return h
}
