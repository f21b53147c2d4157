package api

import (
	"encoding/json"
	"log"
	"net/http"

	apperrors "smartcampus/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := apperrors.StatusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		msg = "Internal error"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
