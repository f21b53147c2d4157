package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	apperrors "smartcampus/internal/errors"
	"smartcampus/internal/scene"
)

type SceneHandler struct {
	Scene *scene.Registry
}

func NewSceneHandler(registry *scene.Registry) *SceneHandler {
	return &SceneHandler{Scene: registry}
}

func (h *SceneHandler) ListHighlights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"objects": h.Scene.Objects(),
		"events":  h.Scene.Events(),
	})
}

func (h *SceneHandler) Highlight(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, apperrors.ErrBadRequest("Invalid request body"))
		return
	}
	if err := h.Scene.Highlight(id, req.Color); err != nil {
		writeError(w, apperrors.ErrNotFound("Scene object not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Highlighted"})
}

func (h *SceneHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.Scene.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cleared"})
}
