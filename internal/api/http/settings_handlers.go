package http

import (
	"encoding/json"
	"net/http"

	"github.com/skillsync/skillsync/internal/quiz"
)

// GET /quiz/settings
func ListSettingsHandler(settings *quiz.Settings) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := settings.All(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, all)
	}
}

// POST /quiz/settings  { "key": "promote_threshold", "value": "0.8" }
func UpdateSettingHandler(settings *quiz.Settings) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Key   string `json:"key"`
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if err := settings.Put(r.Context(), req.Key, req.Value); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "key": req.Key, "value": req.Value})
	}
}
