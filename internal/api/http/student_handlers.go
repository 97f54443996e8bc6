package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skillsync/skillsync/internal/quiz"
)

// POST /students  { "student_name": "...", "sap_no": "..." }
// Create-or-get: an already registered SAP number returns the existing record.
func CreateStudentHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name  string `json:"student_name"`
			SAPNo string `json:"sap_no"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.SAPNo == "" {
			http.Error(w, "sap_no required", http.StatusBadRequest)
			return
		}
		s, err := store.CreateStudent(r.Context(), req.Name, req.SAPNo)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "student_id": s.ID})
	}
}

// GET /students/sap/{sap}
func StudentBySAPHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := store.GetStudentBySAP(r.Context(), chi.URLParam(r, "sap"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}
