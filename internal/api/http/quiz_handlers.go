package http

import (
	"encoding/json"
	"net/http"

	"github.com/skillsync/skillsync/internal/quiz"
)

// GET /quiz/generate/{studentID}?num_questions&lookback_override&weak_lookback_override
func GenerateQuizHandler(engine *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "studentID")
		if err != nil {
			http.Error(w, "bad student id", http.StatusBadRequest)
			return
		}
		opts := quiz.ComposeOptions{
			NumQuestions:         queryInt(r, "num_questions", 12),
			LookbackOverride:     queryIntPtr(r, "lookback_override"),
			WeakLookbackOverride: queryIntPtr(r, "weak_lookback_override"),
		}
		q, err := engine.Compose(r.Context(), id, opts)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// POST /quiz/submit  { "student_id": 1, "answers": [{"qid": 3, "answer": "b"}] }
func SubmitQuizHandler(engine *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StudentID int64         `json:"student_id"`
			Answers   []quiz.Answer `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.StudentID == 0 {
			http.Error(w, "student_id and answers required", http.StatusBadRequest)
			return
		}
		res, err := engine.Grade(r.Context(), req.StudentID, req.Answers)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Status string `json:"status"`
			quiz.GradeResult
		}{Status: "ok", GradeResult: res})
	}
}

// GET /quiz/dashboard/{studentID}
func DashboardHandler(engine *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "studentID")
		if err != nil {
			http.Error(w, "bad student id", http.StatusBadRequest)
			return
		}
		d, err := engine.Dashboard(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

// GET /quiz/profile/{studentID}?lookback
func TopicProfileHandler(engine *quiz.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "studentID")
		if err != nil {
			http.Error(w, "bad student id", http.StatusBadRequest)
			return
		}
		res, err := engine.TopicProfileWithSuggestions(r.Context(), id, queryInt(r, "lookback", 0))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
