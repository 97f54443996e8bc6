package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/skillsync/skillsync/internal/bank"
	"github.com/skillsync/skillsync/internal/quiz"
)

// GET /quiz/questions
func ListQuestionsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs, err := store.ListQuestions(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		// Strip answer keys when listing (parity with the quiz payload).
		for i := range qs {
			qs[i].Correct = ""
		}
		if qs == nil {
			qs = []quiz.Question{}
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

// POST /quiz/questions
func AddQuestionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q quiz.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if q.Difficulty == "" {
			q.Difficulty = quiz.Medium
		}
		added, err := store.AddQuestion(r.Context(), q)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "id": added.ID})
	}
}

// POST /quiz/questions/import — JSON array, schema-validated.
func ImportQuestionsJSONHandler(loader *bank.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 4<<20))
		if err != nil {
			http.Error(w, "read body", http.StatusBadRequest)
			return
		}
		res, err := loader.LoadJSON(r.Context(), data)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// POST /quiz/questions/import-xlsx — multipart upload, field "file".
func ImportQuestionsXLSXHandler(loader *bank.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			http.Error(w, "bad multipart form", http.StatusBadRequest)
			return
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()
		res, err := loader.LoadXLSX(r.Context(), f)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// POST /quiz/seed — loads the embedded sample pack.
func SeedQuestionsHandler(loader *bank.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := loader.Seed(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "inserted": res.Inserted})
	}
}
