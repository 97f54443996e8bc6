package http

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/skillsync/skillsync/internal/auth"
	"github.com/skillsync/skillsync/internal/storage"
)

// currentUserID resolves the JWT subject set by the auth middleware.
func currentUserID(r *http.Request) (int64, bool) {
	sub := auth.SubjectFromContext(r.Context())
	id, err := strconv.ParseInt(sub, 10, 64)
	return id, err == nil && id > 0
}

// POST /files — multipart: file_type=marksheet|resume, file=<upload>.
// Stores the bytes and records metadata; parsing happens elsewhere.
func UploadFileHandler(users *auth.UserStore, blobs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUserID(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := r.ParseMultipartForm(16 << 20); err != nil {
			http.Error(w, "bad multipart form", http.StatusBadRequest)
			return
		}
		fileType := r.FormValue("file_type")
		if fileType != "marksheet" && fileType != "resume" {
			http.Error(w, "file_type must be marksheet or resume", http.StatusBadRequest)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()
		name := filepath.Base(hdr.Filename)
		key := fmt.Sprintf("uploads/%d/%s/%s", uid, fileType, name)
		if _, err := blobs.Put(key, f); err != nil {
			writeErr(w, err)
			return
		}
		rec, err := users.AddFile(r.Context(), uid, fileType, name, key)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// GET /files — the caller's own uploads.
func ListFilesHandler(users *auth.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUserID(r)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		files, err := users.ListFiles(r.Context(), uid)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, files)
	}
}
