package http

import (
	"net/http"

	"github.com/skillsync/skillsync/internal/auth"
)

// GET /admin/users?page&limit
func ListUsersHandler(users *auth.UserStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 50)
		list, total, err := users.ListStudents(r.Context(), page, limit)
		if err != nil {
			writeErr(w, err)
			return
		}
		if list == nil {
			list = []auth.User{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"total": total,
			"page":  page,
			"limit": limit,
			"users": list,
		})
	}
}
