package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// POST /auth/register  { "email", "password", "sap_no", "full_name" }
// Always creates a student; admin accounts are provisioned out of band.
func RegisterHandler(users *UserStore, svc *AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			SAPNo    string `json:"sap_no"`
			FullName string `json:"full_name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		u, err := users.Register(r.Context(), req.Email, req.Password, req.SAPNo, req.FullName, RoleStudent)
		if err != nil {
			switch {
			case errors.Is(err, ErrEmailTaken):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrInvalidCredentials):
				http.Error(w, "email and password required", http.StatusBadRequest)
			default:
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		issueToken(w, svc, u)
	}
}

// POST /auth/login  { "email", "password" }
func LoginHandler(users *UserStore, svc *AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		u, err := users.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		issueToken(w, svc, u)
	}
}

func issueToken(w http.ResponseWriter, svc *AuthService, u User) {
	tok, err := svc.IssueJWT(strconv.FormatInt(u.ID, 10), u.Role)
	if err != nil {
		http.Error(w, "issue token", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(tokenResponse{AccessToken: tok, User: u})
}
