package adminhandlers

import (
	"encoding/json"
	"net/http"

	"hybridmarket/middleware"

	"golang.org/x/crypto/bcrypt"
)

// LoginRequest is the request body for admin login.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the signed admin session token.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// LoginHandler handles POST /v0/admin/login. The configured password hash
// is bcrypt; a valid password yields a short-lived JWT for the other admin
// endpoints.
func LoginHandler(passwordHash string, jwtSecret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if passwordHash == "" {
			http.Error(w, "Admin access is not configured", http.StatusForbidden)
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
			http.Error(w, "Invalid password", http.StatusUnauthorized)
			return
		}

		token, err := middleware.IssueAdminToken(jwtSecret)
		if err != nil {
			http.Error(w, "Failed to issue token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(LoginResponse{Success: true, Token: token})
	}
}
