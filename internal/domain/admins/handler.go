package admins

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"vet-clinic-api/internal/domain/validation"
	"vet-clinic-api/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/admin", func(ar chi.Router) {
		ar.Post("/login", loginHandler(svc))
		ar.Post("/logout", logoutHandler(svc))
		ar.Get("/profile", profileHandler(svc))
	})
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type adminResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		errs := validation.FieldErrors{}
		if strings.TrimSpace(req.Login) == "" {
			errs.Add("login", "login is required")
		}
		if req.Password == "" {
			errs.Add("password", "password is required")
		}
		if err := errs.Err(); err != nil {
			renderError(w, err)
			return
		}

		admin, tok, err := svc.Login(r.Context(), req.Login, req.Password)
		if err != nil {
			renderError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Login successful",
			"data": map[string]any{
				"user":       toAdminResponse(admin),
				"token":      tok,
				"token_type": "Bearer",
			},
		})
	}
}

func logoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeUnauthorized(w)
			return
		}

		if err := svc.Logout(r.Context(), claims.TokenID); err != nil {
			renderError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Logged out successfully",
		})
	}
}

func profileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			writeUnauthorized(w)
			return
		}

		admin, err := svc.Profile(r.Context(), claims.AdminID)
		if err != nil {
			renderError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    toAdminResponse(admin),
		})
	}
}

func toAdminResponse(a Admin) adminResponse {
	return adminResponse{
		ID:       a.ID,
		Name:     a.Name,
		Username: a.Username,
		Email:    a.Email,
	}
}

func renderError(w http.ResponseWriter, err error) {
	var fieldErrs validation.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The given data was invalid.",
			"errors":  fieldErrs,
		})
	case errors.Is(err, ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "Invalid credentials",
		})
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrTokenRevoked):
		writeUnauthorized(w)
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]any{
		"success": false,
		"message": "Unauthenticated",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
