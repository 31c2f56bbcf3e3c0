package handler

import (
	"encoding/json"
	"net/http"

	"gameon/internal/api/v1/dto"
	"gameon/internal/middleware"
	"gameon/internal/model"
	"gameon/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AuthHandler handles sign-in and sign-out
type AuthHandler struct {
	authService service.AuthService
	validate    *validator.Validate
	limiter     *middleware.RateLimiter
	logger      zerolog.Logger
}

func NewAuthHandler(authService service.AuthService, v *validator.Validate, limiter *middleware.RateLimiter, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, validate: v, limiter: limiter, logger: logger}
}

// RegisterRoutes mounts auth routes. Login is the only route served
// without a session.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/auth/login", h.limiter.Limit(http.HandlerFunc(h.login)))
	mux.Handle("/auth/logout", authMw(http.HandlerFunc(h.logout)))
	mux.Handle("/auth/me", authMw(http.HandlerFunc(h.me)))
}

// login godoc
// @Summary Sign in
// @Description Checks the username and password and returns a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequestDTO true "Credentials"
// @Success 200 {object} dto.LoginResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "invalid username or password"
// @Failure 429 {string} string "Too many requests"
// @Router /auth/login [post]
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	token, user, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to sign in", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.LoginResponseDTO{Token: token, User: toSessionUserDTO(*user)})
}

// logout godoc
// @Summary Sign out
// @Tags auth
// @Success 204
// @Failure 401 {string} string "Invalid or expired session"
// @Router /auth/logout [post]
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.authService.Logout(r.Context(), middleware.SessionFromContext(r.Context())); err != nil {
		writeServiceError(w, h.logger, "Failed to sign out", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SessionUserDTO
// @Failure 401 {string} string "Invalid or expired session"
// @Router /auth/me [get]
func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	sess := middleware.SessionFromContext(r.Context())
	if sess == nil {
		http.Error(w, "Unauthorized: session not found in context", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, toSessionUserDTO(sess.User))
}

func toSessionUserDTO(u model.User) dto.SessionUserDTO {
	return dto.SessionUserDTO{ID: u.ID, Username: u.Username, Role: string(u.Role)}
}
