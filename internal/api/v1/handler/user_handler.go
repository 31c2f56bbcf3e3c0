package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"gameon/internal/api/v1/dto"
	"gameon/internal/middleware"
	"gameon/internal/model"
	"gameon/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewUserHandler(userService service.UserService, v *validator.Validate, logger zerolog.Logger) *UserHandler {
	return &UserHandler{userService: userService, validate: v, logger: logger}
}

// RegisterRoutes mounts v1 user routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/users", authMw(http.HandlerFunc(h.handleUsers)))
	mux.Handle("/users/", authMw(http.HandlerFunc(h.handleUser)))
}

func (h *UserHandler) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listUsers(w, r)
	case http.MethodPost:
		h.createUser(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *UserHandler) handleUser(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimPrefix(r.URL.Path, "/users/")
	if userID == "" || strings.Contains(userID, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPut:
		h.updateUser(w, r, userID)
	case http.MethodDelete:
		h.deleteUser(w, r, userID)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// listUsers godoc
// @Summary List users
// @Description Admin only.
// @Tags users
// @Produce json
// @Success 200 {array} dto.UserResponseDTO
// @Failure 403 {string} string "not permitted for this role"
// @Router /users [get]
func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context(), middleware.SessionFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, "Failed to list users", err)
		return
	}
	resp := make([]dto.UserResponseDTO, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponseDTO(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

// createUser godoc
// @Summary Add a user
// @Description Admin only. Username and password are trimmed and must not be empty.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.UserWriteDTO true "New account"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 403 {string} string "not permitted for this role"
// @Router /users [post]
func (h *UserHandler) createUser(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeUser(w, r)
	if !ok {
		return
	}
	created, err := h.userService.Add(r.Context(), middleware.SessionFromContext(r.Context()), in)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to create user", err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponseDTO(*created))
}

// updateUser godoc
// @Summary Update a user
// @Description Admin only. The last remaining admin cannot be demoted.
// @Tags users
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param user body dto.UserWriteDTO true "Account fields"
// @Success 200 {object} dto.UserResponseDTO
// @Failure 404 {string} string "user not found"
// @Failure 409 {string} string "cannot change the role of the only administrator"
// @Router /users/{userId} [put]
func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request, userID string) {
	in, ok := h.decodeUser(w, r)
	if !ok {
		return
	}
	updated, err := h.userService.Update(r.Context(), middleware.SessionFromContext(r.Context()), userID, in)
	if err != nil {
		writeServiceError(w, h.logger, "Failed to update user", err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponseDTO(*updated))
}

// deleteUser godoc
// @Summary Delete a user
// @Description Admin only. Admins cannot delete their own account.
// @Tags users
// @Param userId path string true "User ID"
// @Success 204
// @Failure 409 {string} string "admins cannot delete their own account"
// @Router /users/{userId} [delete]
func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request, userID string) {
	if err := h.userService.Delete(r.Context(), middleware.SessionFromContext(r.Context()), userID); err != nil {
		writeServiceError(w, h.logger, "Failed to delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) decodeUser(w http.ResponseWriter, r *http.Request) (service.UserInput, bool) {
	var req dto.UserWriteDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return service.UserInput{}, false
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return service.UserInput{}, false
	}
	return service.UserInput{
		Username: req.Username,
		Password: req.Password,
		Role:     model.Role(req.Role),
	}, true
}

func toUserResponseDTO(u model.User) dto.UserResponseDTO {
	return dto.UserResponseDTO{ID: u.ID, Username: u.Username, Password: u.Password, Role: string(u.Role)}
}
