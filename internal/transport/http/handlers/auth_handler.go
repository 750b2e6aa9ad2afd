package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dankop/agora/internal/domain"
	"github.com/dankop/agora/internal/service"
	"github.com/dankop/agora/pkg/validator"
)

type AuthHandler struct {
	userService *service.UserService
	tokens      *TokenIssuer
	// isAdminUser marks usernames whose tokens carry the admin role.
	// Role provisioning proper lives outside this service.
	isAdminUser func(username string) bool
}

func NewAuthHandler(userService *service.UserService, tokens *TokenIssuer, isAdminUser func(string) bool) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokens:      tokens,
		isAdminUser: isAdminUser,
	}
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	AccessToken string    `json:"access_token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateRegister(input.Username, input.Password, input.Nickname, input.Email); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	userID, err := h.userService.Register(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := h.tokens.Issue(userID, h.rolesFor(input.Username))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{UserID: userID, AccessToken: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateLogin(input.Username, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	userID, err := h.userService.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, err := h.tokens.Issue(userID, h.rolesFor(input.Username))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{UserID: userID, AccessToken: token})
}

func (h *AuthHandler) rolesFor(username string) []domain.Role {
	if h.isAdminUser != nil && h.isAdminUser(strings.ToLower(strings.TrimSpace(username))) {
		return []domain.Role{domain.RoleAdmin}
	}
	return nil
}

func writeValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"code":   "VALIDATION_ERROR",
			"fields": errs,
		},
	})
}
