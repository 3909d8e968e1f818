// handlers/users.go
package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"p9e.in/leakwatch/logger"
	"p9e.in/leakwatch/models"
	"p9e.in/leakwatch/storage"
)

// CreateUser godoc
//
// Passwords are stored in plaintext and never returned. A body that fails
// schema validation skips the username check and is inserted as is.
//
// @Summary Register a user
// @Success 201 {object} models.User
// @Failure 400 {object} messageResponse
// @Router /api/users [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.WithContext(ctx, h.log)

	var in models.UserInput
	if err := decodeBody(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to create user")
		return
	}

	if verr := h.validate.Struct(in); verr != nil {
		log.Warn("user payload failed schema validation, inserting unvalidated payload", zap.Error(verr))
		h.insertUser(w, r, in)
		return
	}

	existing, err := h.store.GetUserByUsername(ctx, in.Username)
	if err != nil {
		log.Error("look up username", zap.Error(err))
		writeMessage(w, http.StatusBadRequest, "Failed to create user")
		return
	}
	if existing != nil {
		writeMessage(w, http.StatusBadRequest, "Username already exists")
		return
	}

	h.insertUser(w, r, in)
}

func (h *Handler) insertUser(w http.ResponseWriter, r *http.Request, in models.UserInput) {
	user, err := h.store.CreateUser(r.Context(), in)
	if errors.Is(err, storage.ErrDuplicateUsername) {
		writeMessage(w, http.StatusBadRequest, "Username already exists")
		return
	}
	if err != nil {
		logger.WithContext(r.Context(), h.log).Error("create user", zap.Error(err))
		writeMessage(w, http.StatusBadRequest, "Failed to create user")
		return
	}

	// models.User never serialises Password
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login godoc
//
// Compares the plaintext password and returns a token used by the admin
// endpoints.
//
// @Summary Obtain a bearer token
// @Success 200 {object} loginResponse
// @Failure 401 {object} messageResponse
// @Router /api/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	u, err := h.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		logger.WithContext(r.Context(), h.log).Error("look up user for login", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to log in")
		return
	}
	if u == nil || !u.PasswordMatches(req.Password) {
		writeMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if h.tokens == nil {
		writeMessage(w, http.StatusInternalServerError, "token signing is not configured")
		return
	}

	token, err := h.tokens.GenerateToken(u)
	if err != nil {
		logger.WithContext(r.Context(), h.log).Error("sign token", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "couldn't create token")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: u})
}
