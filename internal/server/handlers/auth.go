package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/g0c0de0rd1e/audiomagister/internal/models"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/auth"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/metrics"
	"github.com/g0c0de0rd1e/audiomagister/internal/validation"
	"github.com/g0c0de0rd1e/audiomagister/pkg/api"
)

const (
	msgIncorrectCredentials = "Incorrect username or password"
	msgEmailRegistered      = "Email already registered"
	msgInternal             = "internal server error"
)

// AuthService is the registration and login core used by AuthHandler
type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	LoginForToken(ctx context.Context, email, password string) (*auth.TokenResult, error)
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger  *slog.Logger
	service AuthService
	metrics *metrics.Metrics
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, service AuthService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		logger:  logger,
		service: service,
		metrics: m,
	}
}

// Register обрабатывает POST /register/
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		sendError(w, h.logger, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		sendError(w, h.logger, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.service.Register(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			h.metrics.AuthEvent(metrics.EventDuplicate)
			sendError(w, h.logger, msgEmailRegistered, http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "failed to register user", slog.Any("error", err))
		sendError(w, h.logger, msgInternal, http.StatusInternalServerError)
		return
	}

	h.metrics.AuthEvent(metrics.EventRegister)
	h.logger.InfoContext(ctx, "user registered successfully", slog.String("user_id", user.ID))

	sendJSON(w, h.logger, userResponse(user), http.StatusCreated)
}

// Token обрабатывает POST /token.
// Accepts an OAuth2 password form (username, password) or the same fields as JSON.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username, password, err := readTokenRequest(r)
	if err != nil {
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}
	if username == "" || password == "" {
		sendError(w, h.logger, "username and password are required", http.StatusBadRequest)
		return
	}

	res, err := h.service.LoginForToken(ctx, username, password)
	if err != nil {
		if errors.Is(err, auth.ErrAuthFailure) {
			h.metrics.AuthEvent(metrics.EventLoginFailure)
			sendUnauthorized(w, h.logger, msgIncorrectCredentials)
			return
		}
		h.logger.ErrorContext(ctx, "failed to issue token", slog.Any("error", err))
		sendError(w, h.logger, msgInternal, http.StatusInternalServerError)
		return
	}

	h.metrics.AuthEvent(metrics.EventLoginSuccess)

	sendJSON(w, h.logger, api.TokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		ExpiresIn:   int64(res.TTL.Seconds()),
	}, http.StatusOK)
}

// Login обрабатывает POST /login/ - проверка учетных данных без выдачи токена
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, h.logger, "invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := h.service.Authenticate(ctx, req.Email, req.Password); err != nil {
		if errors.Is(err, auth.ErrAuthFailure) {
			h.metrics.AuthEvent(metrics.EventLoginFailure)
			sendUnauthorized(w, h.logger, msgIncorrectCredentials)
			return
		}
		h.logger.ErrorContext(ctx, "failed to authenticate", slog.Any("error", err))
		sendError(w, h.logger, msgInternal, http.StatusInternalServerError)
		return
	}

	h.metrics.AuthEvent(metrics.EventLoginSuccess)
	sendJSON(w, h.logger, api.MessageResponse{Message: "Login successful"}, http.StatusOK)
}

// Me обрабатывает GET /users/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		sendUnauthorized(w, h.logger, "Could not validate credentials")
		return
	}

	sendJSON(w, h.logger, userResponse(user), http.StatusOK)
}

func readTokenRequest(r *http.Request) (string, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req api.TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", "", err
		}
		return req.Username, req.Password, nil
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			return "", "", err
		}
	} else if err := r.ParseForm(); err != nil {
		return "", "", err
	}

	return r.PostFormValue("username"), r.PostFormValue("password"), nil
}

func userResponse(user *models.User) api.UserResponse {
	return api.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
