package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/g0c0de0rd1e/audiomagister/pkg/api"
)

// sendJSON отправляет JSON ответ
func sendJSON(w http.ResponseWriter, logger *slog.Logger, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func sendError(w http.ResponseWriter, logger *slog.Logger, message string, statusCode int) {
	sendJSON(w, logger, api.ErrorResponse{Detail: message}, statusCode)
}

// sendUnauthorized answers 401 with a bearer challenge
func sendUnauthorized(w http.ResponseWriter, logger *slog.Logger, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	sendError(w, logger, message, http.StatusUnauthorized)
}
