package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "crmhygiene/server/errors"
	"crmhygiene/server/middleware"
)

// ErrorResponse структура JSON ошибки
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// SendJSONError отправляет JSON ошибку и логирует её
func SendJSONError(c *gin.Context, statusCode int, message string) {
	slog.Error("HTTP error",
		"error", message,
		"status_code", statusCode,
		"request_id", middleware.RequestIDFromGin(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	c.JSON(statusCode, ErrorResponse{Error: true, Message: message})
}

// HandleAppError отправляет ошибку приложения с корректным статусом
func HandleAppError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		SendJSONError(c, appErr.StatusCode(), appErr.UserMessage())
		return
	}
	SendJSONError(c, http.StatusInternalServerError, "Internal server error")
}
