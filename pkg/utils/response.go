package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davicafu/usermgmt/internal/user/domain"
)

// ErrorResponse es el payload estándar de error del API.
type ErrorResponse struct {
	ErrorMessage string `json:"errorMessage"`
	StatusCode   int    `json:"statusCode"`
}

// SendError envía una respuesta de error con el formato estandarizado.
func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorResponse{
		ErrorMessage: message,
		StatusCode:   statusCode,
	})
}

// StatusForError traduce la taxonomía de errores de negocio a códigos HTTP.
func StatusForError(err error) int {
	var vErr *domain.ValidationError
	var dErr *domain.DuplicateEmailError

	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.As(err, &dErr):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// SendBusinessError mapea un error de negocio y lo envía tal cual llegó:
// el mensaje es parte del contrato.
func SendBusinessError(c *gin.Context, err error) {
	SendError(c, StatusForError(err), err.Error())
}

// --- Helpers específicos para errores comunes ---

func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}
