package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medkala/medstore/internal/domain"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, code int, err error) error {
	return c.JSON(code, Response{
		Status:  "error",
		Message: err.Error(),
	})
}

// domainError translates service-layer sentinels into HTTP responses.
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errorResponse(c, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrValidation):
		return errorResponse(c, http.StatusBadRequest, err)
	case errors.Is(err, domain.ErrProductUnavailable):
		return errorResponse(c, http.StatusConflict, err)
	case errors.Is(err, domain.ErrAuthRequired):
		return errorResponse(c, http.StatusUnauthorized, err)
	default:
		return errorResponse(c, http.StatusInternalServerError, err)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

func parseInt64Param(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func userID(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get("user_id").(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, domain.ErrAuthRequired
	}
	return id, nil
}
