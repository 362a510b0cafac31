package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/medkala/medstore/internal/cartstore"
	"github.com/medkala/medstore/internal/domain"
	"github.com/medkala/medstore/internal/repo"
	"github.com/medkala/medstore/internal/service/discount"
)

type DiscountHandler struct {
	DB        *gorm.DB
	Repo      *repo.GormRepo
	Cart      cartstore.Store
	Discounts *discount.Service
}

func (h *DiscountHandler) ListActive(c echo.Context) error {
	codes, err := h.Repo.ActiveDiscounts(c.Request().Context())
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": codes})
}

// Preview checks a code against the caller's current cart without reserving
// anything. The outcome may differ at submission if the cart or the code
// changes in between.
func (h *DiscountHandler) Preview(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return domainError(c, err)
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		return errorResponse(c, http.StatusBadRequest, errors.New("code is required"))
	}

	view, _, err := cartContents(c.Request().Context(), h.DB, h.Cart, owner)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	result, err := h.Discounts.Preview(c.Request().Context(), req.Code, view.Subtotal)
	if err != nil {
		return discountFailure(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"code":            result.Code,
		"percentage":      result.Percentage,
		"discount_amount": result.DiscountAmount,
		"final_amount":    result.FinalAmount,
		"description":     result.Description,
	})
}

func isDiscountFailure(err error) bool {
	var belowMin *domain.BelowMinimumError
	return errors.Is(err, domain.ErrDiscountNotFound) ||
		errors.Is(err, domain.ErrDiscountExpired) ||
		errors.As(err, &belowMin)
}

// discountFailure keeps the three rejection kinds distinguishable so a client
// can explain each one differently.
func discountFailure(c echo.Context, err error) error {
	var belowMin *domain.BelowMinimumError
	switch {
	case errors.As(err, &belowMin):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"reason":     "below_minimum",
			"min_amount": belowMin.MinAmount,
			"subtotal":   belowMin.Subtotal,
			"message":    err.Error(),
		})
	case errors.Is(err, domain.ErrDiscountExpired):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"reason":  "expired",
			"message": err.Error(),
		})
	case errors.Is(err, domain.ErrDiscountNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"reason":  "not_found",
			"message": err.Error(),
		})
	default:
		return errorResponse(c, http.StatusInternalServerError, err)
	}
}
