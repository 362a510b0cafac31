package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medkala/medstore/internal/models"
	"github.com/medkala/medstore/internal/mykafka"
	"github.com/medkala/medstore/internal/repo"
	"github.com/medkala/medstore/internal/service/order"
)

type OrderHandler struct {
	Repo     *repo.GormRepo
	Orders   *order.Service
	Producer *mykafka.Producer
}

func (h *OrderHandler) Submit(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return domainError(c, err)
	}

	var req order.SubmitRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	conf, err := h.Orders.Submit(c.Request().Context(), owner, req)
	if err != nil {
		// discount rejections keep their preview shape so the client
		// renders the same explanation on both paths
		if isDiscountFailure(err) {
			return discountFailure(c, err)
		}
		return domainError(c, err)
	}

	event := map[string]any{
		"type":         "order_submitted",
		"order_id":     conf.OrderID,
		"user_id":      owner,
		"final_amount": conf.FinalAmount,
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", conf.OrderID.String(), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}

	return c.JSON(http.StatusCreated, conf)
}

type orderView struct {
	models.Order
	Items []models.OrderItem `json:"items"`
}

func (h *OrderHandler) withItems(ctx context.Context, orders []models.Order) ([]orderView, error) {
	out := make([]orderView, len(orders))
	for i, o := range orders {
		items, err := h.Repo.OrderItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		out[i] = orderView{Order: o, Items: items}
	}
	return out, nil
}

func (h *OrderHandler) MyOrders(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return domainError(c, err)
	}

	orders, err := h.Repo.ListOrdersByUser(c.Request().Context(), owner)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	views, err := h.withItems(c.Request().Context(), orders)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": views})
}

func (h *OrderHandler) AdminOrders(c echo.Context) error {
	orders, err := h.Repo.ListAllOrders(c.Request().Context())
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	views, err := h.withItems(c.Request().Context(), orders)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": views})
}
