package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/medkala/medstore/internal/cartstore"
	"github.com/medkala/medstore/internal/models"
	"github.com/medkala/medstore/internal/mykafka"
	"github.com/medkala/medstore/internal/pricing"
)

type CartHandler struct {
	DB       *gorm.DB
	Cart     cartstore.Store
	Producer *mykafka.Producer
}

type cartLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"`
	Quantity  uint      `json:"quantity"`
	LineTotal int64     `json:"line_total"`
}

type cartView struct {
	Items    []cartLine `json:"items"`
	Subtotal int64      `json:"subtotal"`
}

// cartContents loads the owner's cart lines together with their products and
// prices them. Lines whose product has disappeared are reported, not priced.
func cartContents(ctx context.Context, db *gorm.DB, store cartstore.Store, owner uuid.UUID) (*cartView, []uuid.UUID, error) {
	items, err := store.Items(ctx, owner)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	lookup := make(map[uuid.UUID]models.Product, len(ids))
	if len(ids) > 0 {
		var products []models.Product
		if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
			return nil, nil, err
		}
		for _, p := range products {
			lookup[p.ID] = p
		}
	}

	subtotal, missing := pricing.Subtotal(items, lookup)

	view := &cartView{Items: make([]cartLine, 0, len(items)), Subtotal: subtotal}
	for _, it := range items {
		p, ok := lookup[it.ProductID]
		if !ok {
			continue
		}
		view.Items = append(view.Items, cartLine{
			ProductID: it.ProductID,
			Name:      p.Name,
			UnitPrice: pricing.EffectivePrice(p),
			Quantity:  it.Quantity,
			LineTotal: pricing.LineTotal(it, p),
		})
	}
	return view, missing, nil
}

func (h *CartHandler) GetCart(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return domainError(c, err)
	}

	view, missing, err := cartContents(c.Request().Context(), h.DB, h.Cart, owner)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	resp := echo.Map{"items": view.Items, "subtotal": view.Subtotal}
	if len(missing) > 0 {
		resp["unavailable_products"] = missing
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return domainError(c, err)
	}

	var req struct {
		ProductID uuid.UUID `json:"product_id"`
		Quantity  uint      `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	var product models.Product
	if err := h.DB.WithContext(c.Request().Context()).
		First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, errors.New("product not found"))
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	item, err := h.Cart.Add(c.Request().Context(), owner, req.ProductID, req.Quantity)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	h.publish(c, owner, map[string]any{
		"type":       "cart_item_added",
		"user_id":    owner,
		"product_id": req.ProductID,
		"quantity":   item.Quantity,
	})

	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) RemoveOne(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return domainError(c, err)
	}
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("invalid product id"))
	}

	item, err := h.Cart.RemoveOne(c.Request().Context(), owner, productID)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	h.publish(c, owner, map[string]any{
		"type":       "cart_item_removed",
		"user_id":    owner,
		"product_id": productID,
	})

	if item == nil {
		return c.JSON(http.StatusOK, echo.Map{"removed": true})
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) RemoveAll(c echo.Context) error {
	owner, err := userID(c)
	if err != nil {
		return domainError(c, err)
	}
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("invalid product id"))
	}

	if err := h.Cart.RemoveAll(c.Request().Context(), owner, productID); err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	h.publish(c, owner, map[string]any{
		"type":       "cart_line_removed",
		"user_id":    owner,
		"product_id": productID,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) publish(c echo.Context, owner uuid.UUID, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", owner.String(), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
