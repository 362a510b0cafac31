package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medkala/medstore/internal/models"
	"github.com/medkala/medstore/internal/mykafka"
	"github.com/medkala/medstore/internal/pricing"
	"github.com/medkala/medstore/internal/repo"
	"github.com/medkala/medstore/internal/service/search"
	"github.com/medkala/medstore/internal/util"
)

type ProductHandler struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

type productView struct {
	models.Product
	EffectivePrice int64 `json:"effective_price"`
}

func withEffectivePrices(items []models.Product) []productView {
	out := make([]productView, len(items))
	for i, p := range items {
		out[i] = productView{Product: p, EffectivePrice: pricing.EffectivePrice(p)}
	}
	return out
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	minPrice, err := parseInt64Param(c.QueryParam("min_price"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("invalid min_price"))
	}
	maxPrice, err := parseInt64Param(c.QueryParam("max_price"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("invalid max_price"))
	}

	filter := repo.ProductFilter{
		Category: c.QueryParam("category"),
		Query:    c.QueryParam("q"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     c.QueryParam("sort"),
		Offset:   offset,
		Limit:    limit,
	}

	total, items, err := h.Repo.ListProducts(c.Request().Context(), filter)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": withEffectivePrices(items),
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("invalid product id"))
	}

	product, err := h.Repo.GetProduct(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}

	return c.JSON(http.StatusOK, productView{
		Product:        *product,
		EffectivePrice: pricing.EffectivePrice(*product),
	})
}

func (h *ProductHandler) GetCategories(c echo.Context) error {
	categories, err := h.Repo.Categories(c.Request().Context())
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": categories})
}

func (h *ProductHandler) GetFeatured(c echo.Context) error {
	items, err := h.Repo.FeaturedProducts(c.Request().Context())
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": withEffectivePrices(items)})
}

func (h *ProductHandler) GetDiscounted(c echo.Context) error {
	items, err := h.Repo.DiscountedProducts(c.Request().Context())
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": withEffectivePrices(items)})
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Stock       int64  `json:"stock"`
	Featured    bool   `json:"featured"`
	DiscountPct int    `json:"discount_percentage"`
}

func (r productRequest) validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.Price < 0 {
		return errors.New("price must not be negative")
	}
	if r.DiscountPct < 0 || r.DiscountPct > 100 {
		return errors.New("discount_percentage must be between 0 and 100")
	}
	return nil
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if err := req.validate(); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	prod := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Stock:       req.Stock,
		Featured:    req.Featured,
		DiscountPct: req.DiscountPct,
	}
	if err := h.Repo.CreateProduct(c.Request().Context(), &prod); err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	h.index(c, prod)
	h.publish(c, map[string]any{"type": "product_created", "product_id": prod.ID, "name": prod.Name})

	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("invalid product id"))
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if err := req.validate(); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	prod, err := h.Repo.GetProduct(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}

	prod.Name = req.Name
	prod.Description = req.Description
	prod.Price = req.Price
	prod.Image = req.Image
	prod.Category = req.Category
	prod.Stock = req.Stock
	prod.Featured = req.Featured
	prod.DiscountPct = req.DiscountPct

	if err := h.Repo.SaveProduct(c.Request().Context(), prod); err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	h.index(c, *prod)
	h.publish(c, map[string]any{"type": "product_updated", "product_id": prod.ID, "name": prod.Name})

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("invalid product id"))
	}

	if err := h.Repo.DeleteProduct(c.Request().Context(), id); err != nil {
		return domainError(c, err)
	}

	if h.ES != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := search.DeleteProduct(ctx, h.ES, h.ESIndex, id); err != nil {
			c.Logger().Errorf("ES delete error: %v", err)
		}
	}
	h.publish(c, map[string]any{"type": "product_deleted", "product_id": id})

	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) index(c echo.Context, prod models.Product) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := search.IndexProduct(ctx, h.ES, h.ESIndex, prod); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", c.Path(), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
