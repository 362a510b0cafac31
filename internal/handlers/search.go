package handlers

import (
	"errors"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/medkala/medstore/internal/service/search"
	"github.com/medkala/medstore/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	if h.ES == nil {
		return errorResponse(c, http.StatusServiceUnavailable, errors.New("search is not available"))
	}

	query := c.QueryParam("q")
	if query == "" {
		return errorResponse(c, http.StatusBadRequest, errors.New("q is required"))
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := search.Search(c.Request().Context(), h.ES, h.Index, query, offset, limit)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": withEffectivePrices(items),
		"meta": map[string]any{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}
