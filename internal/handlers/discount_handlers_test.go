package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medkala/medstore/internal/cartstore"
	"github.com/medkala/medstore/internal/models"
	"github.com/medkala/medstore/internal/mykafka"
	"github.com/medkala/medstore/internal/repo"
	"github.com/medkala/medstore/internal/service/discount"
)

func newDiscountHandler(t *testing.T) (*DiscountHandler, *gorm.DB) {
	db := InitTestDB(t)
	return &DiscountHandler{
		DB:        db,
		Repo:      repo.New(db),
		Cart:      cartstore.NewGorm(db),
		Discounts: discount.New(db),
	}, db
}

func fillCart(t *testing.T, h *DiscountHandler, owner uuid.UUID, price int64, qty uint) {
	t.Helper()
	e := echo.New()
	product := models.Product{Name: "کپسول ویتامین D", Price: price, Stock: 100}
	mustCreate(t, h.DB, &product)

	cart := &CartHandler{DB: h.DB, Cart: h.Cart, Producer: &mykafka.Producer{}}
	c, rec := newJSONContext(t, e, http.MethodPost, "/cart", map[string]any{
		"product_id": product.ID,
		"quantity":   qty,
	})
	c.Set("user_id", owner)
	require.NoError(t, cart.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func activeCode(code string, pct int, minAmount int64) models.DiscountCode {
	now := time.Now().UTC()
	return models.DiscountCode{
		Code:       code,
		Percentage: pct,
		ValidFrom:  now.Add(-time.Hour),
		ValidUntil: now.Add(time.Hour),
		MinAmount:  minAmount,
		Active:     true,
	}
}

func TestDiscountPreview(t *testing.T) {
	h, db := newDiscountHandler(t)
	e := echo.New()
	owner := uuid.New()

	fillCart(t, h, owner, 150000, 2)
	code := activeCode("NEWUSER20", 20, 100000)
	mustCreate(t, db, &code)

	c, rec := newJSONContext(t, e, http.MethodPost, "/discounts/preview", map[string]string{
		"code": "NEWUSER20",
	})
	c.Set("user_id", owner)

	require.NoError(t, h.Preview(c))
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec)
	require.EqualValues(t, 60000, data["discount_amount"])
	require.EqualValues(t, 240000, data["final_amount"])
	require.EqualValues(t, 20, data["percentage"])
}

func TestDiscountPreviewUnknownCode(t *testing.T) {
	h, _ := newDiscountHandler(t)
	e := echo.New()
	owner := uuid.New()
	fillCart(t, h, owner, 150000, 1)

	c, rec := newJSONContext(t, e, http.MethodPost, "/discounts/preview", map[string]string{
		"code": "NOPE",
	})
	c.Set("user_id", owner)

	require.NoError(t, h.Preview(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", decodeBody(t, rec)["reason"])
}

func TestDiscountPreviewExpiredCode(t *testing.T) {
	h, db := newDiscountHandler(t)
	e := echo.New()
	owner := uuid.New()
	fillCart(t, h, owner, 150000, 1)

	code := activeCode("OLD10", 10, 0)
	code.ValidUntil = time.Now().UTC().Add(-time.Hour)
	mustCreate(t, db, &code)

	c, rec := newJSONContext(t, e, http.MethodPost, "/discounts/preview", map[string]string{
		"code": "OLD10",
	})
	c.Set("user_id", owner)

	require.NoError(t, h.Preview(c))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "expired", decodeBody(t, rec)["reason"])
}

func TestDiscountPreviewBelowMinimum(t *testing.T) {
	h, db := newDiscountHandler(t)
	e := echo.New()
	owner := uuid.New()
	fillCart(t, h, owner, 40000, 1)

	code := activeCode("BIG25", 25, 100000)
	mustCreate(t, db, &code)

	c, rec := newJSONContext(t, e, http.MethodPost, "/discounts/preview", map[string]string{
		"code": "BIG25",
	})
	c.Set("user_id", owner)

	require.NoError(t, h.Preview(c))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	data := decodeBody(t, rec)
	require.Equal(t, "below_minimum", data["reason"])
	require.EqualValues(t, 100000, data["min_amount"])
	require.EqualValues(t, 40000, data["subtotal"])
}

func TestListActiveDiscounts(t *testing.T) {
	h, db := newDiscountHandler(t)
	e := echo.New()

	active := activeCode("SUMMER15", 15, 50000)
	inactive := activeCode("HIDDEN5", 5, 0)
	inactive.Active = false
	mustCreate(t, db, &active)
	mustCreate(t, db, &inactive)

	c, rec := newJSONContext(t, e, http.MethodGet, "/discounts", nil)
	require.NoError(t, h.ListActive(c))
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeBody(t, rec)
	require.Len(t, data["data"], 1)
}
