package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medkala/medstore/internal/cartstore"
	"github.com/medkala/medstore/internal/models"
	"github.com/medkala/medstore/internal/mykafka"
	"github.com/medkala/medstore/internal/repo"
	"github.com/medkala/medstore/internal/service/discount"
	"github.com/medkala/medstore/internal/service/order"
)

func newOrderHandler(t *testing.T) (*OrderHandler, cartstore.Store, *gorm.DB) {
	db := InitTestDB(t)
	cart := cartstore.NewGorm(db)
	discounts := discount.New(db)
	return &OrderHandler{
		Repo:     repo.New(db),
		Orders:   order.New(db, cart, discounts),
		Producer: &mykafka.Producer{},
	}, cart, db
}

func TestSubmitOrder(t *testing.T) {
	h, cart, db := newOrderHandler(t)
	e := echo.New()
	owner := uuid.New()

	product := models.Product{Name: "فشارسنج عقربه ای", Price: 180000, Stock: 5}
	mustCreate(t, db, &product)
	_, err := cart.Add(context.Background(), owner, product.ID, 2)
	require.NoError(t, err)

	c, rec := newJSONContext(t, e, http.MethodPost, "/orders", map[string]string{
		"shipping_address": "تهران، خیابان ولیعصر",
	})
	c.Set("user_id", owner)

	require.NoError(t, h.Submit(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeBody(t, rec)
	require.EqualValues(t, 360000, data["subtotal"])
	require.EqualValues(t, 360000, data["final_amount"])
	require.Equal(t, "pending", data["status"])

	var stock models.Product
	require.NoError(t, db.First(&stock, "id = ?", product.ID).Error)
	require.EqualValues(t, 3, stock.Stock)

	items, err := cart.Items(context.Background(), owner)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestSubmitOrderWithDiscount(t *testing.T) {
	h, cart, db := newOrderHandler(t)
	e := echo.New()
	owner := uuid.New()

	product := models.Product{Name: "میکروسکوپ آزمایشگاهی", Price: 2500000, Stock: 2}
	mustCreate(t, db, &product)
	_, err := cart.Add(context.Background(), owner, product.ID, 1)
	require.NoError(t, err)

	code := activeCode("NEWUSER20", 20, 100000)
	mustCreate(t, db, &code)

	c, rec := newJSONContext(t, e, http.MethodPost, "/orders", map[string]string{
		"shipping_address": "اصفهان",
		"discount_code":    "NEWUSER20",
	})
	c.Set("user_id", owner)

	require.NoError(t, h.Submit(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeBody(t, rec)
	require.EqualValues(t, 2500000, data["subtotal"])
	require.EqualValues(t, 500000, data["discount_amount"])
	require.EqualValues(t, 2000000, data["final_amount"])
}

func TestSubmitOrderRejectedDiscountKeepsCart(t *testing.T) {
	h, cart, db := newOrderHandler(t)
	e := echo.New()
	owner := uuid.New()

	product := models.Product{Name: "دستکش یکبار مصرف", Price: 35000, Stock: 10}
	mustCreate(t, db, &product)
	_, err := cart.Add(context.Background(), owner, product.ID, 1)
	require.NoError(t, err)

	c, rec := newJSONContext(t, e, http.MethodPost, "/orders", map[string]string{
		"shipping_address": "شیراز",
		"discount_code":    "GHOST",
	})
	c.Set("user_id", owner)

	require.NoError(t, h.Submit(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", decodeBody(t, rec)["reason"])

	items, err := cart.Items(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.Zero(t, orders)
}

func TestSubmitOrderEmptyCart(t *testing.T) {
	h, _, _ := newOrderHandler(t)
	e := echo.New()

	c, rec := newJSONContext(t, e, http.MethodPost, "/orders", map[string]string{
		"shipping_address": "تبریز",
	})
	c.Set("user_id", uuid.New())

	require.NoError(t, h.Submit(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMyOrders(t *testing.T) {
	h, cart, db := newOrderHandler(t)
	e := echo.New()
	owner := uuid.New()
	other := uuid.New()

	product := models.Product{Name: "چسب زخم پارچه ای", Price: 25000, Stock: 50}
	mustCreate(t, db, &product)

	for _, uid := range []uuid.UUID{owner, other} {
		_, err := cart.Add(context.Background(), uid, product.ID, 1)
		require.NoError(t, err)
		c, rec := newJSONContext(t, e, http.MethodPost, "/orders", map[string]string{
			"shipping_address": "مشهد",
		})
		c.Set("user_id", uid)
		require.NoError(t, h.Submit(c))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	c, rec := newJSONContext(t, e, http.MethodGet, "/orders", nil)
	c.Set("user_id", owner)
	require.NoError(t, h.MyOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	mine := decodeBody(t, rec)["data"].([]interface{})
	require.Len(t, mine, 1)

	items := mine[0].(map[string]interface{})["items"].([]interface{})
	require.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	require.Equal(t, "چسب زخم پارچه ای", line["name"])
	require.EqualValues(t, 25000, line["unit_price"])
	require.EqualValues(t, 1, line["quantity"])

	cAll, recAll := newJSONContext(t, e, http.MethodGet, "/admin/orders", nil)
	require.NoError(t, h.AdminOrders(cAll))
	require.Equal(t, http.StatusOK, recAll.Code)

	all := decodeBody(t, recAll)["data"].([]interface{})
	require.Len(t, all, 2)
	for _, o := range all {
		require.Len(t, o.(map[string]interface{})["items"], 1)
	}
}
