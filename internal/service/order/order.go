package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medkala/medstore/internal/cartstore"
	"github.com/medkala/medstore/internal/domain"
	"github.com/medkala/medstore/internal/models"
	"github.com/medkala/medstore/internal/pricing"
	"github.com/medkala/medstore/internal/service/discount"
)

type SubmitRequest struct {
	ShippingAddress string `json:"shipping_address"`
	DiscountCode    string `json:"discount_code"`
}

type Confirmation struct {
	OrderID        uuid.UUID          `json:"order_id"`
	Subtotal       int64              `json:"subtotal"`
	DiscountAmount int64              `json:"discount_amount"`
	FinalAmount    int64              `json:"final_amount"`
	Status         string             `json:"status"`
	Items          []models.OrderItem `json:"items"`
}

type Service struct {
	DB        *gorm.DB
	Cart      cartstore.Store
	Discounts *discount.Service
}

func New(db *gorm.DB, cart cartstore.Store, discounts *discount.Service) *Service {
	return &Service{DB: db, Cart: cart, Discounts: discounts}
}

// Submit turns the owner's cart into an immutable order. The subtotal is
// recomputed from current product rows and the discount code, if any, is
// re-validated inside the same transaction; amounts shown to the user by an
// earlier preview are never trusted. On any failure the transaction rolls
// back and the cart is left untouched.
func (s *Service) Submit(ctx context.Context, userID uuid.UUID, req SubmitRequest) (*Confirmation, error) {
	if strings.TrimSpace(req.ShippingAddress) == "" {
		return nil, fmt.Errorf("shipping address is required: %w", domain.ErrValidation)
	}

	lines, err := s.Cart.Items(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("cart is empty: %w", domain.ErrValidation)
	}

	var (
		order      models.Order
		orderItems []models.OrderItem
	)

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lookup := make(map[uuid.UUID]models.Product, len(lines))
		for _, line := range lines {
			var p models.Product
			if err := tx.First(&p, "id = ?", line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %s: %w", line.ProductID, domain.ErrProductUnavailable)
				}
				return err
			}
			if p.Stock < int64(line.Quantity) {
				return fmt.Errorf("product %s has %d in stock: %w", p.Name, p.Stock, domain.ErrProductUnavailable)
			}
			lookup[p.ID] = p
		}

		subtotal, missing := pricing.Subtotal(lines, lookup)
		if len(missing) > 0 {
			return fmt.Errorf("products %v: %w", missing, domain.ErrProductUnavailable)
		}

		var discountAmount int64
		if req.DiscountCode != "" {
			res, err := s.Discounts.Commit(tx, req.DiscountCode, subtotal)
			if err != nil {
				return err
			}
			discountAmount = res.DiscountAmount
		}

		for _, line := range lines {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", line.ProductID, line.Quantity).
				Update("stock", gorm.Expr("stock - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("product %s: %w", line.ProductID, domain.ErrProductUnavailable)
			}
		}

		order = models.Order{
			UserID:          userID,
			Subtotal:        subtotal,
			DiscountAmount:  discountAmount,
			FinalAmount:     subtotal - discountAmount,
			DiscountCode:    req.DiscountCode,
			ShippingAddress: req.ShippingAddress,
			Status:          "pending",
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		orderItems = make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			p := lookup[line.ProductID]
			oi := models.OrderItem{
				OrderID:   order.ID,
				ProductID: p.ID,
				Name:      p.Name,
				UnitPrice: pricing.EffectivePrice(p),
				Quantity:  line.Quantity,
			}
			if err := tx.Create(&oi).Error; err != nil {
				return err
			}
			orderItems = append(orderItems, oi)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.Cart.Clear(ctx, userID); err != nil {
		return nil, fmt.Errorf("order %s created but cart not cleared: %w", order.ID, err)
	}

	return &Confirmation{
		OrderID:        order.ID,
		Subtotal:       order.Subtotal,
		DiscountAmount: order.DiscountAmount,
		FinalAmount:    order.FinalAmount,
		Status:         order.Status,
		Items:          orderItems,
	}, nil
}
