package discount

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/medkala/medstore/internal/domain"
	"github.com/medkala/medstore/internal/models"
	"github.com/medkala/medstore/internal/pricing"
)

// Result is the outcome of a successful validation.
type Result struct {
	Code           string `json:"code"`
	Percentage     int    `json:"percentage"`
	DiscountAmount int64  `json:"discount_amount"`
	FinalAmount    int64  `json:"final_amount"`
	Description    string `json:"description"`
}

type Service struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Preview validates a code against a subtotal for display purposes. The
// result is non-binding: order submission runs Commit and persists whatever
// that final run returns.
func (s *Service) Preview(ctx context.Context, code string, subtotal int64) (*Result, error) {
	return validate(s.DB.WithContext(ctx), code, subtotal, time.Now())
}

// Commit is the binding validation, run inside the order-submission
// transaction so the decision is made against current discount state.
func (s *Service) Commit(tx *gorm.DB, code string, subtotal int64) (*Result, error) {
	return validate(tx, code, subtotal, time.Now())
}

func validate(db *gorm.DB, code string, subtotal int64, now time.Time) (*Result, error) {
	var d models.DiscountCode
	if err := db.First(&d, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDiscountNotFound
		}
		return nil, err
	}
	if !d.Active {
		return nil, domain.ErrDiscountNotFound
	}
	if !d.ValidFrom.IsZero() && now.Before(d.ValidFrom) {
		return nil, domain.ErrDiscountExpired
	}
	if !d.ValidUntil.IsZero() && now.After(d.ValidUntil) {
		return nil, domain.ErrDiscountExpired
	}
	if subtotal < d.MinAmount {
		return nil, &domain.BelowMinimumError{Code: d.Code, MinAmount: d.MinAmount, Subtotal: subtotal}
	}

	amount := pricing.DiscountAmount(subtotal, d.Percentage)
	return &Result{
		Code:           d.Code,
		Percentage:     d.Percentage,
		DiscountAmount: amount,
		FinalAmount:    subtotal - amount,
		Description:    d.Description,
	}, nil
}
