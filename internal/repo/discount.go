package repo

import (
	"context"

	"github.com/medkala/medstore/internal/models"
)

func (r *GormRepo) ActiveDiscounts(ctx context.Context) ([]models.DiscountCode, error) {
	var items []models.DiscountCode
	err := r.DB.WithContext(ctx).Where("active = ?", true).Order("code ASC").Find(&items).Error
	return items, err
}
