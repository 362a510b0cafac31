package cartstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medkala/medstore/internal/models"
)

type GormStore struct {
	DB *gorm.DB
}

func NewGorm(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Items(ctx context.Context, owner uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := s.DB.WithContext(ctx).Where("user_id = ?", owner).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) Add(ctx context.Context, owner, product uuid.UUID, quantity uint) (models.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}
	var item models.CartItem
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND product_id = ?", owner, product).
			Update("quantity", gorm.Expr("quantity + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("user_id = ? AND product_id = ?", owner, product).First(&item).Error
		}
		item = models.CartItem{UserID: owner, ProductID: product, Quantity: quantity}
		return tx.Create(&item).Error
	})
	return item, err
}

func (s *GormStore) RemoveOne(ctx context.Context, owner, product uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	var remaining *models.CartItem
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND product_id = ?", owner, product).
			First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if item.Quantity > 1 {
			if err := tx.Model(&item).Update("quantity", gorm.Expr("quantity - 1")).Error; err != nil {
				return err
			}
			item.Quantity--
			remaining = &item
			return nil
		}
		return tx.Delete(&item).Error
	})
	return remaining, err
}

func (s *GormStore) RemoveAll(ctx context.Context, owner, product uuid.UUID) error {
	return s.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", owner, product).
		Delete(&models.CartItem{}).Error
}

func (s *GormStore) Clear(ctx context.Context, owner uuid.UUID) error {
	return s.DB.WithContext(ctx).Where("user_id = ?", owner).Delete(&models.CartItem{}).Error
}
