package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medkala/medstore/internal/domain"
	"github.com/medkala/medstore/internal/models"
)

func (r *GormRepo) ListArticles(ctx context.Context) ([]models.Article, error) {
	var items []models.Article
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *GormRepo) GetArticle(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	var a models.Article
	if err := r.DB.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *GormRepo) CreateArticle(ctx context.Context, a *models.Article) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *GormRepo) ListStoreServices(ctx context.Context) ([]models.StoreService, error) {
	var items []models.StoreService
	err := r.DB.WithContext(ctx).Order("title ASC").Find(&items).Error
	return items, err
}

func (r *GormRepo) ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var items []models.Review
	err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *GormRepo) CreateReview(ctx context.Context, review *models.Review) error {
	return r.DB.WithContext(ctx).Create(review).Error
}
