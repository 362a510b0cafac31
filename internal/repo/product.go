package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medkala/medstore/internal/domain"
	"github.com/medkala/medstore/internal/models"
)

type ProductFilter struct {
	Category string
	Query    string
	MinPrice *int64
	MaxPrice *int64
	Sort     string
	Offset   int
	Limit    int
}

func (f ProductFilter) order() string {
	switch f.Sort {
	case "price_low":
		return "price ASC"
	case "price_high":
		return "price DESC"
	case "newest":
		return "created_at DESC"
	default:
		return "name ASC"
	}
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})

	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := q.Order(f.order()).Offset(f.Offset).Limit(f.Limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Distinct("category").Order("category ASC").Pluck("category", &categories).Error
	return categories, err
}

func (r *GormRepo) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	err := r.DB.WithContext(ctx).Where("featured = ?", true).Order("name ASC").Find(&items).Error
	return items, err
}

func (r *GormRepo) DiscountedProducts(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	err := r.DB.WithContext(ctx).Where("discount_pct > 0").Order("name ASC").Find(&items).Error
	return items, err
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}
