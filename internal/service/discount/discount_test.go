package discount

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medkala/medstore/internal/domain"
	"github.com/medkala/medstore/internal/models"
)

func newService(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.DiscountCode{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return New(db)
}

func seedCode(t *testing.T, svc *Service, d models.DiscountCode) {
	if d.ValidUntil.IsZero() {
		d.ValidUntil = time.Now().Add(24 * time.Hour)
	}
	require.NoError(t, svc.DB.Create(&d).Error)
}

func TestPreviewComputesAmounts(t *testing.T) {
	svc := newService(t)
	seedCode(t, svc, models.DiscountCode{Code: "TEN", Percentage: 10, Active: true, Description: "ten percent"})

	res, err := svc.Preview(context.Background(), "TEN", 300000)
	require.NoError(t, err)
	require.Equal(t, 10, res.Percentage)
	require.Equal(t, int64(30000), res.DiscountAmount)
	require.Equal(t, int64(270000), res.FinalAmount)
	require.Equal(t, "ten percent", res.Description)
}

func TestPreviewIsIdempotent(t *testing.T) {
	svc := newService(t)
	seedCode(t, svc, models.DiscountCode{Code: "TEN", Percentage: 10, Active: true})

	first, err := svc.Preview(context.Background(), "TEN", 123457)
	require.NoError(t, err)
	second, err := svc.Preview(context.Background(), "TEN", 123457)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestUnknownCode(t *testing.T) {
	svc := newService(t)

	_, err := svc.Preview(context.Background(), "NOPE", 100000)
	require.ErrorIs(t, err, domain.ErrDiscountNotFound)
}

func TestInactiveCodeReportsNotFound(t *testing.T) {
	svc := newService(t)
	seedCode(t, svc, models.DiscountCode{Code: "OLD", Percentage: 20, Active: false})

	_, err := svc.Preview(context.Background(), "OLD", 100000)
	require.ErrorIs(t, err, domain.ErrDiscountNotFound)
}

func TestExpiredCodeIsDistinctFromNotFound(t *testing.T) {
	svc := newService(t)
	seedCode(t, svc, models.DiscountCode{
		Code:       "GONE",
		Percentage: 20,
		Active:     true,
		ValidUntil: time.Now().Add(-time.Hour),
	})

	_, err := svc.Preview(context.Background(), "GONE", 100000)
	require.ErrorIs(t, err, domain.ErrDiscountExpired)
	require.NotErrorIs(t, err, domain.ErrDiscountNotFound)
}

func TestMinimumAmountBoundary(t *testing.T) {
	svc := newService(t)
	seedCode(t, svc, models.DiscountCode{Code: "BIG", Percentage: 20, Active: true, MinAmount: 100000})

	_, err := svc.Preview(context.Background(), "BIG", 99999)
	require.True(t, domain.IsBelowMinimum(err))

	var bm *domain.BelowMinimumError
	require.True(t, errors.As(err, &bm))
	require.Equal(t, int64(100000), bm.MinAmount)
	require.Equal(t, int64(99999), bm.Subtotal)

	res, err := svc.Preview(context.Background(), "BIG", 100000)
	require.NoError(t, err)
	require.Equal(t, int64(20000), res.DiscountAmount)
}

func TestCommitSeesCurrentState(t *testing.T) {
	svc := newService(t)
	seedCode(t, svc, models.DiscountCode{Code: "FLASH", Percentage: 15, Active: true})

	res, err := svc.Preview(context.Background(), "FLASH", 200000)
	require.NoError(t, err)
	require.Equal(t, int64(30000), res.DiscountAmount)

	// deactivate between preview and commit
	require.NoError(t, svc.DB.Model(&models.DiscountCode{}).
		Where("code = ?", "FLASH").Update("active", false).Error)

	err = svc.DB.Transaction(func(tx *gorm.DB) error {
		_, err := svc.Commit(tx, "FLASH", 200000)
		return err
	})
	require.ErrorIs(t, err, domain.ErrDiscountNotFound)
}
