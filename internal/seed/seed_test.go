package seed

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medkala/medstore/internal/hash"
	"github.com/medkala/medstore/internal/logging"
	"github.com/medkala/medstore/internal/models"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{}, &models.User{}, &models.RefreshToken{},
		&models.Article{}, &models.StoreService{}, &models.Review{},
		&models.DiscountCode{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	))
	return db
}

func TestRun(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	db := initTestDB(t)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx := logging.IntoContext(context.Background(), logger)

	require.NoError(t, Run(ctx, db))

	var admin models.User
	require.NoError(t, db.Where("role = ?", "admin").First(&admin).Error)
	require.True(t, hash.CheckPassword(admin.PasswordHash, "admin123"))
	require.Contains(t, buf.String(), "ADMIN_PASSWORD not set")

	var products, codes int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	require.NoError(t, db.Model(&models.DiscountCode{}).Count(&codes).Error)
	require.NotZero(t, products)
	require.EqualValues(t, 2, codes)

	// second run leaves everything in place
	require.NoError(t, Run(ctx, db))

	var after, admins int64
	require.NoError(t, db.Model(&models.Product{}).Count(&after).Error)
	require.NoError(t, db.Model(&models.User{}).Where("role = ?", "admin").Count(&admins).Error)
	require.Equal(t, products, after)
	require.EqualValues(t, 1, admins)
}
