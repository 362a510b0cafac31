package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/medkala/medstore/internal/hash"
	"github.com/medkala/medstore/internal/logging"
	"github.com/medkala/medstore/internal/models"
)

// Run fills empty tables with sample storefront data. Tables that already
// hold rows are left alone, so restarts never duplicate anything.
func Run(ctx context.Context, db *gorm.DB) error {
	log := logging.FromContext(ctx)

	steps := []struct {
		name string
		fn   func(context.Context, *gorm.DB) error
	}{
		{"products", seedProducts},
		{"articles", seedArticles},
		{"services", seedServices},
		{"discounts", seedDiscounts},
		{"admin", seedAdmin},
	}
	for _, s := range steps {
		if err := s.fn(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.name, err)
		}
		log.Debug("seed step done", "step", s.name)
	}
	return nil
}

func tableEmpty(ctx context.Context, db *gorm.DB, model interface{}) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

func seedProducts(ctx context.Context, db *gorm.DB) error {
	empty, err := tableEmpty(ctx, db, &models.Product{})
	if err != nil || !empty {
		return err
	}

	products := []models.Product{
		{Name: "شیرنیت ضد سرطان", Description: "محصولاتی که بیشترین فروش را داشته اند", Price: 70000, Category: "دارو", Stock: 50, Featured: true},
		{Name: "چسب زخم پارچه ای", Description: "چسب زخم با کیفیت بالا برای مراقبت از زخم ها", Price: 25000, Category: "لوازم پزشکی", Stock: 100, Featured: true},
		{Name: "بسته سرنگ BD", Description: "سرنگ های یکبار مصرف استریل", Price: 85000, Category: "تجهیزات", Stock: 75, Featured: true},
		{Name: "کپسول ویتامین D", Description: "مکمل ویتامین D برای تقویت استخوان ها", Price: 120000, Category: "مکمل", Stock: 30, Featured: true},
		{Name: "ترمومتر دیجیتال", Description: "ترمومتر دیجیتال سریع و دقیق", Price: 45000, Category: "تجهیزات", Stock: 60},
		{Name: "دستکش یکبار مصرف", Description: "دستکش های لاتکس بسته 100 عددی", Price: 35000, Category: "لوازم پزشکی", Stock: 200},
		{Name: "ماسک N95", Description: "ماسک N95 بسته 20 عددی", Price: 65000, Category: "لوازم پزشکی", Stock: 150},
		{Name: "قطره چشم مرطوب کننده", Description: "قطره چشم مرطوب کننده برای خشکی چشم", Price: 28000, Category: "دارو", Stock: 80, DiscountPct: 15},
		{Name: "فشارسنج عقربه ای", Description: "فشارسنج عقربه ای حرفه ای", Price: 180000, Category: "تجهیزات", Stock: 25, DiscountPct: 20},
		{Name: "پماد آنتی بیوتیک", Description: "پماد آنتی بیوتیک برای زخم ها", Price: 22000, Category: "دارو", Stock: 90},
		{Name: "میکروسکوپ آزمایشگاهی", Description: "میکروسکوپ با قدرت بزرگنمایی بالا", Price: 2500000, Category: "تجهیزات", Stock: 10},
		{Name: "مکمل کلسیم و ویتامین D3", Description: "مکمل کلسیم و ویتامین D3 برای استخوان", Price: 95000, Category: "مکمل", Stock: 40, DiscountPct: 10},
	}
	return db.WithContext(ctx).Create(&products).Error
}

func seedArticles(ctx context.Context, db *gorm.DB) error {
	empty, err := tableEmpty(ctx, db, &models.Article{})
	if err != nil || !empty {
		return err
	}

	articles := []models.Article{
		{
			Title:   "اهمیت پایش فشار خون در منزل",
			Content: "پایش منظم فشار خون در منزل یکی از مهم ترین راه های مراقبت از سلامت قلب و عروق است...",
			Summary: "راهنمای کامل پایش فشار خون در منزل",
			Date:    "۱۹ خرداد ۱۴۰۳",
			Author:  "دکتر احمدی",
		},
		{
			Title:   "چگونه از ماسک به درستی استفاده کنیم؟",
			Content: "استفاده صحیح از ماسک های پزشکی برای محافظت در برابر آلودگی ها و بیماری های تنفسی...",
			Summary: "راهنمای صحیح استفاده از ماسک",
			Date:    "۲۲ خرداد ۱۴۰۳",
			Author:  "دکتر محمدی",
		},
		{
			Title:   "نکات مهم در انتخاب تجهیزات اتاق عمل",
			Content: "انتخاب تجهیزات مناسب برای اتاق عمل نیازمند دقت و بررسی های ویژه است...",
			Summary: "راهنمای انتخاب تجهیزات اتاق عمل",
			Date:    "۲۵ خرداد ۱۴۰۳",
			Author:  "دکتر رضایی",
		},
	}
	return db.WithContext(ctx).Create(&articles).Error
}

func seedServices(ctx context.Context, db *gorm.DB) error {
	empty, err := tableEmpty(ctx, db, &models.StoreService{})
	if err != nil || !empty {
		return err
	}

	services := []models.StoreService{
		{
			Title:       "مراقبت های پزشکی ویژه",
			Description: "ما بهترین و جدیدترین تجهیزات پزشکی را برای مراقبت های ویژه در منزل یا مرکز درمان فراهم می کنیم",
			Features:    []string{"مشاوره ۲۴ ساعته", "تجهیزات پیشرفته", "کادر متخصص"},
		},
		{
			Title:       "داروخانه آنلاین",
			Description: "با چند کلیک ساده، داروهای خود را درب منزل تحویل بگیرید",
			Features:    []string{"تحویل سریع", "قیمت مناسب", "کیفیت تضمینی"},
		},
	}
	return db.WithContext(ctx).Create(&services).Error
}

func seedDiscounts(ctx context.Context, db *gorm.DB) error {
	empty, err := tableEmpty(ctx, db, &models.DiscountCode{})
	if err != nil || !empty {
		return err
	}

	now := time.Now().UTC()
	codes := []models.DiscountCode{
		{
			Code:        "NEWUSER20",
			Percentage:  20,
			Description: "تخفیف ۲۰ درصدی برای کاربران جدید",
			ValidFrom:   now,
			ValidUntil:  now.AddDate(1, 0, 0),
			MinAmount:   100000,
			Active:      true,
		},
		{
			Code:        "SUMMER15",
			Percentage:  15,
			Description: "تخفیف تابستانی ۱۵ درصد",
			ValidFrom:   now,
			ValidUntil:  now.AddDate(0, 3, 0),
			MinAmount:   50000,
			Active:      true,
		},
	}
	return db.WithContext(ctx).Create(&codes).Error
}

func seedAdmin(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		logging.FromContext(ctx).Warn("ADMIN_PASSWORD not set, using default admin password")
	}
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     "admin",
		Email:        "admin@medical.com",
		PasswordHash: string(pwHash),
		FullName:     "مدیر سیستم",
		Phone:        "09123456789",
		Role:         "admin",
	}
	return db.WithContext(ctx).Create(&admin).Error
}
