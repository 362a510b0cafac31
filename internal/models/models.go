package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	Name        string    `gorm:"not null"                  json:"name"`
	Description string    `gorm:"not null"                  json:"description"`
	Price       int64     `gorm:"not null"                  json:"price"`
	Image       string    `json:"image"`
	Category    string    `gorm:"index"                     json:"category"`
	Stock       int64     `gorm:"not null;default:100"      json:"stock"`
	Featured    bool      `gorm:"default:false"             json:"featured"`
	DiscountPct int       `gorm:"default:0"                 json:"discount_percentage"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Username     string    `gorm:"unique;not null"       json:"username"`
	Email        string    `gorm:"unique;not null"       json:"email"`
	PasswordHash string    `gorm:"not null"              json:"-"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	Role         string    `gorm:"not null;default:user" json:"role"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"               json:"id"`
	Token     string    `gorm:"unique;not null"          json:"token"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Role      string    `gorm:"not null"                 json:"role"`
	ExpiresAt int64     `gorm:"not null"                 json:"expires_at"`
	Revoked   bool      `gorm:"default:false"            json:"revoked"`
}

type Article struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"not null"             json:"title"`
	Content   string    `gorm:"not null"             json:"content"`
	Summary   string    `json:"summary"`
	Image     string    `json:"image"`
	Date      string    `json:"date"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type StoreService struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"not null"             json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Features    []string  `gorm:"serializer:json"      json:"features"`
}

func (s *StoreService) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"product_id"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string    `json:"comment"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type DiscountCode struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string    `gorm:"unique;not null"      json:"code"`
	Percentage  int       `gorm:"not null"             json:"percentage"`
	Description string    `json:"description"`
	ValidFrom   time.Time `json:"valid_from"`
	ValidUntil  time.Time `json:"valid_until"`
	MinAmount   int64     `gorm:"default:0"            json:"min_amount"`
	Active      bool      `gorm:"default:true"         json:"active"`
}

func (d *DiscountCode) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey"                                      json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_product;not null" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_product;not null" json:"product_id"`
	Quantity  uint      `gorm:"default:1;check:quantity>0"                      json:"quantity"`
}

type Order struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Subtotal        int64     `gorm:"not null"                 json:"subtotal"`
	DiscountAmount  int64     `gorm:"default:0"                json:"discount_amount"`
	FinalAmount     int64     `gorm:"not null"                 json:"final_amount"`
	DiscountCode    string    `json:"discount_code,omitempty"`
	ShippingAddress string    `gorm:"not null"                 json:"shipping_address"`
	Status          string    `gorm:"not null;default:pending" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID        uint      `gorm:"primaryKey"               json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"       json:"product_id"`
	Name      string    `json:"name"`
	UnitPrice int64     `gorm:"not null"                 json:"unit_price"`
	Quantity  uint      `gorm:"not null"                 json:"quantity"`
}
