package models

import "gorm.io/gorm"

// CartItem is a single product line within a cart.
type CartItem struct {
	ID        uint   `json:"-" gorm:"primaryKey"`
	CartID    string `json:"-" gorm:"index;type:varchar(36)"`
	ProductID string `json:"product_id" gorm:"type:varchar(36)" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// Cart holds the products a user intends to buy. One cart per user.
type Cart struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string     `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	Items      []CartItem `json:"products" gorm:"foreignKey:CartID"`
	gorm.Model            // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
