package models

import "gorm.io/gorm"

// User represents a registered account.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"type:varchar(100)" validate:"required,min=3,max=30"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)"` // bcrypt hash; no json tag for security
	Phone      string `json:"phone" gorm:"type:varchar(20)"`
	Profile    string `json:"profile" gorm:"type:varchar(512)"` // public URL of the profile image
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// PublicUser is the outward-facing projection of a User. The password
// hash never crosses the API boundary.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Profile  string `json:"profile,omitempty"`
}

// Public returns the projection of u safe to return to clients.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		Profile:  u.Profile,
	}
}
