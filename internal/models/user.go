package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model `json:"-"`
	ID         uint       `json:"id" gorm:"primaryKey"`
	Name       string     `json:"name"`
	Email      string     `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Password   string     `json:"-"`                        // Store hashed password, ignore for JSON serialization
	Bio        string     `json:"bio"`
	AvatarURL  string     `json:"avatarUrl"`
	Location   string     `json:"location"`
	Website    string     `json:"website"`
	Birthday   *time.Time `json:"birthday,omitempty"`
	Occupation string     `json:"occupation"`
	GoogleUID  string     `json:"-" gorm:"index"` // Link to the external identity provider's UID
}

// UserCompact is the public projection of a user attached to posts and comments
type UserCompact struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// ToCompact projects the public fields of a user
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest uses pointers so an absent field leaves the stored
// value untouched while an empty string still clears it
type UpdateProfileRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Bio        *string `json:"bio,omitempty"`
	AvatarURL  *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
	Location   *string `json:"location,omitempty"`
	Website    *string `json:"website,omitempty"`
	Birthday   *string `json:"birthday,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Occupation *string `json:"occupation,omitempty"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
