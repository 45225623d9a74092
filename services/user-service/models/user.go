package models

import (
	"strings"
	"time"
)

// User is the stored account. HashedPassword never leaves the service.
type User struct {
	UserID         uint      `gorm:"column:user_id;primaryKey;autoIncrement"`
	Name           string    `gorm:"column:name;size:100;not null"`
	PhoneNumber    string    `gorm:"column:phone_number;size:20;not null"`
	ImageURL       *string   `gorm:"column:image_url;size:500"`
	Email          string    `gorm:"column:email;size:255;uniqueIndex;not null"`
	HashedPassword string    `gorm:"column:hashed_password;not null" json:"-"`
	Address        *string   `gorm:"column:address;size:500"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string { return "users" }

// NormalizeEmail lower-cases and trims an address before storage or lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type CreateUserRequest struct {
	Name        string  `json:"name" binding:"required,notblank,max=100"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8,maxbytes=72"`
	PhoneNumber string  `json:"phone_number" binding:"required,max=20"`
	ImageURL    *string `json:"image_url" binding:"omitempty,url,max=500"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
}

// UpdateUserRequest lists every field an update may touch. A nil field is left
// as stored.
type UpdateUserRequest struct {
	Name        *string `json:"name" binding:"omitempty,notblank,max=100"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Password    *string `json:"password" binding:"omitempty,min=8,maxbytes=72"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=20"`
	ImageURL    *string `json:"image_url" binding:"omitempty,url,max=500"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
}

// Apply copies the set fields onto u. The password is handled by the caller
// since it must be hashed first.
func (r UpdateUserRequest) Apply(u *User) {
	if r.Name != nil {
		u.Name = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil {
		u.Email = NormalizeEmail(*r.Email)
	}
	if r.PhoneNumber != nil {
		u.PhoneNumber = *r.PhoneNumber
	}
	if r.ImageURL != nil {
		u.ImageURL = r.ImageURL
	}
	if r.Address != nil {
		u.Address = r.Address
	}
}

type ImageUploadRequest struct {
	ContentType string `json:"content_type" binding:"required,startswith=image/"`
}

type UserResponse struct {
	UserID      uint      `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	ImageURL    *string   `json:"image_url"`
	Address     *string   `json:"address"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		UserID:      u.UserID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		ImageURL:    u.ImageURL,
		Address:     u.Address,
		CreatedAt:   u.CreatedAt,
	}
}
