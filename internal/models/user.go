package models

import (
	"time"
)

type Profile struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"unique;not null"`
	FullName     string    `json:"full_name"`
	PhoneNumber  string    `json:"phone_number"`
	AvatarURL    string    `json:"avatar_url"`
	Role         Role      `json:"role" gorm:"type:varchar(16);not null;default:'customer'"`
	PasswordHash string    `json:"-" gorm:"not null"`
	MFASecret    string    `json:"-"`
	MFAEnabled   bool      `json:"mfa_enabled" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Role string

const (
	RoleCustomer Role = "customer"
	RoleDriver   Role = "driver"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

type UserAddress struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"type:uuid;not null;index"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number"`
	Street      string    `json:"street" gorm:"not null"`
	City        string    `json:"city" gorm:"not null"`
	IsDefault   bool      `json:"is_default" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
}
