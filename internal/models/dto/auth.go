package dto

import (
	"github.com/hongminglow/care-admin/internal/models"
	"github.com/hongminglow/care-admin/internal/rbac"
)

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=64"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token          string      `json:"token"`
	ExpiresIn      int64       `json:"expires_in"`
	User           models.User `json:"user"`
	PrivilegeLevel rbac.Level  `json:"privilege_level"`
}
