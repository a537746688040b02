package model

import (
	"time"

	"github.com/google/uuid"
)

type UserRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MakeAdminRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

type UserResponse struct {
	Id             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Avatar         *string   `json:"avatar"`
	IsAdmin        bool      `json:"isAdmin"`
	CreateDatetime time.Time `json:"createDatetime"`
}

type User struct {
	Id             uuid.UUID
	Name           string
	Email          string
	Password       string
	AvatarImage    *string
	IsAdmin        bool
	CreateDatetime time.Time
	UpdateDatetime time.Time
}
