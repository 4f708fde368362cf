package model

import "time"

type User struct {
	ID            int
	Name          string
	Email         string
	PasswordHash  string
	Avatar        *string
	EmailVerified bool
	CreatedAt     time.Time
}

// UserResponse 返回给前端的用户信息（不含密码）
type UserResponse struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Avatar        *string   `json:"avatar"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (u *User) Response() UserResponse {
	return UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Avatar:        u.Avatar,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
