package models

import (
	"database/sql"

	"github.com/AsonyaGh/Bina/pkg/roles"
)

type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         roles.Role `json:"role"`
	LocationID   *string    `json:"location_id,omitempty"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
}

func (u *User) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   u.ID,
		ResourceType: "user",
	}
}

type FlatUserRecord struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	Role         string         `db:"role"`
	LocationID   sql.NullString `db:"location_id"`
	PasswordHash string         `db:"password_hash"`
	IsActive     bool           `db:"is_active"`
}

func (fu *FlatUserRecord) TransformToUser() User {
	user := User{
		ID:           fu.ID,
		Name:         fu.Name,
		Email:        fu.Email,
		Role:         roles.Role(fu.Role),
		PasswordHash: fu.PasswordHash,
		IsActive:     fu.IsActive,
	}
	if fu.LocationID.Valid {
		locationID := fu.LocationID.String
		user.LocationID = &locationID
	}
	return user
}

type CreateUserRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Role       string `json:"role" binding:"required"`
	LocationID string `json:"location_id"`
	Password   string `json:"password" binding:"required,min=6"`
}

type UpdateUserRequest struct {
	Name       *string `json:"name"`
	Role       *string `json:"role"`
	LocationID *string `json:"location_id"`
	Password   *string `json:"password"`
	IsActive   *bool   `json:"is_active"`
}

type UserChanges struct {
	Name         *string
	Role         *string
	LocationID   *string
	PasswordHash *string
	IsActive     *bool
}

func (c *UserChanges) HasChanges() bool {
	return c.Name != nil || c.Role != nil || c.LocationID != nil ||
		c.PasswordHash != nil || c.IsActive != nil
}
