package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names carried in the "role" claim of access tokens.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleRegistrar Role = "registrar"
	RolePilot     Role = "pilot"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleRegistrar || r == RolePilot
}

type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username  string         `gorm:"not null;size:100;uniqueIndex" json:"username"`
	Email     string         `gorm:"not null;size:255;uniqueIndex" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      Role           `gorm:"size:20;not null;default:'pilot'" json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
