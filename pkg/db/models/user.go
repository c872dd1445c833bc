package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the minimal principal behind the token bootstrap endpoint.
type User struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username string    `gorm:"column:username;uniqueIndex;not null" json:"username"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
