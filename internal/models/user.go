package models

import (
	"time"
)

type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `json:"name"`
	Email            string    `gorm:"uniqueIndex" json:"email"` // stored lowercase
	PasswordHash     string    `json:"-"`
	AvatarURL        string    `json:"avatar_url"`
	Bio              string    `json:"bio"`
	PlantsIdentified int       `gorm:"default:0" json:"plants_identified"`
	CreatedAt        time.Time `json:"created_at"`
}
