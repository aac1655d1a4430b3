// Package models holds the gorm models of the service. Generated resources
// land here too.
package models

import "time"

// Base declares the columns every model shares.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
