package models

type User struct {
	Base
	Email          string  `gorm:"size:255;not null;uniqueIndex" json:"email"`
	HashedPassword string  `gorm:"size:255;not null" json:"-"`
	FullName       *string `gorm:"size:255" json:"full_name"`
	IsActive       bool    `gorm:"not null;default:true" json:"is_active"`
	IsSuperuser    bool    `gorm:"not null;default:false" json:"is_superuser"`
}

func (User) TableName() string { return "users" }
