package user

import "github.com/Rana718/forge/internal/models"

// Create is the registration body. Accounts are created active and without
// superuser rights.
type Create struct {
	Base
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// ToModel builds the user to insert from the request and the password hash.
func (c Create) ToModel(hashedPassword string) *models.User {
	return &models.User{
		Email:          c.Email,
		HashedPassword: hashedPassword,
		FullName:       c.FullName,
		IsActive:       true,
	}
}
