// Package user holds the request and response bodies of the user endpoints.
package user

// Base holds the profile fields a user may set.
type Base struct {
	Email    string  `json:"email" binding:"required,email,max=255"`
	FullName *string `json:"full_name" binding:"omitempty,max=255"`
}
