package user

type Update struct {
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Password *string `json:"password" binding:"omitempty,min=8,max=72"`
	FullName *string `json:"full_name" binding:"omitempty,max=255"`
}

// Changes returns the profile columns to update. The password is handled by
// the caller since it has to be hashed.
func (u Update) Changes() map[string]any {
	changes := make(map[string]any)
	if u.Email != nil {
		changes["email"] = *u.Email
	}
	if u.FullName != nil {
		changes["full_name"] = *u.FullName
	}
	return changes
}
