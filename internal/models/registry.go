package models

// All returns every model for AutoMigrate. Add generated models here.
func All() []any {
	return []any{
		&User{},
	}
}
