package database

import "hublish/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Article{},
		&models.Comment{},
		&models.Favourite{},
		&models.Follow{},
	}
}
