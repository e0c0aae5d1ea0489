package specification

import "gorm.io/gorm"

type PublicOnly struct{}

func (s PublicOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("visibility = ?", "public")
}

// WithAuthor preloads the owner so listings can show the author name.
type WithAuthor struct{}

func (s WithAuthor) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("User")
}
