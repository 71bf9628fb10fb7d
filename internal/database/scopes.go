package database

import (
	"gorm.io/gorm"
)

// Paginate applies pagination to a GORM query. Zero or negative values
// leave the query unpaginated.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page > 0 && pageSize > 0 {
			offset := (page - 1) * pageSize
			return db.Offset(offset).Limit(pageSize)
		}
		return db
	}
}
