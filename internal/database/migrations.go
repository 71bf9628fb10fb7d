package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes the scope-filtered list queries
// lean on. Single-column indexes come from the model tags via AutoMigrate;
// this covers the combinations. Postgres only: the existence check reads
// pg_indexes.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"tasks", "idx_tasks_company_status", "company_id, status"},
		{"tasks", "idx_tasks_assigned_status", "assigned_to, status"},
		{"tasks", "idx_tasks_creator_created", "user_id, created_at"},
		{"users", "idx_users_company_role", "company_id, role"},
	}

	for _, idx := range indexes {
		var count int64
		err := db.Raw(`
			SELECT COUNT(*)
			FROM pg_indexes
			WHERE tablename = ? AND indexname = ?
		`, idx.table, idx.name).Count(&count).Error

		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
