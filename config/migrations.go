package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"p9e.in/leakwatch/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "02052025_create_tables",
			Migrate: func(tx *gorm.DB) error {
				// order matters for the foreign keys
				return tx.AutoMigrate(&models.User{}, &models.Leak{}, &models.Comment{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("comments", "leaks", "users")
			},
		},
		{
			ID: "14052025_add_leak_status_index",
			Migrate: func(tx *gorm.DB) error {
				return tx.Exec("CREATE INDEX IF NOT EXISTS idx_leaks_status ON leaks(status)").Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Exec("DROP INDEX IF EXISTS idx_leaks_status").Error
			},
		},
	})
	return m.Migrate()
}
