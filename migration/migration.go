package migration

import (
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// MigrationFunc applies one schema change. Must be idempotent: reruns on an
// already-migrated database are no-ops.
type MigrationFunc func(db *gorm.DB) error

type appliedMigration struct {
	ID   uint   `gorm:"primary_key"`
	Name string `gorm:"unique;not null"`
}

func (appliedMigration) TableName() string { return "schema_migrations" }

var registry = map[string]MigrationFunc{}

// Register adds a migration under a unique, sortable name (date prefix).
func Register(name string, fn MigrationFunc) error {
	if _, ok := registry[name]; ok {
		return fmt.Errorf("migration %q registered twice", name)
	}
	registry[name] = fn
	return nil
}

// RunAll applies every registered migration that has not run yet, in name
// order, recording each in schema_migrations.
func RunAll(db *gorm.DB) error {
	if err := db.AutoMigrate(&appliedMigration{}); err != nil {
		return err
	}

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		var count int64
		if err := db.Model(&appliedMigration{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := registry[name](db); err != nil {
			return fmt.Errorf("migration %q: %w", name, err)
		}
		if err := db.Create(&appliedMigration{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}
