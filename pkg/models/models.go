// Package models defines the persistent entities and domain errors for
// the CoverKeep warranty vault.
package models

// AllModels returns all GORM models for auto-migration.
func AllModels() []any {
	return []any{
		&User{},
		&UserMapping{},
		&Warranty{},
	}
}
