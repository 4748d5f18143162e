package database

import (
	"gorm.io/gorm"

	"showcase-backend/cache"
)

type Database struct {
	projectRepo *ProjectRepo
}

// New initializes a new Database struct with each repository using a shared
// GORM database instance. The invalidator is threaded into every repo whose
// writes must flush the read cache.
func New(db *gorm.DB, invalidator cache.Invalidator) Database {
	return Database{
		projectRepo: NewProjectRepo(db, invalidator),
	}
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}
