package database

import (
	"gorm.io/gorm"

	"portfolio-backend/models"
)

type Database struct {
	projectRepo *ProjectRepo
}

// New initializes a Database with each repository using a shared GORM
// instance, migrating the schema first.
func New(db *gorm.DB) (Database, error) {
	if err := db.AutoMigrate(&models.Project{}); err != nil {
		return Database{}, err
	}
	return Database{
		projectRepo: NewProjectRepo(db),
	}, nil
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}
