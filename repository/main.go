package repository

import (
	"github.com/propertyhub/propertyhub/infra"
	"gorm.io/gorm"
)

type Repository struct {
	UserRepo     *UserRepository
	PropertyRepo *PropertyRepository
	ProjectRepo  *ProjectRepository
}

func InitRepository(infra *infra.Infra) *Repository {
	return &Repository{
		UserRepo:     NewUserRepository(infra.Postgres.DB),
		PropertyRepo: NewPropertyRepository(infra.Postgres.DB),
		ProjectRepo:  NewProjectRepository(infra.Postgres.DB),
	}
}

func (r *Repository) BeginTransaction(db *gorm.DB) *gorm.DB {
	return db.Begin()
}

func (r *Repository) WithTransaction(tx *gorm.DB) *Repository {
	return &Repository{
		UserRepo:     NewUserRepository(tx),
		PropertyRepo: NewPropertyRepository(tx),
		ProjectRepo:  NewProjectRepository(tx),
	}
}
