package repository

import (
	"github.com/google/uuid"
	"github.com/propertyhub/propertyhub/entity"
	"gorm.io/gorm"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(property *entity.Property) error {
	return r.db.Create(property).Error
}

func (r *PropertyRepository) FindByID(id uuid.UUID) (*entity.Property, error) {
	var property entity.Property
	err := r.db.Where("id = ?", id).First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepository) FindBySlug(slug string) (*entity.Property, error) {
	var property entity.Property
	err := r.db.Where("slug = ?", slug).First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// SlugExists reports whether another property already uses the slug. A zero
// excludeID means no record is excluded from the check.
func (r *PropertyRepository) SlugExists(slug string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.Model(&entity.Property{}).Where("slug = ?", slug)
	if excludeID != uuid.Nil {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PropertyRepository) FindByAgentID(agentID uuid.UUID) ([]entity.Property, error) {
	var properties []entity.Property
	err := r.db.Where("agent_id = ?", agentID).Order("created_at DESC").Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *PropertyRepository) FindAll(limit int) ([]entity.Property, error) {
	var properties []entity.Property
	err := r.db.Order("created_at DESC").Limit(limit).Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (r *PropertyRepository) Update(property *entity.Property) error {
	return r.db.Save(property).Error
}

func (r *PropertyRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&entity.Property{}, "id = ?", id).Error
}
