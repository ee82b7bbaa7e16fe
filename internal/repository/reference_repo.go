package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/atis-edu/assessment-api/internal/models"
)

// ReferenceRepository loads the reference collections the assessment dialog depends on.
type ReferenceRepository interface {
	ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error)
	ListInstitutions(ctx context.Context) ([]models.Institution, error)
}

type referenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository constructs a repository backed by GORM.
func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error) {
	var years []models.AcademicYear
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&years).Error
	return years, err
}

func (r *referenceRepository) ListInstitutions(ctx context.Context) ([]models.Institution, error) {
	var institutions []models.Institution
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&institutions).Error
	return institutions, err
}
