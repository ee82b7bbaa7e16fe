package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/atis-edu/assessment-api/internal/models"
)

// AssessmentRepository persists assessment results.
type AssessmentRepository interface {
	CreateKSQ(ctx context.Context, result *models.KSQResult) error
	CreateBSQ(ctx context.Context, result *models.BSQResult) error
	KSQExists(ctx context.Context, institutionID, academicYearID uint, assessmentDate, assessmentType string) (bool, error)
	BSQExists(ctx context.Context, institutionID, academicYearID uint, assessmentDate, standard string) (bool, error)
}

type assessmentRepository struct {
	db *gorm.DB
}

// NewAssessmentRepository constructs a repository backed by GORM.
func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) CreateKSQ(ctx context.Context, result *models.KSQResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *assessmentRepository) CreateBSQ(ctx context.Context, result *models.BSQResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *assessmentRepository) KSQExists(ctx context.Context, institutionID, academicYearID uint, assessmentDate, assessmentType string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.KSQResult{}).
		Where("institution_id = ? AND academic_year_id = ? AND assessment_date = ? AND assessment_type = ?",
			institutionID, academicYearID, assessmentDate, assessmentType).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *assessmentRepository) BSQExists(ctx context.Context, institutionID, academicYearID uint, assessmentDate, standard string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BSQResult{}).
		Where("institution_id = ? AND academic_year_id = ? AND assessment_date = ? AND international_standard = ?",
			institutionID, academicYearID, assessmentDate, standard).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
