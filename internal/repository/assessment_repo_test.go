package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atis-edu/assessment-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.KSQResult{}, &models.BSQResult{}, &models.AcademicYear{}, &models.Institution{}))
	return db
}

func TestAssessmentRepositoryCreateKSQ(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssessmentRepository(db)

	result := models.KSQResult{
		InstitutionID:    5,
		AcademicYearID:   2,
		AssessmentDate:   "2025-05-10",
		AssessmentType:   "annual quality review",
		AssessorID:       1,
		TotalScore:       70,
		MaxPossibleScore: 100,
		PercentageScore:  70,
		CriteriaScores:   datatypes.JSONMap{"Teaching": 8.0},
		Status:           models.AssessmentStatusDraft,
	}
	require.NoError(t, repo.CreateKSQ(context.Background(), &result))
	require.NotZero(t, result.ID)

	exists, err := repo.KSQExists(context.Background(), 5, 2, "2025-05-10", "annual quality review")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.KSQExists(context.Background(), 5, 2, "2025-05-11", "annual quality review")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestAssessmentRepositoryCreateBSQ(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAssessmentRepository(db)

	result := models.BSQResult{
		InstitutionID:         5,
		AcademicYearID:        2,
		AssessmentDate:        "2025-05-10",
		InternationalStandard: "ISO 21001",
		AssessmentBody:        "Cambridge International",
		AssessorID:            1,
		TotalScore:            88,
		MaxPossibleScore:      100,
		PercentageScore:       88,
		Status:                models.AssessmentStatusDraft,
		AccreditationStatus:   "full_accreditation",
	}
	require.NoError(t, repo.CreateBSQ(context.Background(), &result))
	require.NotZero(t, result.ID)

	exists, err := repo.BSQExists(context.Background(), 5, 2, "2025-05-10", "ISO 21001")
	require.NoError(t, err)
	require.True(t, exists)
}
