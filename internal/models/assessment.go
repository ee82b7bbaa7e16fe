package models

import (
	"time"

	"gorm.io/datatypes"
)

// AssessmentStatusDraft is the status every newly created result starts in.
const AssessmentStatusDraft = "draft"

// KSQResult is a stored internal quality-standards assessment.
type KSQResult struct {
	ID                   uint              `gorm:"primaryKey" json:"id"`
	InstitutionID        uint              `gorm:"not null;index:idx_ksq_results_unique,unique" json:"institution_id"`
	AcademicYearID       uint              `gorm:"not null;index:idx_ksq_results_unique,unique" json:"academic_year_id"`
	AssessmentDate       string            `gorm:"size:10;not null;index:idx_ksq_results_unique,unique" json:"assessment_date"`
	AssessmentType       string            `gorm:"size:100;not null;index:idx_ksq_results_unique,unique" json:"assessment_type"`
	AssessorID           uint              `gorm:"not null" json:"assessor_id"`
	TotalScore           float64           `gorm:"not null" json:"total_score"`
	MaxPossibleScore     float64           `gorm:"not null" json:"max_possible_score"`
	PercentageScore      float64           `gorm:"not null" json:"percentage_score"`
	GradeLevel           string            `gorm:"size:50" json:"grade_level"`
	SubjectID            *uint             `json:"subject_id"`
	CriteriaScores       datatypes.JSONMap `gorm:"type:json" json:"criteria_scores"`
	Strengths            datatypes.JSON    `gorm:"type:json" json:"strengths"`
	ImprovementAreas     datatypes.JSON    `gorm:"type:json" json:"improvement_areas"`
	Recommendations      datatypes.JSON    `gorm:"type:json" json:"recommendations"`
	Status               string            `gorm:"size:20;not null;default:draft" json:"status"`
	Notes                string            `gorm:"size:1000" json:"notes"`
	FollowUpRequired     bool              `json:"follow_up_required"`
	FollowUpDate         *string           `gorm:"size:10" json:"follow_up_date"`
	PreviousAssessmentID *uint             `json:"previous_assessment_id"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// BSQResult is a stored international-standards assessment.
type BSQResult struct {
	ID                    uint              `gorm:"primaryKey" json:"id"`
	InstitutionID         uint              `gorm:"not null;index:idx_bsq_results_unique,unique" json:"institution_id"`
	AcademicYearID        uint              `gorm:"not null;index:idx_bsq_results_unique,unique" json:"academic_year_id"`
	AssessmentDate        string            `gorm:"size:10;not null;index:idx_bsq_results_unique,unique" json:"assessment_date"`
	InternationalStandard string            `gorm:"size:100;not null;index:idx_bsq_results_unique,unique" json:"international_standard"`
	AssessmentBody        string            `gorm:"size:255;not null" json:"assessment_body"`
	AssessorID            uint              `gorm:"not null" json:"assessor_id"`
	TotalScore            float64           `gorm:"not null" json:"total_score"`
	MaxPossibleScore      float64           `gorm:"not null" json:"max_possible_score"`
	PercentageScore       float64           `gorm:"not null" json:"percentage_score"`
	InternationalRanking  *int              `json:"international_ranking"`
	NationalRanking       *int              `json:"national_ranking"`
	RegionalRanking       *int              `json:"regional_ranking"`
	CompetencyAreas       datatypes.JSONMap `gorm:"type:json" json:"competency_areas"`
	CertificationLevel    string            `gorm:"size:100" json:"certification_level"`
	CertificationValidTo  *string           `gorm:"size:10" json:"certification_valid_until"`
	ImprovementPlan       datatypes.JSON    `gorm:"type:json" json:"improvement_plan"`
	ActionItems           datatypes.JSON    `gorm:"type:json" json:"action_items"`
	Status                string            `gorm:"size:20;not null;default:draft" json:"status"`
	ExternalReportURL     string            `gorm:"size:500" json:"external_report_url"`
	ComplianceScore       *float64          `json:"compliance_score"`
	AccreditationStatus   string            `gorm:"size:50;not null;default:not_applicable" json:"accreditation_status"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             time.Time         `json:"updated_at"`
}
