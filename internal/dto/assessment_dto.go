package dto

import (
	"time"

	"github.com/atis-edu/assessment-api/internal/models"
)

// CreateKSQPayload is the request shape handed to the KSQ create operation.
// The submission coordinator builds it from a validated draft; blank criterion
// names and blank text entries have already been dropped.
type CreateKSQPayload struct {
	InstitutionID        uint               `json:"institution_id" validate:"required"`
	AcademicYearID       uint               `json:"academic_year_id" validate:"required"`
	AssessmentDate       string             `json:"assessment_date" validate:"required,datetime=2006-01-02"`
	AssessmentType       string             `json:"assessment_type" validate:"required,max=100"`
	TotalScore           float64            `json:"total_score" validate:"gte=0"`
	MaxPossibleScore     float64            `json:"max_possible_score" validate:"gte=1"`
	PercentageScore      float64            `json:"percentage_score"`
	GradeLevel           string             `json:"grade_level" validate:"max=50"`
	SubjectID            *uint              `json:"subject_id"`
	CriteriaScores       map[string]float64 `json:"criteria_scores"`
	Strengths            []string           `json:"strengths"`
	ImprovementAreas     []string           `json:"improvement_areas"`
	Recommendations      []string           `json:"recommendations"`
	Notes                string             `json:"notes" validate:"max=1000"`
	FollowUpRequired     bool               `json:"follow_up_required"`
	FollowUpDate         string             `json:"follow_up_date" validate:"omitempty,datetime=2006-01-02"`
	PreviousAssessmentID *uint              `json:"previous_assessment_id"`
}

// CreateBSQPayload is the request shape handed to the BSQ create operation.
type CreateBSQPayload struct {
	InstitutionID         uint               `json:"institution_id" validate:"required"`
	AcademicYearID        uint               `json:"academic_year_id" validate:"required"`
	AssessmentDate        string             `json:"assessment_date" validate:"required,datetime=2006-01-02"`
	InternationalStandard string             `json:"international_standard" validate:"required,max=100"`
	AssessmentBody        string             `json:"assessment_body" validate:"required,max=255"`
	TotalScore            float64            `json:"total_score" validate:"gte=0"`
	MaxPossibleScore      float64            `json:"max_possible_score" validate:"gte=1"`
	PercentageScore       float64            `json:"percentage_score"`
	InternationalRanking  *int               `json:"international_ranking" validate:"omitempty,gte=1"`
	NationalRanking       *int               `json:"national_ranking" validate:"omitempty,gte=1"`
	RegionalRanking       *int               `json:"regional_ranking" validate:"omitempty,gte=1"`
	CompetencyAreas       map[string]float64 `json:"competency_areas"`
	CertificationLevel    string             `json:"certification_level" validate:"max=100"`
	CertificationValidTo  string             `json:"certification_valid_until" validate:"omitempty,datetime=2006-01-02"`
	ImprovementPlan       []string           `json:"improvement_plan"`
	ActionItems           []string           `json:"action_items"`
	ExternalReportURL     string             `json:"external_report_url" validate:"omitempty,url"`
	ComplianceScore       *float64           `json:"compliance_score" validate:"omitempty,gte=0,lte=100"`
	AccreditationStatus   string             `json:"accreditation_status" validate:"omitempty,oneof=full_accreditation conditional_accreditation provisional_accreditation denied not_applicable"`
}

// AssessmentCreatedResponse reports a stored assessment back to the dialog.
type AssessmentCreatedResponse struct {
	ID              uint      `json:"id"`
	Type            string    `json:"type"`
	InstitutionID   uint      `json:"institution_id"`
	AcademicYearID  uint      `json:"academic_year_id"`
	PercentageScore float64   `json:"percentage_score"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewKSQCreatedResponse converts a stored KSQ result into the created DTO.
func NewKSQCreatedResponse(model models.KSQResult) AssessmentCreatedResponse {
	return AssessmentCreatedResponse{
		ID:              model.ID,
		Type:            "ksq",
		InstitutionID:   model.InstitutionID,
		AcademicYearID:  model.AcademicYearID,
		PercentageScore: model.PercentageScore,
		Status:          model.Status,
		CreatedAt:       model.CreatedAt,
	}
}

// NewBSQCreatedResponse converts a stored BSQ result into the created DTO.
func NewBSQCreatedResponse(model models.BSQResult) AssessmentCreatedResponse {
	return AssessmentCreatedResponse{
		ID:              model.ID,
		Type:            "bsq",
		InstitutionID:   model.InstitutionID,
		AcademicYearID:  model.AcademicYearID,
		PercentageScore: model.PercentageScore,
		Status:          model.Status,
		CreatedAt:       model.CreatedAt,
	}
}
