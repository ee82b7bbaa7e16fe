package dto

import (
	"github.com/atis-edu/assessment-api/internal/draft"
)

// SelectTypeRequest switches the active draft type for a session.
type SelectTypeRequest struct {
	Type string `json:"type" validate:"required,oneof=ksq bsq"`
}

// DraftFieldsRequest carries partial scalar updates for the active draft.
// It is the superset of both variants; the service routes the patch to the
// slot matching the session's selected type.
type DraftFieldsRequest struct {
	AcademicYearID       *uint    `json:"academic_year_id"`
	InstitutionID        *uint    `json:"institution_id"`
	AssessmentDate       *string  `json:"assessment_date"`
	AssessmentType       *string  `json:"assessment_type"`
	TotalScore           *float64 `json:"total_score" validate:"omitempty,gte=0"`
	MaxPossibleScore     *float64 `json:"max_possible_score" validate:"omitempty,gte=1"`
	GradeLevel           *string  `json:"grade_level"`
	SubjectID            *uint    `json:"subject_id"`
	Notes                *string  `json:"notes" validate:"omitempty,max=1000"`
	FollowUpRequired     *bool    `json:"follow_up_required"`
	FollowUpDate         *string  `json:"follow_up_date"`
	PreviousAssessmentID *uint    `json:"previous_assessment_id"`

	InternationalStandard *string            `json:"international_standard"`
	AssessmentBody        *string            `json:"assessment_body"`
	InternationalRanking  *int               `json:"international_ranking" validate:"omitempty,gte=1"`
	NationalRanking       *int               `json:"national_ranking" validate:"omitempty,gte=1"`
	RegionalRanking       *int               `json:"regional_ranking" validate:"omitempty,gte=1"`
	CompetencyAreas       map[string]float64 `json:"competency_areas"`
	CertificationLevel    *string            `json:"certification_level"`
	CertificationValidTo  *string            `json:"certification_valid_until"`
	ImprovementPlan       []string           `json:"improvement_plan"`
	ActionItems           []string           `json:"action_items"`
	ExternalReportURL     *string            `json:"external_report_url" validate:"omitempty,url"`
	ComplianceScore       *float64           `json:"compliance_score" validate:"omitempty,gte=0,lte=100"`
	AccreditationStatus   *string            `json:"accreditation_status" validate:"omitempty,oneof=full_accreditation conditional_accreditation provisional_accreditation denied not_applicable"`
}

// CriterionRequest creates or patches a criterion row; nil fields are left unchanged.
type CriterionRequest struct {
	Name     *string  `json:"name"`
	Score    *float64 `json:"score" validate:"omitempty,gte=0"`
	MaxScore *float64 `json:"max_score" validate:"omitempty,gte=0"`
}

// ListItemRequest carries a free-text list entry value.
type ListItemRequest struct {
	Value string `json:"value"`
}

// CriterionCreatedResponse reports the identifier minted for a new criterion row.
type CriterionCreatedResponse struct {
	ID int64 `json:"id"`
}

// ListItemCreatedResponse reports the position of a newly appended list entry.
type ListItemCreatedResponse struct {
	Index int `json:"index"`
}

// KSQDraftView is the serialized scalar state of a KSQ draft slot.
type KSQDraftView struct {
	AcademicYearID       uint    `json:"academic_year_id"`
	InstitutionID        uint    `json:"institution_id"`
	AssessmentDate       string  `json:"assessment_date"`
	AssessmentType       string  `json:"assessment_type"`
	TotalScore           float64 `json:"total_score"`
	MaxPossibleScore     float64 `json:"max_possible_score"`
	GradeLevel           string  `json:"grade_level"`
	SubjectID            *uint   `json:"subject_id"`
	Notes                string  `json:"notes"`
	FollowUpRequired     bool    `json:"follow_up_required"`
	FollowUpDate         string  `json:"follow_up_date"`
	PreviousAssessmentID *uint   `json:"previous_assessment_id"`
}

// BSQDraftView is the serialized scalar state of a BSQ draft slot.
type BSQDraftView struct {
	AcademicYearID        uint               `json:"academic_year_id"`
	InstitutionID         uint               `json:"institution_id"`
	AssessmentDate        string             `json:"assessment_date"`
	InternationalStandard string             `json:"international_standard"`
	AssessmentBody        string             `json:"assessment_body"`
	TotalScore            float64            `json:"total_score"`
	MaxPossibleScore      float64            `json:"max_possible_score"`
	InternationalRanking  *int               `json:"international_ranking"`
	NationalRanking       *int               `json:"national_ranking"`
	RegionalRanking       *int               `json:"regional_ranking"`
	CompetencyAreas       map[string]float64 `json:"competency_areas"`
	CertificationLevel    string             `json:"certification_level"`
	CertificationValidTo  string             `json:"certification_valid_until"`
	ImprovementPlan       []string           `json:"improvement_plan"`
	ActionItems           []string           `json:"action_items"`
	ExternalReportURL     string             `json:"external_report_url"`
	ComplianceScore       *float64           `json:"compliance_score"`
	AccreditationStatus   string             `json:"accreditation_status"`
}

// DraftSessionResponse is the full state of one open draft session.
type DraftSessionResponse struct {
	SessionID         string                `json:"session_id"`
	SelectedType      string                `json:"selected_type"`
	Creating          bool                  `json:"creating"`
	OverallPercentage int                   `json:"overall_percentage"`
	Criteria          []draft.CriterionItem `json:"criteria"`
	Strengths         []string              `json:"strengths"`
	Improvements      []string              `json:"improvements"`
	Recommendations   []string              `json:"recommendations"`
	KSQ               KSQDraftView          `json:"ksq"`
	BSQ               BSQDraftView          `json:"bsq"`
	FieldErrors       map[string]string     `json:"field_errors,omitempty"`
}

// NewKSQDraftView converts a draft slot snapshot into its view.
func NewKSQDraftView(d draft.KSQDraft) KSQDraftView {
	return KSQDraftView{
		AcademicYearID:       d.AcademicYearID,
		InstitutionID:        d.InstitutionID,
		AssessmentDate:       d.AssessmentDate,
		AssessmentType:       d.AssessmentType,
		TotalScore:           d.TotalScore,
		MaxPossibleScore:     d.MaxPossibleScore,
		GradeLevel:           d.GradeLevel,
		SubjectID:            d.SubjectID,
		Notes:                d.Notes,
		FollowUpRequired:     d.FollowUpRequired,
		FollowUpDate:         d.FollowUpDate,
		PreviousAssessmentID: d.PreviousAssessmentID,
	}
}

// NewBSQDraftView converts a draft slot snapshot into its view.
func NewBSQDraftView(d draft.BSQDraft) BSQDraftView {
	return BSQDraftView{
		AcademicYearID:        d.AcademicYearID,
		InstitutionID:         d.InstitutionID,
		AssessmentDate:        d.AssessmentDate,
		InternationalStandard: d.InternationalStandard,
		AssessmentBody:        d.AssessmentBody,
		TotalScore:            d.TotalScore,
		MaxPossibleScore:      d.MaxPossibleScore,
		InternationalRanking:  d.InternationalRanking,
		NationalRanking:       d.NationalRanking,
		RegionalRanking:       d.RegionalRanking,
		CompetencyAreas:       d.CompetencyAreas,
		CertificationLevel:    d.CertificationLevel,
		CertificationValidTo:  d.CertificationValidTo,
		ImprovementPlan:       d.ImprovementPlan,
		ActionItems:           d.ActionItems,
		ExternalReportURL:     d.ExternalReportURL,
		ComplianceScore:       d.ComplianceScore,
		AccreditationStatus:   d.AccreditationStatus,
	}
}
