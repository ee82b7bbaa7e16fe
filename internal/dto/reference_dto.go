package dto

import "github.com/atis-edu/assessment-api/internal/models"

// AcademicYearResponse is the dropdown representation of an academic year.
type AcademicYearResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// InstitutionResponse is the dropdown representation of an institution.
type InstitutionResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	UTISCode string `json:"utis_code"`
	Type     string `json:"type"`
}

// ReferenceDefaults carries the advisory pre-fill values derived from loaded
// reference collections. Nil members mean no unambiguous default exists.
type ReferenceDefaults struct {
	ActiveAcademicYear *AcademicYearResponse `json:"active_academic_year"`
	DefaultInstitution *InstitutionResponse  `json:"default_institution"`
}

// NewAcademicYearResponse converts a model into a DTO.
func NewAcademicYearResponse(model models.AcademicYear) AcademicYearResponse {
	return AcademicYearResponse{
		ID:       model.ID,
		Name:     model.Name,
		IsActive: model.IsActive,
	}
}

// NewAcademicYearResponseSlice converts a slice of models into DTOs.
func NewAcademicYearResponseSlice(years []models.AcademicYear) []AcademicYearResponse {
	responses := make([]AcademicYearResponse, 0, len(years))
	for _, year := range years {
		responses = append(responses, NewAcademicYearResponse(year))
	}

	return responses
}

// NewInstitutionResponse converts a model into a DTO.
func NewInstitutionResponse(model models.Institution) InstitutionResponse {
	return InstitutionResponse{
		ID:       model.ID,
		Name:     model.Name,
		UTISCode: model.UTISCode,
		Type:     model.Type,
	}
}

// NewInstitutionResponseSlice converts a slice of models into DTOs.
func NewInstitutionResponseSlice(institutions []models.Institution) []InstitutionResponse {
	responses := make([]InstitutionResponse, 0, len(institutions))
	for _, institution := range institutions {
		responses = append(responses, NewInstitutionResponse(institution))
	}

	return responses
}
