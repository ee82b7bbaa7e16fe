package draft

import "errors"

// Type discriminates the two assessment draft variants.
type Type string

const (
	// TypeKSQ is the internal quality-standards assessment, scored via weighted criteria.
	TypeKSQ Type = "ksq"
	// TypeBSQ is the international-standards assessment, a flat scalar-field form.
	TypeBSQ Type = "bsq"
)

// Valid reports whether t names a known draft type.
func (t Type) Valid() bool {
	return t == TypeKSQ || t == TypeBSQ
}

// ListName discriminates the free-text lists on a KSQ draft.
type ListName string

const (
	ListStrengths       ListName = "strengths"
	ListImprovements    ListName = "improvements"
	ListRecommendations ListName = "recommendations"
)

// Valid reports whether n names a known text list.
func (n ListName) Valid() bool {
	switch n {
	case ListStrengths, ListImprovements, ListRecommendations:
		return true
	}
	return false
}

// ErrWrongDraftType indicates a KSQ-only operation was invoked while the BSQ
// draft is active (or vice versa). The store state is left untouched.
var ErrWrongDraftType = errors.New("operation not supported by the active draft type")

// ErrUnknownList indicates a text-list operation named a list that does not exist.
var ErrUnknownList = errors.New("unknown text list")

// Criterion is a single scored line item within a KSQ draft.
type Criterion struct {
	Name     string
	Score    float64
	MaxScore float64
}

// CriterionItem is a criterion together with its stable identifier.
type CriterionItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`
}

// CriterionPatch carries a partial update for a criterion; nil fields are left unchanged.
type CriterionPatch struct {
	Name     *string
	Score    *float64
	MaxScore *float64
}

// KSQDraft holds the in-progress state of an internal quality assessment.
type KSQDraft struct {
	AcademicYearID       uint
	InstitutionID        uint
	AssessmentDate       string
	AssessmentType       string
	TotalScore           float64
	MaxPossibleScore     float64
	GradeLevel           string
	SubjectID            *uint
	Notes                string
	FollowUpRequired     bool
	FollowUpDate         string
	PreviousAssessmentID *uint

	criteria *ListEditor[Criterion]
	lists    map[ListName]*ListEditor[string]
}

// BSQDraft holds the in-progress state of an international-standards assessment.
type BSQDraft struct {
	AcademicYearID        uint
	InstitutionID         uint
	AssessmentDate        string
	InternationalStandard string
	AssessmentBody        string
	TotalScore            float64
	MaxPossibleScore      float64
	InternationalRanking  *int
	NationalRanking       *int
	RegionalRanking       *int
	CompetencyAreas       map[string]float64
	CertificationLevel    string
	CertificationValidTo  string
	ImprovementPlan       []string
	ActionItems           []string
	ExternalReportURL     string
	ComplianceScore       *float64
	AccreditationStatus   string
}

// KSQPatch carries partial scalar updates for a KSQ draft.
type KSQPatch struct {
	AcademicYearID       *uint
	InstitutionID        *uint
	AssessmentDate       *string
	AssessmentType       *string
	TotalScore           *float64
	MaxPossibleScore     *float64
	GradeLevel           *string
	SubjectID            *uint
	Notes                *string
	FollowUpRequired     *bool
	FollowUpDate         *string
	PreviousAssessmentID *uint
}

// BSQPatch carries partial scalar updates for a BSQ draft.
type BSQPatch struct {
	AcademicYearID        *uint
	InstitutionID         *uint
	AssessmentDate        *string
	InternationalStandard *string
	AssessmentBody        *string
	TotalScore            *float64
	MaxPossibleScore      *float64
	InternationalRanking  *int
	NationalRanking       *int
	RegionalRanking       *int
	CompetencyAreas       map[string]float64
	CertificationLevel    *string
	CertificationValidTo  *string
	ImprovementPlan       []string
	ActionItems           []string
	ExternalReportURL     *string
	ComplianceScore       *float64
	AccreditationStatus   *string
}

// Store owns the two mutually exclusive draft documents for one open dialog
// session. Both slots persist independently so switching the active type never
// discards unsaved edits in the other tab.
type Store struct {
	selected Type
	ksq      KSQDraft
	bsq      BSQDraft
}

// NewStore constructs a store with both slots in their default empty state and
// the KSQ draft selected.
func NewStore() *Store {
	s := &Store{}
	s.Reset()
	return s
}

func newKSQDraft() KSQDraft {
	return KSQDraft{
		MaxPossibleScore: 100,
		criteria:         NewListEditor[Criterion](),
		lists: map[ListName]*ListEditor[string]{
			ListStrengths:       NewListEditor[string](),
			ListImprovements:    NewListEditor[string](),
			ListRecommendations: NewListEditor[string](),
		},
	}
}

func newBSQDraft() BSQDraft {
	return BSQDraft{
		MaxPossibleScore:    100,
		AccreditationStatus: "not_applicable",
	}
}

// Reset reinitializes both slots and restores the initial selected type.
func (s *Store) Reset() {
	s.selected = TypeKSQ
	s.ksq = newKSQDraft()
	s.bsq = newBSQDraft()
}

// ResetType reinitializes only the named slot, leaving the other draft and the
// current selection intact.
func (s *Store) ResetType(t Type) {
	switch t {
	case TypeKSQ:
		s.ksq = newKSQDraft()
	case TypeBSQ:
		s.bsq = newBSQDraft()
	}
}

// SelectedType returns the active draft type.
func (s *Store) SelectedType() Type {
	return s.selected
}

// SetSelectedType switches the active slot without touching either draft's contents.
func (s *Store) SetSelectedType(t Type) error {
	if !t.Valid() {
		return ErrWrongDraftType
	}
	s.selected = t
	return nil
}

// KSQ returns a snapshot of the KSQ draft's scalar fields.
func (s *Store) KSQ() KSQDraft {
	return s.ksq
}

// BSQ returns a snapshot of the BSQ draft.
func (s *Store) BSQ() BSQDraft {
	return s.bsq
}

// ApplyKSQPatch sets scalar fields on the KSQ draft. The KSQ draft must be active.
func (s *Store) ApplyKSQPatch(patch KSQPatch) error {
	if s.selected != TypeKSQ {
		return ErrWrongDraftType
	}
	d := &s.ksq
	if patch.AcademicYearID != nil {
		d.AcademicYearID = *patch.AcademicYearID
	}
	if patch.InstitutionID != nil {
		d.InstitutionID = *patch.InstitutionID
	}
	if patch.AssessmentDate != nil {
		d.AssessmentDate = *patch.AssessmentDate
	}
	if patch.AssessmentType != nil {
		d.AssessmentType = *patch.AssessmentType
	}
	if patch.TotalScore != nil {
		d.TotalScore = *patch.TotalScore
	}
	if patch.MaxPossibleScore != nil {
		d.MaxPossibleScore = *patch.MaxPossibleScore
	}
	if patch.GradeLevel != nil {
		d.GradeLevel = *patch.GradeLevel
	}
	if patch.SubjectID != nil {
		d.SubjectID = patch.SubjectID
	}
	if patch.Notes != nil {
		d.Notes = *patch.Notes
	}
	if patch.FollowUpRequired != nil {
		d.FollowUpRequired = *patch.FollowUpRequired
	}
	if patch.FollowUpDate != nil {
		d.FollowUpDate = *patch.FollowUpDate
	}
	if patch.PreviousAssessmentID != nil {
		d.PreviousAssessmentID = patch.PreviousAssessmentID
	}
	return nil
}

// ApplyBSQPatch sets scalar fields on the BSQ draft. The BSQ draft must be active.
func (s *Store) ApplyBSQPatch(patch BSQPatch) error {
	if s.selected != TypeBSQ {
		return ErrWrongDraftType
	}
	d := &s.bsq
	if patch.AcademicYearID != nil {
		d.AcademicYearID = *patch.AcademicYearID
	}
	if patch.InstitutionID != nil {
		d.InstitutionID = *patch.InstitutionID
	}
	if patch.AssessmentDate != nil {
		d.AssessmentDate = *patch.AssessmentDate
	}
	if patch.InternationalStandard != nil {
		d.InternationalStandard = *patch.InternationalStandard
	}
	if patch.AssessmentBody != nil {
		d.AssessmentBody = *patch.AssessmentBody
	}
	if patch.TotalScore != nil {
		d.TotalScore = *patch.TotalScore
	}
	if patch.MaxPossibleScore != nil {
		d.MaxPossibleScore = *patch.MaxPossibleScore
	}
	if patch.InternationalRanking != nil {
		d.InternationalRanking = patch.InternationalRanking
	}
	if patch.NationalRanking != nil {
		d.NationalRanking = patch.NationalRanking
	}
	if patch.RegionalRanking != nil {
		d.RegionalRanking = patch.RegionalRanking
	}
	if patch.CompetencyAreas != nil {
		d.CompetencyAreas = patch.CompetencyAreas
	}
	if patch.CertificationLevel != nil {
		d.CertificationLevel = *patch.CertificationLevel
	}
	if patch.CertificationValidTo != nil {
		d.CertificationValidTo = *patch.CertificationValidTo
	}
	if patch.ImprovementPlan != nil {
		d.ImprovementPlan = patch.ImprovementPlan
	}
	if patch.ActionItems != nil {
		d.ActionItems = patch.ActionItems
	}
	if patch.ExternalReportURL != nil {
		d.ExternalReportURL = *patch.ExternalReportURL
	}
	if patch.ComplianceScore != nil {
		d.ComplianceScore = patch.ComplianceScore
	}
	if patch.AccreditationStatus != nil {
		d.AccreditationStatus = *patch.AccreditationStatus
	}
	return nil
}

// ApplyDefaults fills the academic year and institution on both slots, but only
// where the field is still unset. Explicit user choices are never overwritten.
func (s *Store) ApplyDefaults(academicYearID, institutionID uint) {
	if academicYearID > 0 {
		if s.ksq.AcademicYearID == 0 {
			s.ksq.AcademicYearID = academicYearID
		}
		if s.bsq.AcademicYearID == 0 {
			s.bsq.AcademicYearID = academicYearID
		}
	}
	if institutionID > 0 {
		if s.ksq.InstitutionID == 0 {
			s.ksq.InstitutionID = institutionID
		}
		if s.bsq.InstitutionID == 0 {
			s.bsq.InstitutionID = institutionID
		}
	}
}

// AddCriterion appends a criterion row to the KSQ draft and returns its
// identifier. Rejected while the BSQ draft is active: a BSQ draft must never
// silently acquire a criteria list.
func (s *Store) AddCriterion(criterion Criterion) (int64, error) {
	if s.selected != TypeKSQ {
		return 0, ErrWrongDraftType
	}
	return s.ksq.criteria.Add(criterion), nil
}

// RemoveCriterion deletes a criterion row by identifier; unknown identifiers
// are a no-op so a rapid double-remove from the UI is harmless.
func (s *Store) RemoveCriterion(id int64) error {
	if s.selected != TypeKSQ {
		return ErrWrongDraftType
	}
	s.ksq.criteria.Remove(id)
	return nil
}

// UpdateCriterion merges a partial update into the criterion with the given
// identifier; unknown identifiers are a no-op.
func (s *Store) UpdateCriterion(id int64, patch CriterionPatch) error {
	if s.selected != TypeKSQ {
		return ErrWrongDraftType
	}
	s.ksq.criteria.Update(id, func(c *Criterion) {
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Score != nil {
			c.Score = *patch.Score
		}
		if patch.MaxScore != nil {
			c.MaxScore = *patch.MaxScore
		}
	})
	return nil
}

// Criteria returns the KSQ criterion rows with their identifiers, in insertion order.
func (s *Store) Criteria() []CriterionItem {
	items := s.ksq.criteria.Items()
	out := make([]CriterionItem, 0, len(items))
	for _, item := range items {
		out = append(out, CriterionItem{
			ID:       item.ID,
			Name:     item.Value.Name,
			Score:    item.Value.Score,
			MaxScore: item.Value.MaxScore,
		})
	}
	return out
}

// CriteriaValues returns the KSQ criterion rows without identifiers.
func (s *Store) CriteriaValues() []Criterion {
	return s.ksq.criteria.Values()
}

// OverallPercentage aggregates the KSQ criteria into a single percentage.
func (s *Store) OverallPercentage() int {
	return Overall(s.ksq.criteria.Values())
}

// AddListItem appends a free-text entry to the named KSQ list and returns its
// position.
func (s *Store) AddListItem(name ListName, value string) (int, error) {
	editor, err := s.textList(name)
	if err != nil {
		return 0, err
	}
	editor.Add(value)
	return editor.Len() - 1, nil
}

// RemoveListItem deletes the entry at the given position from the named list;
// out-of-range positions are a no-op. Subsequent entries are re-keyed.
func (s *Store) RemoveListItem(name ListName, index int) error {
	editor, err := s.textList(name)
	if err != nil {
		return err
	}
	editor.RemoveAt(index)
	return nil
}

// UpdateListItem replaces the entry at the given position in the named list;
// out-of-range positions are a no-op.
func (s *Store) UpdateListItem(name ListName, index int, value string) error {
	editor, err := s.textList(name)
	if err != nil {
		return err
	}
	editor.UpdateAt(index, func(item *string) {
		*item = value
	})
	return nil
}

// ListItems returns the named KSQ text list in order. Reads are allowed
// regardless of the active type so snapshots always reflect both slots.
func (s *Store) ListItems(name ListName) []string {
	editor, ok := s.ksq.lists[name]
	if !ok {
		return nil
	}
	return editor.Values()
}

func (s *Store) textList(name ListName) (*ListEditor[string], error) {
	if s.selected != TypeKSQ {
		return nil, ErrWrongDraftType
	}
	editor, ok := s.ksq.lists[name]
	if !ok {
		return nil, ErrUnknownList
	}
	return editor, nil
}
