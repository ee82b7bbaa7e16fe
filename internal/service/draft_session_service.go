package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/atis-edu/assessment-api/internal/draft"
	"github.com/atis-edu/assessment-api/internal/dto"
	"github.com/atis-edu/assessment-api/internal/observability"
)

// DraftSessionService owns the server-side state of open assessment dialogs.
// Every open dialog maps to one session; all edits for a session are
// serialized through its lock, so concurrent requests from the same dialog
// never interleave half-applied.
type DraftSessionService interface {
	Open(ctx context.Context, assessorID uint) (dto.DraftSessionResponse, error)
	Get(ctx context.Context, sessionID string) (dto.DraftSessionResponse, error)
	Close(ctx context.Context, sessionID string) error
	SelectType(ctx context.Context, sessionID string, req dto.SelectTypeRequest) (dto.DraftSessionResponse, error)
	ApplyFields(ctx context.Context, sessionID string, req dto.DraftFieldsRequest) (dto.DraftSessionResponse, error)
	AddCriterion(ctx context.Context, sessionID string, req dto.CriterionRequest) (dto.CriterionCreatedResponse, error)
	UpdateCriterion(ctx context.Context, sessionID string, criterionID int64, req dto.CriterionRequest) (dto.DraftSessionResponse, error)
	RemoveCriterion(ctx context.Context, sessionID string, criterionID int64) (dto.DraftSessionResponse, error)
	AddListItem(ctx context.Context, sessionID string, list draft.ListName, req dto.ListItemRequest) (dto.ListItemCreatedResponse, error)
	UpdateListItem(ctx context.Context, sessionID string, list draft.ListName, index int, req dto.ListItemRequest) (dto.DraftSessionResponse, error)
	RemoveListItem(ctx context.Context, sessionID string, list draft.ListName, index int) (dto.DraftSessionResponse, error)
	Submit(ctx context.Context, sessionID string) (dto.AssessmentCreatedResponse, error)
	StartSweeper(ctx context.Context)
}

type draftSession struct {
	mu          sync.Mutex
	id          string
	assessorID  uint
	store       *draft.Store
	creating    bool
	closed      bool
	fieldErrors FieldErrors
	lastTouched time.Time
}

type draftSessionService struct {
	mu       sync.RWMutex
	sessions map[string]*draftSession

	reference ReferenceService
	submitter SubmissionService
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	ttl       time.Duration
	logger    zerolog.Logger
}

// NewDraftSessionService constructs the session registry. Sessions idle for
// longer than ttl are reaped by the sweeper.
func NewDraftSessionService(reference ReferenceService, submitter SubmissionService, validate *validator.Validate, ttl time.Duration, logger zerolog.Logger) DraftSessionService {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &draftSessionService{
		sessions:  make(map[string]*draftSession),
		reference: reference,
		submitter: submitter,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		ttl:       ttl,
		logger:    logger.With().Str("component", "draft_session_service").Logger(),
	}
}

// Open creates a fresh session and pre-fills the advisory defaults. A failed
// defaults lookup degrades to an empty draft rather than blocking the dialog.
func (s *draftSessionService) Open(ctx context.Context, assessorID uint) (dto.DraftSessionResponse, error) {
	sess := &draftSession{
		id:          uuid.NewString(),
		assessorID:  assessorID,
		store:       draft.NewStore(),
		lastTouched: time.Now(),
	}

	defaults, err := s.reference.Defaults(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("reference defaults unavailable, opening blank draft")
	} else {
		var yearID, institutionID uint
		if defaults.ActiveAcademicYear != nil {
			yearID = defaults.ActiveAcademicYear.ID
		}
		if defaults.DefaultInstitution != nil {
			institutionID = defaults.DefaultInstitution.ID
		}
		sess.store.ApplyDefaults(yearID, institutionID)
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	observability.DraftSessions().Inc()

	s.logger.Info().Str("session_id", sess.id).Uint("assessor_id", assessorID).Msg("draft session opened")

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.snapshotLocked(sess), nil
}

func (s *draftSessionService) Get(_ context.Context, sessionID string) (dto.DraftSessionResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return dto.DraftSessionResponse{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastTouched = time.Now()
	return s.snapshotLocked(sess), nil
}

// Close tears the session down. An in-flight submission keeps running; its
// result is discarded against the closed flag when it lands.
func (s *draftSessionService) Close(_ context.Context, sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	sess.closed = true
	sess.mu.Unlock()
	observability.DraftSessions().Dec()
	s.logger.Info().Str("session_id", sessionID).Msg("draft session closed")
	return nil
}

func (s *draftSessionService) SelectType(_ context.Context, sessionID string, req dto.SelectTypeRequest) (dto.DraftSessionResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return dto.DraftSessionResponse{}, err
	}
	return s.withSession(sessionID, func(sess *draftSession) error {
		return sess.store.SetSelectedType(draft.Type(req.Type))
	})
}

func (s *draftSessionService) ApplyFields(_ context.Context, sessionID string, req dto.DraftFieldsRequest) (dto.DraftSessionResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return dto.DraftSessionResponse{}, err
	}
	return s.withSession(sessionID, func(sess *draftSession) error {
		if sess.store.SelectedType() == draft.TypeBSQ {
			return sess.store.ApplyBSQPatch(s.bsqPatch(req))
		}
		return sess.store.ApplyKSQPatch(s.ksqPatch(req))
	})
}

func (s *draftSessionService) AddCriterion(_ context.Context, sessionID string, req dto.CriterionRequest) (dto.CriterionCreatedResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return dto.CriterionCreatedResponse{}, err
	}
	sess, err := s.session(sessionID)
	if err != nil {
		return dto.CriterionCreatedResponse{}, err
	}

	criterion := draft.Criterion{MaxScore: 10}
	if req.Name != nil {
		criterion.Name = s.sanitizer.Sanitize(*req.Name)
	}
	if req.Score != nil {
		criterion.Score = *req.Score
	}
	if req.MaxScore != nil {
		criterion.MaxScore = *req.MaxScore
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastTouched = time.Now()
	id, err := sess.store.AddCriterion(criterion)
	if err != nil {
		return dto.CriterionCreatedResponse{}, err
	}
	return dto.CriterionCreatedResponse{ID: id}, nil
}

func (s *draftSessionService) UpdateCriterion(_ context.Context, sessionID string, criterionID int64, req dto.CriterionRequest) (dto.DraftSessionResponse, error) {
	if err := s.validateRequest(req); err != nil {
		return dto.DraftSessionResponse{}, err
	}
	patch := draft.CriterionPatch{Score: req.Score, MaxScore: req.MaxScore}
	if req.Name != nil {
		clean := s.sanitizer.Sanitize(*req.Name)
		patch.Name = &clean
	}
	return s.withSession(sessionID, func(sess *draftSession) error {
		return sess.store.UpdateCriterion(criterionID, patch)
	})
}

func (s *draftSessionService) RemoveCriterion(_ context.Context, sessionID string, criterionID int64) (dto.DraftSessionResponse, error) {
	return s.withSession(sessionID, func(sess *draftSession) error {
		return sess.store.RemoveCriterion(criterionID)
	})
}

func (s *draftSessionService) AddListItem(_ context.Context, sessionID string, list draft.ListName, req dto.ListItemRequest) (dto.ListItemCreatedResponse, error) {
	if !list.Valid() {
		return dto.ListItemCreatedResponse{}, draft.ErrUnknownList
	}
	sess, err := s.session(sessionID)
	if err != nil {
		return dto.ListItemCreatedResponse{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastTouched = time.Now()
	index, err := sess.store.AddListItem(list, s.sanitizer.Sanitize(req.Value))
	if err != nil {
		return dto.ListItemCreatedResponse{}, err
	}
	return dto.ListItemCreatedResponse{Index: index}, nil
}

func (s *draftSessionService) UpdateListItem(_ context.Context, sessionID string, list draft.ListName, index int, req dto.ListItemRequest) (dto.DraftSessionResponse, error) {
	if !list.Valid() {
		return dto.DraftSessionResponse{}, draft.ErrUnknownList
	}
	return s.withSession(sessionID, func(sess *draftSession) error {
		return sess.store.UpdateListItem(list, index, s.sanitizer.Sanitize(req.Value))
	})
}

func (s *draftSessionService) RemoveListItem(_ context.Context, sessionID string, list draft.ListName, index int) (dto.DraftSessionResponse, error) {
	if !list.Valid() {
		return dto.DraftSessionResponse{}, draft.ErrUnknownList
	}
	return s.withSession(sessionID, func(sess *draftSession) error {
		return sess.store.RemoveListItem(list, index)
	})
}

// Submit snapshots the active draft and hands it to the submission service
// outside the session lock, so a slow create never blocks other edits. The
// creating flag makes a second submit fail fast instead of double-creating;
// only a successful create resets the submitted slot.
func (s *draftSessionService) Submit(ctx context.Context, sessionID string) (dto.AssessmentCreatedResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return dto.AssessmentCreatedResponse{}, err
	}

	sess.mu.Lock()
	if sess.creating {
		sess.mu.Unlock()
		return dto.AssessmentCreatedResponse{}, ErrSubmissionInFlight
	}
	sess.creating = true
	sess.fieldErrors = nil
	sess.lastTouched = time.Now()
	submitted := sess.store.SelectedType()

	var ksqSnapshot KSQSubmission
	var bsqSnapshot BSQSubmission
	if submitted == draft.TypeBSQ {
		bsqSnapshot = BSQSubmission{Draft: sess.store.BSQ(), AssessorID: sess.assessorID}
	} else {
		ksqSnapshot = KSQSubmission{
			Draft:           sess.store.KSQ(),
			Criteria:        sess.store.CriteriaValues(),
			Strengths:       sess.store.ListItems(draft.ListStrengths),
			Improvements:    sess.store.ListItems(draft.ListImprovements),
			Recommendations: sess.store.ListItems(draft.ListRecommendations),
			AssessorID:      sess.assessorID,
		}
	}
	sess.mu.Unlock()

	var created dto.AssessmentCreatedResponse
	var submitErr error
	if submitted == draft.TypeBSQ {
		created, submitErr = s.submitter.SubmitBSQ(ctx, bsqSnapshot)
	} else {
		created, submitErr = s.submitter.SubmitKSQ(ctx, ksqSnapshot)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.creating = false

	if submitErr != nil {
		if fields, ok := AsFieldErrors(submitErr); ok {
			sess.fieldErrors = fields
		}
		return dto.AssessmentCreatedResponse{}, submitErr
	}
	if sess.closed {
		// The result is persisted but the dialog is gone; leave the store alone.
		return created, nil
	}
	sess.store.ResetType(submitted)
	return created, nil
}

// StartSweeper reaps idle sessions in the background until ctx is cancelled.
func (s *draftSessionService) StartSweeper(ctx context.Context) {
	interval := s.ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(time.Now())
			}
		}
	}()
}

func (s *draftSessionService) sweep(now time.Time) {
	s.mu.Lock()
	var expired []*draftSession
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := now.Sub(sess.lastTouched) > s.ttl && !sess.creating
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			expired = append(expired, sess)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.mu.Lock()
		sess.closed = true
		sess.mu.Unlock()
		observability.DraftSessions().Dec()
		s.logger.Info().Str("session_id", sess.id).Msg("idle draft session reaped")
	}
}

func (s *draftSessionService) session(sessionID string) (*draftSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// withSession runs fn under the session lock and returns the refreshed snapshot.
func (s *draftSessionService) withSession(sessionID string, fn func(sess *draftSession) error) (dto.DraftSessionResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return dto.DraftSessionResponse{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.lastTouched = time.Now()
	if err := fn(sess); err != nil {
		return dto.DraftSessionResponse{}, err
	}
	return s.snapshotLocked(sess), nil
}

func (s *draftSessionService) snapshotLocked(sess *draftSession) dto.DraftSessionResponse {
	store := sess.store
	return dto.DraftSessionResponse{
		SessionID:         sess.id,
		SelectedType:      string(store.SelectedType()),
		Creating:          sess.creating,
		OverallPercentage: store.OverallPercentage(),
		Criteria:          store.Criteria(),
		Strengths:         store.ListItems(draft.ListStrengths),
		Improvements:      store.ListItems(draft.ListImprovements),
		Recommendations:   store.ListItems(draft.ListRecommendations),
		KSQ:               dto.NewKSQDraftView(store.KSQ()),
		BSQ:               dto.NewBSQDraftView(store.BSQ()),
		FieldErrors:       sess.fieldErrors,
	}
}

func (s *draftSessionService) validateRequest(req interface{}) error {
	if err := s.validator.Struct(req); err != nil {
		if fields, ok := fieldErrorsFrom(err); ok {
			return fields
		}
		return err
	}
	return nil
}

func (s *draftSessionService) ksqPatch(req dto.DraftFieldsRequest) draft.KSQPatch {
	patch := draft.KSQPatch{
		AcademicYearID:       req.AcademicYearID,
		InstitutionID:        req.InstitutionID,
		AssessmentDate:       req.AssessmentDate,
		AssessmentType:       req.AssessmentType,
		TotalScore:           req.TotalScore,
		MaxPossibleScore:     req.MaxPossibleScore,
		GradeLevel:           req.GradeLevel,
		SubjectID:            req.SubjectID,
		FollowUpRequired:     req.FollowUpRequired,
		FollowUpDate:         req.FollowUpDate,
		PreviousAssessmentID: req.PreviousAssessmentID,
	}
	if req.Notes != nil {
		clean := s.sanitizer.Sanitize(*req.Notes)
		patch.Notes = &clean
	}
	return patch
}

func (s *draftSessionService) bsqPatch(req dto.DraftFieldsRequest) draft.BSQPatch {
	patch := draft.BSQPatch{
		AcademicYearID:        req.AcademicYearID,
		InstitutionID:         req.InstitutionID,
		AssessmentDate:        req.AssessmentDate,
		InternationalStandard: req.InternationalStandard,
		AssessmentBody:        req.AssessmentBody,
		TotalScore:            req.TotalScore,
		MaxPossibleScore:      req.MaxPossibleScore,
		InternationalRanking:  req.InternationalRanking,
		NationalRanking:       req.NationalRanking,
		RegionalRanking:       req.RegionalRanking,
		CompetencyAreas:       req.CompetencyAreas,
		CertificationValidTo:  req.CertificationValidTo,
		ExternalReportURL:     req.ExternalReportURL,
		ComplianceScore:       req.ComplianceScore,
		AccreditationStatus:   req.AccreditationStatus,
	}
	if req.CertificationLevel != nil {
		clean := s.sanitizer.Sanitize(*req.CertificationLevel)
		patch.CertificationLevel = &clean
	}
	if req.ImprovementPlan != nil {
		patch.ImprovementPlan = s.sanitizeAll(req.ImprovementPlan)
	}
	if req.ActionItems != nil {
		patch.ActionItems = s.sanitizeAll(req.ActionItems)
	}
	return patch
}

func (s *draftSessionService) sanitizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, s.sanitizer.Sanitize(value))
	}
	return out
}
