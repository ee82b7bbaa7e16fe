package service

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/atis-edu/assessment-api/internal/draft"
	"github.com/atis-edu/assessment-api/internal/dto"
	"github.com/atis-edu/assessment-api/internal/models"
	"github.com/atis-edu/assessment-api/internal/observability"
	"github.com/atis-edu/assessment-api/internal/repository"
)

// KSQSubmission is a read-only snapshot of a KSQ draft taken at submit time.
type KSQSubmission struct {
	Draft           draft.KSQDraft
	Criteria        []draft.Criterion
	Strengths       []string
	Improvements    []string
	Recommendations []string
	AssessorID      uint
}

// BSQSubmission is a read-only snapshot of a BSQ draft taken at submit time.
type BSQSubmission struct {
	Draft      draft.BSQDraft
	AssessorID uint
}

// SubmissionService validates a draft snapshot, maps it to the create payload
// and performs the single-attempt create. It holds no per-session state; the
// in-flight guard belongs to the session that owns the draft.
type SubmissionService interface {
	SubmitKSQ(ctx context.Context, submission KSQSubmission) (dto.AssessmentCreatedResponse, error)
	SubmitBSQ(ctx context.Context, submission BSQSubmission) (dto.AssessmentCreatedResponse, error)
}

type submissionService struct {
	repo           repository.AssessmentRepository
	validator      *validator.Validate
	nats           *nats.Conn
	createdSubject string
	logger         zerolog.Logger
	tracer         trace.Tracer
}

// NewSubmissionService constructs the submission service. The NATS connection
// is optional; when nil the created event is skipped.
func NewSubmissionService(repo repository.AssessmentRepository, validate *validator.Validate, natsConn *nats.Conn, createdSubject string, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		repo:           repo,
		validator:      validate,
		nats:           natsConn,
		createdSubject: createdSubject,
		logger:         logger.With().Str("component", "submission_service").Logger(),
		tracer:         otel.Tracer("github.com/atis-edu/assessment-api/internal/service/submission"),
	}
}

func (s *submissionService) SubmitKSQ(ctx context.Context, submission KSQSubmission) (dto.AssessmentCreatedResponse, error) {
	start := time.Now()
	defer func() {
		observability.SubmissionLatency().WithLabelValues("ksq").Observe(time.Since(start).Seconds())
	}()

	ctx, span := s.tracer.Start(ctx, "assessment.submit_ksq")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("assessment.institution_id", int64(submission.Draft.InstitutionID)),
		attribute.Int64("assessment.academic_year_id", int64(submission.Draft.AcademicYearID)),
	)

	payload := buildKSQPayload(submission)
	if err := s.validator.Struct(payload); err != nil {
		fields, ok := fieldErrorsFrom(err)
		if !ok {
			span.RecordError(err)
			observability.Submissions().WithLabelValues("ksq", "error").Inc()
			return dto.AssessmentCreatedResponse{}, err
		}
		span.SetStatus(codes.Error, "validation failed")
		observability.Submissions().WithLabelValues("ksq", "validation_failed").Inc()
		return dto.AssessmentCreatedResponse{}, fields
	}

	exists, err := s.repo.KSQExists(ctx, payload.InstitutionID, payload.AcademicYearID, payload.AssessmentDate, payload.AssessmentType)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "duplicate probe failed")
		observability.Submissions().WithLabelValues("ksq", "error").Inc()
		return dto.AssessmentCreatedResponse{}, err
	}
	if exists {
		span.SetStatus(codes.Error, "duplicate assessment")
		observability.Submissions().WithLabelValues("ksq", "duplicate").Inc()
		return dto.AssessmentCreatedResponse{}, FieldErrors{
			"assessment_date": "an assessment of this type already exists for this institution, academic year and date",
		}
	}

	result := models.KSQResult{
		InstitutionID:        payload.InstitutionID,
		AcademicYearID:       payload.AcademicYearID,
		AssessmentDate:       payload.AssessmentDate,
		AssessmentType:       payload.AssessmentType,
		AssessorID:           submission.AssessorID,
		TotalScore:           payload.TotalScore,
		MaxPossibleScore:     payload.MaxPossibleScore,
		PercentageScore:      payload.PercentageScore,
		GradeLevel:           payload.GradeLevel,
		SubjectID:            payload.SubjectID,
		CriteriaScores:       jsonFloatMap(payload.CriteriaScores),
		Strengths:            jsonStrings(payload.Strengths),
		ImprovementAreas:     jsonStrings(payload.ImprovementAreas),
		Recommendations:      jsonStrings(payload.Recommendations),
		Status:               models.AssessmentStatusDraft,
		Notes:                payload.Notes,
		FollowUpRequired:     payload.FollowUpRequired,
		FollowUpDate:         optionalString(payload.FollowUpDate),
		PreviousAssessmentID: payload.PreviousAssessmentID,
	}

	if err := s.repo.CreateKSQ(ctx, &result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		observability.Submissions().WithLabelValues("ksq", "error").Inc()
		return dto.AssessmentCreatedResponse{}, err
	}

	response := dto.NewKSQCreatedResponse(result)
	s.publishCreated(response)

	observability.Submissions().WithLabelValues("ksq", "success").Inc()
	s.logger.Info().
		Uint("assessment_id", result.ID).
		Uint("institution_id", result.InstitutionID).
		Float64("percentage_score", result.PercentageScore).
		Msg("ksq assessment created")
	span.SetStatus(codes.Ok, "created")

	return response, nil
}

func (s *submissionService) SubmitBSQ(ctx context.Context, submission BSQSubmission) (dto.AssessmentCreatedResponse, error) {
	start := time.Now()
	defer func() {
		observability.SubmissionLatency().WithLabelValues("bsq").Observe(time.Since(start).Seconds())
	}()

	ctx, span := s.tracer.Start(ctx, "assessment.submit_bsq")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("assessment.institution_id", int64(submission.Draft.InstitutionID)),
		attribute.Int64("assessment.academic_year_id", int64(submission.Draft.AcademicYearID)),
	)

	payload := buildBSQPayload(submission)
	if err := s.validator.Struct(payload); err != nil {
		fields, ok := fieldErrorsFrom(err)
		if !ok {
			span.RecordError(err)
			observability.Submissions().WithLabelValues("bsq", "error").Inc()
			return dto.AssessmentCreatedResponse{}, err
		}
		span.SetStatus(codes.Error, "validation failed")
		observability.Submissions().WithLabelValues("bsq", "validation_failed").Inc()
		return dto.AssessmentCreatedResponse{}, fields
	}

	exists, err := s.repo.BSQExists(ctx, payload.InstitutionID, payload.AcademicYearID, payload.AssessmentDate, payload.InternationalStandard)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "duplicate probe failed")
		observability.Submissions().WithLabelValues("bsq", "error").Inc()
		return dto.AssessmentCreatedResponse{}, err
	}
	if exists {
		span.SetStatus(codes.Error, "duplicate assessment")
		observability.Submissions().WithLabelValues("bsq", "duplicate").Inc()
		return dto.AssessmentCreatedResponse{}, FieldErrors{
			"assessment_date": "an assessment against this standard already exists for this institution, academic year and date",
		}
	}

	result := models.BSQResult{
		InstitutionID:         payload.InstitutionID,
		AcademicYearID:        payload.AcademicYearID,
		AssessmentDate:        payload.AssessmentDate,
		InternationalStandard: payload.InternationalStandard,
		AssessmentBody:        payload.AssessmentBody,
		AssessorID:            submission.AssessorID,
		TotalScore:            payload.TotalScore,
		MaxPossibleScore:      payload.MaxPossibleScore,
		PercentageScore:       payload.PercentageScore,
		InternationalRanking:  payload.InternationalRanking,
		NationalRanking:       payload.NationalRanking,
		RegionalRanking:       payload.RegionalRanking,
		CompetencyAreas:       jsonFloatMap(payload.CompetencyAreas),
		CertificationLevel:    payload.CertificationLevel,
		CertificationValidTo:  optionalString(payload.CertificationValidTo),
		ImprovementPlan:       jsonStrings(payload.ImprovementPlan),
		ActionItems:           jsonStrings(payload.ActionItems),
		Status:                models.AssessmentStatusDraft,
		ExternalReportURL:     payload.ExternalReportURL,
		ComplianceScore:       payload.ComplianceScore,
		AccreditationStatus:   payload.AccreditationStatus,
	}

	if err := s.repo.CreateBSQ(ctx, &result); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		observability.Submissions().WithLabelValues("bsq", "error").Inc()
		return dto.AssessmentCreatedResponse{}, err
	}

	response := dto.NewBSQCreatedResponse(result)
	s.publishCreated(response)

	observability.Submissions().WithLabelValues("bsq", "success").Inc()
	s.logger.Info().
		Uint("assessment_id", result.ID).
		Uint("institution_id", result.InstitutionID).
		Float64("percentage_score", result.PercentageScore).
		Msg("bsq assessment created")
	span.SetStatus(codes.Ok, "created")

	return response, nil
}

func (s *submissionService) publishCreated(created dto.AssessmentCreatedResponse) {
	if s.nats == nil || s.createdSubject == "" {
		return
	}
	payload, err := json.Marshal(created)
	if err != nil {
		return
	}
	if err := s.nats.Publish(s.createdSubject, payload); err != nil {
		s.logger.Warn().Err(err).Str("subject", s.createdSubject).Msg("created event publish failed")
	}
}

// buildKSQPayload flattens the snapshot into the create payload. Criterion
// rows with blank names and blank text entries are dropped, matching what the
// dialog strips before saving.
func buildKSQPayload(submission KSQSubmission) dto.CreateKSQPayload {
	d := submission.Draft
	scores := make(map[string]float64, len(submission.Criteria))
	for _, criterion := range submission.Criteria {
		name := strings.TrimSpace(criterion.Name)
		if name == "" {
			continue
		}
		scores[name] = criterion.Score
	}
	return dto.CreateKSQPayload{
		InstitutionID:        d.InstitutionID,
		AcademicYearID:       d.AcademicYearID,
		AssessmentDate:       strings.TrimSpace(d.AssessmentDate),
		AssessmentType:       strings.TrimSpace(d.AssessmentType),
		TotalScore:           d.TotalScore,
		MaxPossibleScore:     d.MaxPossibleScore,
		PercentageScore:      percentageScore(d.TotalScore, d.MaxPossibleScore),
		GradeLevel:           strings.TrimSpace(d.GradeLevel),
		SubjectID:            d.SubjectID,
		CriteriaScores:       scores,
		Strengths:            trimmedStrings(submission.Strengths),
		ImprovementAreas:     trimmedStrings(submission.Improvements),
		Recommendations:      trimmedStrings(submission.Recommendations),
		Notes:                strings.TrimSpace(d.Notes),
		FollowUpRequired:     d.FollowUpRequired,
		FollowUpDate:         strings.TrimSpace(d.FollowUpDate),
		PreviousAssessmentID: d.PreviousAssessmentID,
	}
}

func buildBSQPayload(submission BSQSubmission) dto.CreateBSQPayload {
	d := submission.Draft
	accreditation := strings.TrimSpace(d.AccreditationStatus)
	if accreditation == "" {
		accreditation = "not_applicable"
	}
	areas := make(map[string]float64, len(d.CompetencyAreas))
	for name, score := range d.CompetencyAreas {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		areas[trimmed] = score
	}
	return dto.CreateBSQPayload{
		InstitutionID:         d.InstitutionID,
		AcademicYearID:        d.AcademicYearID,
		AssessmentDate:        strings.TrimSpace(d.AssessmentDate),
		InternationalStandard: strings.TrimSpace(d.InternationalStandard),
		AssessmentBody:        strings.TrimSpace(d.AssessmentBody),
		TotalScore:            d.TotalScore,
		MaxPossibleScore:      d.MaxPossibleScore,
		PercentageScore:       percentageScore(d.TotalScore, d.MaxPossibleScore),
		InternationalRanking:  d.InternationalRanking,
		NationalRanking:       d.NationalRanking,
		RegionalRanking:       d.RegionalRanking,
		CompetencyAreas:       areas,
		CertificationLevel:    strings.TrimSpace(d.CertificationLevel),
		CertificationValidTo:  strings.TrimSpace(d.CertificationValidTo),
		ImprovementPlan:       trimmedStrings(d.ImprovementPlan),
		ActionItems:           trimmedStrings(d.ActionItems),
		ExternalReportURL:     strings.TrimSpace(d.ExternalReportURL),
		ComplianceScore:       d.ComplianceScore,
		AccreditationStatus:   accreditation,
	}
}

// percentageScore rounds to two decimals, so 7 of 9 stores 77.78.
func percentageScore(total, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return math.Round(total/max*100*100) / 100
}

func trimmedStrings(values []string) []string {
	kept := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		kept = append(kept, trimmed)
	}
	return kept
}

func jsonFloatMap(values map[string]float64) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for name, score := range values {
		out[name] = score
	}
	return out
}

func jsonStrings(values []string) datatypes.JSON {
	payload, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(payload)
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
