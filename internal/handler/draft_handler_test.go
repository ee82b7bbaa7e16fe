package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/atis-edu/assessment-api/internal/dto"
	"github.com/atis-edu/assessment-api/internal/handler"
	"github.com/atis-edu/assessment-api/internal/models"
	"github.com/atis-edu/assessment-api/internal/service"
	"github.com/atis-edu/assessment-api/internal/utils"
)

type assessmentRepoStub struct {
	ksqSaved []models.KSQResult
	bsqSaved []models.BSQResult
}

func (s *assessmentRepoStub) CreateKSQ(_ context.Context, result *models.KSQResult) error {
	result.ID = uint(len(s.ksqSaved) + 1)
	s.ksqSaved = append(s.ksqSaved, *result)
	return nil
}

func (s *assessmentRepoStub) CreateBSQ(_ context.Context, result *models.BSQResult) error {
	result.ID = uint(len(s.bsqSaved) + 1)
	s.bsqSaved = append(s.bsqSaved, *result)
	return nil
}

func (s *assessmentRepoStub) KSQExists(context.Context, uint, uint, string, string) (bool, error) {
	return false, nil
}

func (s *assessmentRepoStub) BSQExists(context.Context, uint, uint, string, string) (bool, error) {
	return false, nil
}

type referenceServiceStub struct {
	defaults dto.ReferenceDefaults
}

func (r *referenceServiceStub) AcademicYears(context.Context) ([]dto.AcademicYearResponse, error) {
	return nil, nil
}

func (r *referenceServiceStub) Institutions(context.Context) ([]dto.InstitutionResponse, error) {
	return nil, nil
}

func (r *referenceServiceStub) Defaults(context.Context) (dto.ReferenceDefaults, error) {
	return r.defaults, nil
}

func newDraftApp(repo *assessmentRepoStub) *fiber.App {
	logger := zerolog.New(io.Discard)
	validate := utils.NewValidator()
	reference := &referenceServiceStub{defaults: dto.ReferenceDefaults{
		ActiveAcademicYear: &dto.AcademicYearResponse{ID: 3, Name: "2024-2025", IsActive: true},
		DefaultInstitution: &dto.InstitutionResponse{ID: 7, Name: "School 45"},
	}}
	submitter := service.NewSubmissionService(repo, validate, nil, "", logger)
	sessions := service.NewDraftSessionService(reference, submitter, validate, time.Hour, logger)

	app := fiber.New()
	group := app.Group("/api/v2/assessment-drafts", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(42))
		return c.Next()
	})
	handler.NewDraftHandler(sessions, logger).Register(group)
	return app
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target))
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

type sessionEnvelope struct {
	Success bool                     `json:"success"`
	Data    dto.DraftSessionResponse `json:"data"`
	Message string                   `json:"message"`
	Errors  map[string]string        `json:"errors"`
}

func openSession(t *testing.T, app *fiber.App) dto.DraftSessionResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/v2/assessment-drafts/sessions", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var envelope sessionEnvelope
	decodeResponse(t, resp, &envelope)
	require.True(t, envelope.Success)
	require.NotEmpty(t, envelope.Data.SessionID)
	return envelope.Data
}

func TestDraftHandler_OpenAppliesDefaults(t *testing.T) {
	app := newDraftApp(&assessmentRepoStub{})

	state := openSession(t, app)
	require.Equal(t, "ksq", state.SelectedType)
	require.Equal(t, uint(3), state.KSQ.AcademicYearID)
	require.Equal(t, uint(7), state.KSQ.InstitutionID)
}

func TestDraftHandler_GetUnknownSession(t *testing.T) {
	app := newDraftApp(&assessmentRepoStub{})

	resp := doJSON(t, app, http.MethodGet, "/api/v2/assessment-drafts/sessions/missing", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDraftHandler_CriterionLifecycle(t *testing.T) {
	app := newDraftApp(&assessmentRepoStub{})
	state := openSession(t, app)
	base := "/api/v2/assessment-drafts/sessions/" + state.SessionID

	resp := doJSON(t, app, http.MethodPost, base+"/criteria", map[string]interface{}{
		"name": "Teaching quality", "score": 8, "max_score": 10,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var created struct {
		Data dto.CriterionCreatedResponse `json:"data"`
	}
	decodeResponse(t, resp, &created)
	require.NotZero(t, created.Data.ID)

	resp = doJSON(t, app, http.MethodPost, base+"/criteria", map[string]interface{}{
		"name": "Management", "score": 6, "max_score": 10,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, base, nil)
	var envelope sessionEnvelope
	decodeResponse(t, resp, &envelope)
	require.Len(t, envelope.Data.Criteria, 2)
	require.Equal(t, 70, envelope.Data.OverallPercentage)

	resp = doJSON(t, app, http.MethodDelete, base+"/criteria/1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decodeResponse(t, resp, &envelope)
	require.Len(t, envelope.Data.Criteria, 1)
	require.Equal(t, "Management", envelope.Data.Criteria[0].Name)
}

func TestDraftHandler_CriteriaConflictWhileBSQ(t *testing.T) {
	app := newDraftApp(&assessmentRepoStub{})
	state := openSession(t, app)
	base := "/api/v2/assessment-drafts/sessions/" + state.SessionID

	resp := doJSON(t, app, http.MethodPut, base+"/type", dto.SelectTypeRequest{Type: "bsq"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, base+"/criteria", map[string]interface{}{"name": "x"})
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestDraftHandler_ListItems(t *testing.T) {
	app := newDraftApp(&assessmentRepoStub{})
	state := openSession(t, app)
	base := "/api/v2/assessment-drafts/sessions/" + state.SessionID

	resp := doJSON(t, app, http.MethodPost, base+"/lists/strengths/items", dto.ListItemRequest{Value: "strong staff"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPatch, base+"/lists/strengths/items/0", dto.ListItemRequest{Value: "experienced staff"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var envelope sessionEnvelope
	decodeResponse(t, resp, &envelope)
	require.Equal(t, []string{"experienced staff"}, envelope.Data.Strengths)

	resp = doJSON(t, app, http.MethodPost, base+"/lists/unknown/items", dto.ListItemRequest{Value: "x"})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDraftHandler_SubmitValidationFailure(t *testing.T) {
	repo := &assessmentRepoStub{}
	app := newDraftApp(repo)
	state := openSession(t, app)
	base := "/api/v2/assessment-drafts/sessions/" + state.SessionID

	resp := doJSON(t, app, http.MethodPost, base+"/submit", nil)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var envelope sessionEnvelope
	decodeResponse(t, resp, &envelope)
	require.False(t, envelope.Success)
	require.Contains(t, envelope.Errors, "assessment_date")
	require.Empty(t, repo.ksqSaved)
}

func TestDraftHandler_SubmitSuccess(t *testing.T) {
	repo := &assessmentRepoStub{}
	app := newDraftApp(repo)
	state := openSession(t, app)
	base := "/api/v2/assessment-drafts/sessions/" + state.SessionID

	resp := doJSON(t, app, http.MethodPatch, base+"/fields", map[string]interface{}{
		"assessment_date": "2025-05-10",
		"assessment_type": "annual quality review",
		"total_score":     70,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, base+"/submit", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var envelope struct {
		Data dto.AssessmentCreatedResponse `json:"data"`
	}
	decodeResponse(t, resp, &envelope)
	require.Equal(t, "ksq", envelope.Data.Type)
	require.Len(t, repo.ksqSaved, 1)
	require.Equal(t, uint(42), repo.ksqSaved[0].AssessorID)
}

func TestDraftHandler_CloseSession(t *testing.T) {
	app := newDraftApp(&assessmentRepoStub{})
	state := openSession(t, app)
	base := "/api/v2/assessment-drafts/sessions/" + state.SessionID

	resp := doJSON(t, app, http.MethodDelete, base, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, base, nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
