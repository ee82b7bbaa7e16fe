package contract_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/atis-edu/assessment-api/internal/dto"
	"github.com/atis-edu/assessment-api/internal/handler"
	"github.com/atis-edu/assessment-api/internal/models"
	"github.com/atis-edu/assessment-api/internal/service"
	"github.com/atis-edu/assessment-api/internal/utils"
)

type stubAssessmentRepo struct{}

func (stubAssessmentRepo) CreateKSQ(_ context.Context, result *models.KSQResult) error {
	result.ID = 1
	return nil
}

func (stubAssessmentRepo) CreateBSQ(_ context.Context, result *models.BSQResult) error {
	result.ID = 1
	return nil
}

func (stubAssessmentRepo) KSQExists(context.Context, uint, uint, string, string) (bool, error) {
	return false, nil
}

func (stubAssessmentRepo) BSQExists(context.Context, uint, uint, string, string) (bool, error) {
	return false, nil
}

type stubReferenceService struct{}

func (stubReferenceService) AcademicYears(context.Context) ([]dto.AcademicYearResponse, error) {
	return nil, nil
}

func (stubReferenceService) Institutions(context.Context) ([]dto.InstitutionResponse, error) {
	return nil, nil
}

func (stubReferenceService) Defaults(context.Context) (dto.ReferenceDefaults, error) {
	return dto.ReferenceDefaults{
		ActiveAcademicYear: &dto.AcademicYearResponse{ID: 3, Name: "2024-2025", IsActive: true},
		DefaultInstitution: &dto.InstitutionResponse{ID: 7, Name: "School 45"},
	}, nil
}

func TestDraftSessionContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "draft_session.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	validate := utils.NewValidator()
	submitter := service.NewSubmissionService(stubAssessmentRepo{}, validate, nil, "", zerolog.Nop())
	sessions := service.NewDraftSessionService(stubReferenceService{}, submitter, validate, time.Hour, zerolog.Nop())

	app := fiber.New()
	handler.NewDraftHandler(sessions, zerolog.Nop()).Register(app.Group("/api/v2/assessment-drafts"))

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v2/assessment-drafts/sessions", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var opened struct {
		Data dto.DraftSessionResponse `json:"data"`
	}
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &opened))
	base := "/api/v2/assessment-drafts/sessions/" + opened.Data.SessionID

	criterion, err := json.Marshal(map[string]interface{}{"name": "Teaching quality", "score": 8, "max_score": 10})
	require.NoError(t, err)
	addReq := httptest.NewRequest(http.MethodPost, base+"/criteria", bytes.NewReader(criterion))
	addReq.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(addReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, base, nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
