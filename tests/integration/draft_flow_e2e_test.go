package integration_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atis-edu/assessment-api/internal/dto"
	"github.com/atis-edu/assessment-api/internal/handler"
	"github.com/atis-edu/assessment-api/internal/models"
	"github.com/atis-edu/assessment-api/internal/repository"
	"github.com/atis-edu/assessment-api/internal/service"
	"github.com/atis-edu/assessment-api/internal/utils"
)

func setupDraftApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AcademicYear{}, &models.Institution{}, &models.KSQResult{}, &models.BSQResult{}))

	// The shared-cache database survives across tests in this package, so only
	// the first setup call seeds the reference rows.
	var seeded int64
	require.NoError(t, db.Model(&models.Institution{}).Count(&seeded).Error)
	if seeded == 0 {
		require.NoError(t, db.Create(&models.AcademicYear{Name: "2024-2025", StartDate: "2024-09-15", EndDate: "2025-06-14", IsActive: true}).Error)
		require.NoError(t, db.Create(&models.Institution{Name: "School 45", UTISCode: "AZ045", IsActive: true}).Error)
	}

	logger := zerolog.Nop()
	validate := utils.NewValidator()

	referenceService := service.NewReferenceService(repository.NewReferenceRepository(db), nil, time.Minute, logger)
	submissionService := service.NewSubmissionService(repository.NewAssessmentRepository(db), validate, nil, "", logger)
	sessionService := service.NewDraftSessionService(referenceService, submissionService, validate, time.Hour, logger)

	app := fiber.New()
	group := app.Group("/api/v2/assessment-drafts", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(11))
		return c.Next()
	})
	handler.NewDraftHandler(sessionService, logger).Register(group)
	return app, db
}

func request(t *testing.T, app *fiber.App, method, path string, payload interface{}) (*http.Response, []byte) {
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
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

func TestDraftToSubmissionFlow(t *testing.T) {
	app, db := setupDraftApp(t)

	resp, body := request(t, app, http.MethodPost, "/api/v2/assessment-drafts/sessions", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var opened struct {
		Data dto.DraftSessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &opened))
	require.Equal(t, uint(1), opened.Data.KSQ.AcademicYearID, "active year pre-filled from reference data")
	require.Equal(t, uint(1), opened.Data.KSQ.InstitutionID, "single institution pre-filled")
	base := "/api/v2/assessment-drafts/sessions/" + opened.Data.SessionID

	resp, _ = request(t, app, http.MethodPatch, base+"/fields", map[string]interface{}{
		"assessment_date":    "2025-05-10",
		"assessment_type":    "annual quality review",
		"total_score":        7,
		"max_possible_score": 9,
		"notes":              "solid overall",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = request(t, app, http.MethodPost, base+"/criteria", map[string]interface{}{
		"name": "Teaching quality", "score": 8, "max_score": 10,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = request(t, app, http.MethodPost, base+"/lists/strengths/items", map[string]interface{}{
		"value": "strong leadership",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body = request(t, app, http.MethodPost, base+"/submit", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Data dto.AssessmentCreatedResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	require.Equal(t, "ksq", created.Data.Type)
	require.Equal(t, "draft", created.Data.Status)
	require.InDelta(t, 77.78, created.Data.PercentageScore, 0.001)

	var stored models.KSQResult
	require.NoError(t, db.First(&stored, created.Data.ID).Error)
	require.Equal(t, uint(11), stored.AssessorID)
	require.Contains(t, stored.CriteriaScores, "Teaching quality")

	// The submitted slot resets, so an identical refill trips the duplicate guard.
	resp, _ = request(t, app, http.MethodPatch, base+"/fields", map[string]interface{}{
		"academic_year_id":   1,
		"institution_id":     1,
		"assessment_date":    "2025-05-10",
		"assessment_type":    "annual quality review",
		"total_score":        7,
		"max_possible_score": 9,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = request(t, app, http.MethodPost, base+"/submit", nil)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var failed struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(body, &failed))
	require.Contains(t, failed.Errors, "assessment_date")

	var count int64
	require.NoError(t, db.Model(&models.KSQResult{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestBSQFlow(t *testing.T) {
	app, db := setupDraftApp(t)

	resp, body := request(t, app, http.MethodPost, "/api/v2/assessment-drafts/sessions", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var opened struct {
		Data dto.DraftSessionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &opened))
	base := "/api/v2/assessment-drafts/sessions/" + opened.Data.SessionID

	resp, _ = request(t, app, http.MethodPut, base+"/type", map[string]interface{}{"type": "bsq"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = request(t, app, http.MethodPatch, base+"/fields", map[string]interface{}{
		"academic_year_id":       1,
		"institution_id":         1,
		"assessment_date":        "2025-06-01",
		"international_standard": "ISO 21001",
		"assessment_body":        "Cambridge International",
		"total_score":            88,
		"competency_areas":       map[string]float64{"STEM": 82.5},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, body = request(t, app, http.MethodPost, base+"/submit", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Data dto.AssessmentCreatedResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	require.Equal(t, "bsq", created.Data.Type)

	var stored models.BSQResult
	require.NoError(t, db.First(&stored, created.Data.ID).Error)
	require.Equal(t, "not_applicable", stored.AccreditationStatus)
	require.InDelta(t, 88.0, stored.PercentageScore, 0.001)
}
