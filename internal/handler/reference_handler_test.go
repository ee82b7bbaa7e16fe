package handler_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/atis-edu/assessment-api/internal/dto"
	"github.com/atis-edu/assessment-api/internal/handler"
	"github.com/atis-edu/assessment-api/internal/service"
)

type failingReferenceService struct{}

func (failingReferenceService) AcademicYears(context.Context) ([]dto.AcademicYearResponse, error) {
	return nil, errors.New("db down")
}

func (failingReferenceService) Institutions(context.Context) ([]dto.InstitutionResponse, error) {
	return nil, errors.New("db down")
}

func (failingReferenceService) Defaults(context.Context) (dto.ReferenceDefaults, error) {
	return dto.ReferenceDefaults{}, errors.New("db down")
}

func newReferenceApp(svc service.ReferenceService) *fiber.App {
	app := fiber.New()
	logger := zerolog.New(io.Discard)
	handler.NewReferenceHandler(svc, logger).Register(app.Group("/api/v2/reference"))
	return app
}

func TestReferenceHandler_AcademicYears(t *testing.T) {
	app := newReferenceApp(&referenceServiceStub{})

	resp := doJSON(t, app, http.MethodGet, "/api/v2/reference/academic-years", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool                       `json:"success"`
		Data    []dto.AcademicYearResponse `json:"data"`
	}
	decodeResponse(t, resp, &envelope)
	require.True(t, envelope.Success)
}

func TestReferenceHandler_Defaults(t *testing.T) {
	app := newReferenceApp(&referenceServiceStub{defaults: dto.ReferenceDefaults{
		ActiveAcademicYear: &dto.AcademicYearResponse{ID: 3, Name: "2024-2025", IsActive: true},
	}})

	resp := doJSON(t, app, http.MethodGet, "/api/v2/reference/defaults", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Data dto.ReferenceDefaults `json:"data"`
	}
	decodeResponse(t, resp, &envelope)
	require.NotNil(t, envelope.Data.ActiveAcademicYear)
	require.Equal(t, uint(3), envelope.Data.ActiveAcademicYear.ID)
}

func TestReferenceHandler_FailureReturns500(t *testing.T) {
	app := newReferenceApp(failingReferenceService{})

	resp := doJSON(t, app, http.MethodGet, "/api/v2/reference/institutions", nil)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
