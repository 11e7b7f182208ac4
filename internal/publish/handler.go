package publish

import (
	"fmt"
	"net/http"
	"time"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"survey-studio/backend/internal/instance"
)

type PublishRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Slug        string     `json:"slug"        validate:"required,slug"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

type PublishResponse struct {
	Instance instance.Instance `json:"instance"`
	URL      string            `json:"url"`
}

type Handler struct {
	logger        *zap.Logger
	tracer        trace.Tracer
	validator     *validator.Validate
	problemWriter *problem.HttpWriter

	baseURL string
	service *Service
}

func NewHandler(
	logger *zap.Logger,
	validator *validator.Validate,
	problemWriter *problem.HttpWriter,
	service *Service,
	baseURL string,
) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("publish/handler"),
		validator:     validator,
		problemWriter: problemWriter,
		baseURL:       baseURL,
		service:       service,
	}
}

func (h *Handler) PublishSurvey(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "PublishSurvey")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	configID, err := handlerutil.ParseUUID(r.PathValue("surveyId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req PublishRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	inst, err := h.service.PublishSurvey(traceCtx, configID, Request{
		Title:       req.Title,
		Description: req.Description,
		Slug:        req.Slug,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, PublishResponse{
		Instance: inst,
		URL:      fmt.Sprintf("%s/s/%s", h.baseURL, inst.Slug),
	})
}
