package response

import (
	"context"
	"encoding/json"
	"net/http"

	"survey-studio/backend/internal/metrics"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type SubmitBody struct {
	SessionID *uuid.UUID                 `json:"sessionId"`
	Answers   map[string]json.RawMessage `json:"answers"   validate:"required"`
}

type UpdateSessionBody struct {
	Status string `json:"status" validate:"required"`
}

type Store interface {
	StartSession(ctx context.Context, slug string) (Session, error)
	UpdateSessionStatus(ctx context.Context, id uuid.UUID, next Status) (Session, error)
	Submit(ctx context.Context, slug string, req SubmitRequest) (Response, error)
	GetByID(ctx context.Context, id uuid.UUID) (Response, error)
	ListByInstanceID(ctx context.Context, instanceID uuid.UUID) ([]Response, error)
	ListSessionsByInstanceID(ctx context.Context, instanceID uuid.UUID) ([]Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	logger        *zap.Logger
	tracer        trace.Tracer
	validator     *validator.Validate
	problemWriter *problem.HttpWriter

	store Store
}

func NewHandler(logger *zap.Logger, validator *validator.Validate, problemWriter *problem.HttpWriter, store Store) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("response/handler"),
		validator:     validator,
		problemWriter: problemWriter,
		store:         store,
	}
}

func (h *Handler) StartSessionHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "StartSessionHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	session, err := h.store.StartSession(traceCtx, r.PathValue("slug"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, session)
}

func (h *Handler) UpdateSessionHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "UpdateSessionHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("sessionId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var body UpdateSessionBody
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &body); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	status, err := ParseStatus(body.Status)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	session, err := h.store.UpdateSessionStatus(traceCtx, id, status)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, session)
}

func (h *Handler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "SubmitHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	var body SubmitBody
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &body); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	req := SubmitRequest{Answers: body.Answers}
	if body.SessionID != nil {
		req.SessionID = *body.SessionID
	}

	resp, err := h.store.Submit(traceCtx, r.PathValue("slug"), req)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	metrics.RecordSubmission(resp.InstanceID.String())

	handlerutil.WriteJSONResponse(w, http.StatusCreated, resp)
}

func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("responseId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	resp, err := h.store.GetByID(traceCtx, id)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, resp)
}

func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ListHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	instanceID, err := handlerutil.ParseUUID(r.PathValue("instanceId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	responses, err := h.store.ListByInstanceID(traceCtx, instanceID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, responses)
}

func (h *Handler) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ListSessionsHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	instanceID, err := handlerutil.ParseUUID(r.PathValue("instanceId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	sessions, err := h.store.ListSessionsByInstanceID(traceCtx, instanceID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, sessions)
}

func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "DeleteHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("responseId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if err := h.store.Delete(traceCtx, id); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
