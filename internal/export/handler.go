package export

import (
	"context"
	"fmt"
	"io"
	"net/http"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"survey-studio/backend/internal"
)

// maxImportSize bounds uploaded file reads.
const maxImportSize = 10 << 20

type Store interface {
	ExportConfig(ctx context.Context, id uuid.UUID) (Envelope, error)
	ExportOptionSet(ctx context.Context, id uuid.UUID) (Envelope, error)
	ExportInstance(ctx context.Context, id uuid.UUID) (Envelope, error)
	Import(ctx context.Context, data []byte) (ImportResult, error)
	ExportResponsesXLSX(ctx context.Context, instanceID uuid.UUID) ([]byte, error)
}

type Handler struct {
	logger        *zap.Logger
	tracer        trace.Tracer
	problemWriter *problem.HttpWriter

	store Store
}

func NewHandler(logger *zap.Logger, problemWriter *problem.HttpWriter, store Store) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("export/handler"),
		problemWriter: problemWriter,
		store:         store,
	}
}

func (h *Handler) ExportConfigHandler(w http.ResponseWriter, r *http.Request) {
	h.writeEnvelope(w, r, "ExportConfigHandler", "surveyId", h.store.ExportConfig)
}

func (h *Handler) ExportOptionSetHandler(w http.ResponseWriter, r *http.Request) {
	h.writeEnvelope(w, r, "ExportOptionSetHandler", "setId", h.store.ExportOptionSet)
}

func (h *Handler) ExportInstanceHandler(w http.ResponseWriter, r *http.Request) {
	h.writeEnvelope(w, r, "ExportInstanceHandler", "instanceId", h.store.ExportInstance)
}

func (h *Handler) writeEnvelope(
	w http.ResponseWriter,
	r *http.Request,
	spanName, pathKey string,
	export func(ctx context.Context, id uuid.UUID) (Envelope, error),
) {
	traceCtx, span := h.tracer.Start(r.Context(), spanName)
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue(pathKey))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	env, err := export(traceCtx, id)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, env)
}

func (h *Handler) ImportHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ImportHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, fmt.Errorf("failed to read upload: %w", internal.ErrInvalidRequestBody), logger)
		return
	}

	result, err := h.store.Import(traceCtx, data)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, result)
}

func (h *Handler) ExportResponsesHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ExportResponsesHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	instanceID, err := handlerutil.ParseUUID(r.PathValue("instanceId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	data, err := h.store.ExportResponsesXLSX(traceCtx, instanceID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "responses-"+instanceID.String()+".xlsx"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Warn("failed to stream workbook", zap.Error(err))
	}
}
