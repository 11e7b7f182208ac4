package analytics

import (
	"context"
	"net/http"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Store interface {
	Report(ctx context.Context, instanceID uuid.UUID, granularity Granularity) (Report, error)
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
		tracer:        otel.Tracer("analytics/handler"),
		problemWriter: problemWriter,
		store:         store,
	}
}

// ReportHandler serves the analytics dashboard payload. Granularity comes
// from the query string and defaults to daily buckets.
func (h *Handler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ReportHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	instanceID, err := handlerutil.ParseUUID(r.PathValue("instanceId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	granularityParam := r.URL.Query().Get("granularity")
	if granularityParam == "" {
		granularityParam = string(GranularityDay)
	}
	granularity, err := ParseGranularity(granularityParam)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	report, err := h.store.Report(traceCtx, instanceID, granularity)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, report)
}
