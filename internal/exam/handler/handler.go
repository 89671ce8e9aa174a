// Package handler exposes the exam API over HTTP.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"refcert/internal/exam/scoring"
	"refcert/internal/exam/service"
	"refcert/internal/platform/metrics"
	"refcert/internal/platform/middleware"
	id "refcert/pkg/domain"
	dErrors "refcert/pkg/domain-errors"
	"refcert/pkg/platform/httputil"
	"refcert/pkg/requestcontext"
)

// Service defines the exam operations the transport needs.
type Service interface {
	ListAvailableExams(ctx context.Context, refereeID id.RefereeID) ([]service.ExamSummary, error)
	GetExamDetails(ctx context.Context, refereeID id.RefereeID, examID id.ExamID) (service.ExamSummary, error)
	StartExam(ctx context.Context, refereeID id.RefereeID, examID id.ExamID) (service.StartedAttempt, error)
	SubmitExam(ctx context.Context, refereeID id.RefereeID, examID id.ExamID, answers []scoring.SubmittedAnswer) (service.SubmissionResult, error)
}

// Handler handles exam endpoints.
type Handler struct {
	logger       *slog.Logger
	exams        Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new exam Handler.
func New(
	exams Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		exams:        exams,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register registers the exam routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	examRouter := chi.NewRouter()
	examRouter.Use(middleware.Recovery(h.logger))
	examRouter.Use(middleware.RequestID)
	examRouter.Use(middleware.Logger(h.logger))
	examRouter.Use(middleware.Timeout(30 * time.Second))
	examRouter.Use(middleware.ContentTypeJSON)
	examRouter.Use(middleware.Latency(h.metrics))
	examRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	examRouter.Get("/exams", h.handleListExams)
	examRouter.Get("/exams/{examID}", h.handleGetExam)
	examRouter.Post("/exams/{examID}/start", h.handleStartExam)
	examRouter.Post("/exams/{examID}/submit", h.handleSubmitExam)

	r.Mount("/", examRouter)
}

func (h *Handler) handleListExams(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	refereeID, ok := h.refereeFromContext(ctx, w)
	if !ok {
		return
	}

	summaries, err := h.exams.ListAvailableExams(ctx, refereeID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to list exams")
		return
	}

	out := make([]examSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, toExamSummary(summary))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"exams": out})
}

func (h *Handler) handleGetExam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	refereeID, ok := h.refereeFromContext(ctx, w)
	if !ok {
		return
	}
	examID, ok := h.examIDFromPath(ctx, w, r)
	if !ok {
		return
	}

	summary, err := h.exams.GetExamDetails(ctx, refereeID, examID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to load exam")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toExamSummary(summary))
}

func (h *Handler) handleStartExam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	refereeID, ok := h.refereeFromContext(ctx, w)
	if !ok {
		return
	}
	examID, ok := h.examIDFromPath(ctx, w, r)
	if !ok {
		return
	}

	started, err := h.exams.StartExam(ctx, refereeID, examID)
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to start exam")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toStartExamResponse(started))
}

func (h *Handler) handleSubmitExam(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	refereeID, ok := h.refereeFromContext(ctx, w)
	if !ok {
		return
	}
	examID, ok := h.examIDFromPath(ctx, w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[SubmitExamRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.exams.SubmitExam(ctx, refereeID, examID, req.toSubmitted())
	if err != nil {
		h.writeServiceError(ctx, w, err, "failed to submit exam")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSubmitExamResponse(result))
}

func (h *Handler) refereeFromContext(ctx context.Context, w http.ResponseWriter) (id.RefereeID, bool) {
	refereeID := requestcontext.RefereeID(ctx)
	if refereeID.IsNil() {
		// Should never happen behind RequireAuth.
		h.logger.ErrorContext(ctx, "referee ID missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.RefereeID{}, false
	}
	return refereeID, true
}

func (h *Handler) examIDFromPath(ctx context.Context, w http.ResponseWriter, r *http.Request) (id.ExamID, bool) {
	examID, err := id.ParseExamID(chi.URLParam(r, "examID"))
	if err != nil {
		h.logger.WarnContext(ctx, "invalid exam ID in path",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid exam id"))
		return id.ExamID{}, false
	}
	return examID, true
}

// writeServiceError maps service errors onto HTTP responses. Eligibility
// denials surface the machine-readable reason code.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, err error, logMessage string) {
	var denial *service.NotEligibleError
	if errors.As(err, &denial) {
		httputil.WriteJSON(w, http.StatusForbidden, map[string]string{
			"error":  "not_eligible",
			"reason": denial.Reason.String(),
		})
		return
	}

	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, logMessage,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	} else {
		h.logger.WarnContext(ctx, logMessage,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
