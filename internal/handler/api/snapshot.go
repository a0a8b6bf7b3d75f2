package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	models "SemiDash/internal/domain/models"
	"SemiDash/internal/usecase"
	xhttp "SemiDash/pkg/http"
	xlogger "SemiDash/pkg/logger"
)

// SnapshotService is what the handler needs from the cohort registry.
type SnapshotService interface {
	Cohorts() []string
	Roster(cohort string) ([]models.EntityDefinition, error)
	Snapshot(ctx context.Context, cohort string, forceRefresh bool) (models.SnapshotResponse, error)
	Invalidate(ctx context.Context, cohort string) error
}

// RefreshLimiter throttles forced refreshes per client key.
type RefreshLimiter interface {
	Allow(key string) bool
}

// CohortSummary lists one cohort and its roster.
type CohortSummary struct {
	ID       string                    `json:"id"`
	Entities []models.EntityDefinition `json:"entities"`
}

// SnapshotEchoHandler serves cohort snapshots over Echo.
type SnapshotEchoHandler struct {
	logger  *xlogger.Logger
	svc     SnapshotService
	limiter RefreshLimiter
}

// NewSnapshotEchoHandler creates the handler. A nil limiter disables
// refresh throttling.
func NewSnapshotEchoHandler(logger *xlogger.Logger, svc SnapshotService, limiter RefreshLimiter) *SnapshotEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &SnapshotEchoHandler{logger: logger, svc: svc, limiter: limiter}
}

func (h *SnapshotEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/cohorts", h.Cohorts)
	g.GET("/cohorts/:cohort/snapshot", h.Snapshot)
	g.DELETE("/cohorts/:cohort/cache", h.InvalidateCohort)
	g.DELETE("/cache", h.InvalidateAll)
}

func (h *SnapshotEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *SnapshotEchoHandler) Cohorts(c echo.Context) error {
	ids := h.svc.Cohorts()
	out := make([]CohortSummary, 0, len(ids))
	for _, id := range ids {
		roster, err := h.svc.Roster(id)
		if err != nil {
			return xhttp.AppErrorResponse(c, toAppError(err))
		}
		out = append(out, CohortSummary{ID: id, Entities: roster})
	}
	return xhttp.SuccessResponse(c, out)
}

// Snapshot returns the SnapshotResponse itself rather than the APIResponse
// envelope, since it already carries success and lastUpdated.
func (h *SnapshotEchoHandler) Snapshot(c echo.Context) error {
	req := &models.SnapshotRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if req.Refresh && h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
		h.logger.Warn("refresh throttled",
			xlogger.String("cohort", req.Cohort),
			xlogger.String("client", c.RealIP()),
		)
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many refresh requests"))
	}

	res, err := h.svc.Snapshot(c.Request().Context(), req.Cohort, req.Refresh)
	if err != nil {
		h.logger.Error("snapshot usecase error", xlogger.String("cohort", req.Cohort), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	if !req.Refresh {
		c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	}
	return c.JSON(http.StatusOK, res)
}

func (h *SnapshotEchoHandler) InvalidateCohort(c echo.Context) error {
	req := &models.InvalidateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.svc.Invalidate(c.Request().Context(), req.Cohort); err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	h.logger.Info("cache invalidated", xlogger.String("cohort", req.Cohort))
	return xhttp.NoContentResponse(c)
}

func (h *SnapshotEchoHandler) InvalidateAll(c echo.Context) error {
	if err := h.svc.Invalidate(c.Request().Context(), ""); err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	h.logger.Info("cache invalidated", xlogger.String("cohort", "*"))
	return xhttp.NoContentResponse(c)
}

func toAppError(err error) error {
	if errors.Is(err, usecase.ErrUnknownCohort) {
		return xhttp.NotFoundError(err.Error()).WithError(err)
	}
	return xhttp.InternalError("internal error").WithError(err)
}
