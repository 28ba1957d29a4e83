// Package http exposes the delivery board over a REST surface.
// It coordinates between HTTP handlers and application use cases: commands
// and queries do the work, the reactor fires notification triggers after
// successful mutations.
package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"haulboard/internal/adapters/in/reactions"
	"haulboard/internal/adapters/out/webhook"
	"haulboard/internal/core/application/usecases/commands"
	"haulboard/internal/core/application/usecases/queries"
	"haulboard/internal/core/domain/model/job"
	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/core/ports"
	"haulboard/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Actor identity headers. The identity is established by the auth
// collaborator in front of this service and trusted as-is.
const (
	headerActorID   = "X-Actor-Id"
	headerActorName = "X-Actor-Name"
	headerActorRole = "X-Actor-Role"
)

// Server handles HTTP requests for job lifecycle operations, board queries,
// and the at-least-once notification trigger surface.
type Server struct {
	// Command handlers
	createJobHandler     commands.CreateJobCommandHandler
	claimJobHandler      commands.ClaimJobCommandHandler
	advanceStatusHandler commands.AdvanceStatusCommandHandler
	holdJobHandler       commands.HoldJobCommandHandler
	resumeJobHandler     commands.ResumeJobCommandHandler
	selectTripHandler    commands.SelectTripCommandHandler

	// Query handlers
	getActiveJobsHandler queries.GetActiveJobsQueryHandler
	getDriverJobsHandler queries.GetDriverJobsQueryHandler

	reactor    *reactions.Reactor
	uowFactory ports.UnitOfWorkFactory
	logger     *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query
// handlers.
func NewServer(
	createJobHandler commands.CreateJobCommandHandler,
	claimJobHandler commands.ClaimJobCommandHandler,
	advanceStatusHandler commands.AdvanceStatusCommandHandler,
	holdJobHandler commands.HoldJobCommandHandler,
	resumeJobHandler commands.ResumeJobCommandHandler,
	selectTripHandler commands.SelectTripCommandHandler,
	getActiveJobsHandler queries.GetActiveJobsQueryHandler,
	getDriverJobsHandler queries.GetDriverJobsQueryHandler,
	reactor *reactions.Reactor,
	uowFactory ports.UnitOfWorkFactory,
	logger *slog.Logger,
) *Server {
	return &Server{
		createJobHandler:     createJobHandler,
		claimJobHandler:      claimJobHandler,
		advanceStatusHandler: advanceStatusHandler,
		holdJobHandler:       holdJobHandler,
		resumeJobHandler:     resumeJobHandler,
		selectTripHandler:    selectTripHandler,
		getActiveJobsHandler: getActiveJobsHandler,
		getDriverJobsHandler: getDriverJobsHandler,
		reactor:              reactor,
		uowFactory:           uowFactory,
		logger:               logger.With("component", "http_server"),
	}
}

// RegisterRoutes attaches all handlers to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/jobs", s.CreateJob)
	e.GET("/api/v1/jobs", s.GetJobs)
	e.GET("/api/v1/drivers/:driverId/jobs", s.GetDriverJobs)
	e.POST("/api/v1/jobs/:id/claim", s.ClaimJob)
	e.POST("/api/v1/jobs/:id/advance", s.AdvanceJob)
	e.POST("/api/v1/jobs/:id/hold", s.HoldJob)
	e.POST("/api/v1/jobs/:id/resume", s.ResumeJob)
	e.POST("/api/v1/jobs/:id/trip", s.SelectTrip)
	e.POST("/triggers/job-created", s.OnJobCreated)
	e.POST("/triggers/job-updated", s.OnJobUpdated)
}

// ErrorBody is the JSON error envelope. Owner carries the current claimant
// on ownership conflicts so clients can show who holds the job.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Owner   string `json:"owner,omitempty"`
}

// CreateJobRequest is the body of POST /api/v1/jobs.
type CreateJobRequest struct {
	ID                    string `json:"id"`
	Kind                  string `json:"kind"`
	CustomerName          string `json:"customerName"`
	CustomerPhone         string `json:"customerPhone"`
	Address               string `json:"address"`
	Depot                 string `json:"depot"`
	ScheduledAt           string `json:"scheduledAt"`
	InvoiceNumber         string `json:"invoiceNumber"`
	TravelEstimateMinutes int    `json:"travelEstimateMinutes"`
	NumberOfTrips         int    `json:"numberOfTrips"`
}

// ClaimRequest is the body of POST /api/v1/jobs/:id/claim.
type ClaimRequest struct {
	Truck string `json:"truck"`
}

// AdvanceRequest is the body of POST /api/v1/jobs/:id/advance.
type AdvanceRequest struct {
	Truck  string   `json:"truck"`
	Photos []string `json:"photos"`
}

// HoldRequest is the body of POST /api/v1/jobs/:id/hold.
type HoldRequest struct {
	RequiresConfirmation bool `json:"requiresConfirmation"`
}

// SelectTripRequest is the body of POST /api/v1/jobs/:id/trip.
type SelectTripRequest struct {
	TripNumber int `json:"tripNumber"`
}

// StatusChangeResponse reports the result of an advance.
type StatusChangeResponse struct {
	JobID    string `json:"jobId"`
	Previous string `json:"previous"`
	Current  string `json:"current"`
}

// JobSummaryResponse is one board entry.
type JobSummaryResponse struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	Depot         string  `json:"depot"`
	CustomerName  string  `json:"customerName"`
	Address       string  `json:"address"`
	ScheduledAt   string  `json:"scheduledAt"`
	InvoiceNumber string  `json:"invoiceNumber"`
	Owner         *string `json:"owner,omitempty"`
	NumberOfTrips int     `json:"numberOfTrips"`
	CurrentTrip   *int    `json:"currentTrip,omitempty"`
}

// TriggerCreatedRequest is the body of POST /triggers/job-created.
type TriggerCreatedRequest struct {
	JobID string `json:"jobId"`
}

// TriggerUpdatedRequest is the body of POST /triggers/job-updated.
// PreviousStatus accepts legacy spellings and arbitrary casing.
type TriggerUpdatedRequest struct {
	JobID          string `json:"jobId"`
	PreviousStatus string `json:"previousStatus"`
}

// CreateJob handles POST /api/v1/jobs - schedules a new job record.
func (s *Server) CreateJob(ctx echo.Context) error {
	actor, err := s.actorFromHeaders(ctx)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	var req CreateJobRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorBody{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}

	jobID := kernel.NewUUID()
	if req.ID != "" {
		if jobID, err = kernel.UUIDFromString(req.ID); err != nil {
			return ctx.JSON(http.StatusBadRequest, ErrorBody{Code: http.StatusBadRequest, Message: "Invalid job id"})
		}
	}

	if req.Kind == "" {
		req.Kind = job.Delivery.String()
	}
	kind, err := job.ParseEntryKind(req.Kind)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	var scheduledAt time.Time
	if req.ScheduledAt != "" {
		if scheduledAt, err = time.Parse(time.RFC3339, req.ScheduledAt); err != nil {
			return ctx.JSON(http.StatusBadRequest, ErrorBody{Code: http.StatusBadRequest, Message: "scheduledAt must be RFC 3339"})
		}
	}

	numberOfTrips := req.NumberOfTrips
	if numberOfTrips == 0 {
		numberOfTrips = 1
	}

	cmd, err := commands.NewCreateJobCommand(jobID, kind, job.Details{
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Address:        req.Address,
		Depot:          req.Depot,
		ScheduledAt:    scheduledAt,
		InvoiceNumber:  req.InvoiceNumber,
		TravelEstimate: time.Duration(req.TravelEstimateMinutes) * time.Minute,
	}, numberOfTrips, actor)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err = s.createJobHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	s.fireCreateTrigger(ctx, jobID)

	return ctx.JSON(http.StatusCreated, map[string]string{"id": jobID.String()})
}

// ClaimJob handles POST /api/v1/jobs/:id/claim.
func (s *Server) ClaimJob(ctx echo.Context) error {
	actor, jobID, err := s.actorAndJobID(ctx)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	var req ClaimRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorBody{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}

	cmd, err := commands.NewClaimJobCommand(jobID, actor, req.Truck)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err = s.claimJobHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AdvanceJob handles POST /api/v1/jobs/:id/advance. On success the observed
// status change feeds the update trigger before the response is written.
func (s *Server) AdvanceJob(ctx echo.Context) error {
	actor, jobID, err := s.actorAndJobID(ctx)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	var req AdvanceRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorBody{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}

	cmd, err := commands.NewAdvanceStatusCommand(jobID, actor, req.Truck, req.Photos)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	change, err := s.advanceStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if change.Previous != change.Current {
		s.fireUpdateTrigger(ctx, change)
	}

	return ctx.JSON(http.StatusOK, StatusChangeResponse{
		JobID:    change.JobID.String(),
		Previous: change.Previous.String(),
		Current:  change.Current.String(),
	})
}

// HoldJob handles POST /api/v1/jobs/:id/hold.
func (s *Server) HoldJob(ctx echo.Context) error {
	actor, jobID, err := s.actorAndJobID(ctx)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	var req HoldRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorBody{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}

	cmd, err := commands.NewHoldJobCommand(jobID, actor, req.RequiresConfirmation)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err = s.holdJobHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ResumeJob handles POST /api/v1/jobs/:id/resume.
func (s *Server) ResumeJob(ctx echo.Context) error {
	actor, jobID, err := s.actorAndJobID(ctx)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	cmd, err := commands.NewResumeJobCommand(jobID, actor)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err = s.resumeJobHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SelectTrip handles POST /api/v1/jobs/:id/trip.
func (s *Server) SelectTrip(ctx echo.Context) error {
	actor, jobID, err := s.actorAndJobID(ctx)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	var req SelectTripRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorBody{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}

	cmd, err := commands.NewSelectTripCommand(jobID, actor, req.TripNumber)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err = s.selectTripHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetJobs handles GET /api/v1/jobs - the board of non-complete jobs,
// optionally filtered by ?depot=.
func (s *Server) GetJobs(ctx echo.Context) error {
	query := queries.NewGetActiveJobsQuery(ctx.QueryParam("depot"))

	summaries, err := s.getActiveJobsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorBody{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve jobs",
		})
	}

	return ctx.JSON(http.StatusOK, toSummaryResponses(summaries))
}

// GetDriverJobs handles GET /api/v1/drivers/:driverId/jobs.
func (s *Server) GetDriverJobs(ctx echo.Context) error {
	driverID, err := kernel.UUIDFromString(ctx.Param("driverId"))
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorBody{Code: http.StatusBadRequest, Message: "Invalid driver id"})
	}

	query, err := queries.NewGetDriverJobsQuery(driverID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	summaries, err := s.getDriverJobsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorBody{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve jobs",
		})
	}

	return ctx.JSON(http.StatusOK, toSummaryResponses(summaries))
}

// OnJobCreated handles POST /triggers/job-created. The trigger redelivers
// at-least-once; a duplicate resolves to 200 without a second webhook call.
func (s *Server) OnJobCreated(ctx echo.Context) error {
	var req TriggerCreatedRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorBody{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}

	jobID, err := kernel.UUIDFromString(req.JobID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorBody{Code: http.StatusBadRequest, Message: "Invalid job id"})
	}

	aggregate, err := s.uowFactory.Create().JobRepository().Get(ctx.Request().Context(), jobID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err = s.reactor.OnJobCreated(ctx.Request().Context(), aggregate); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// OnJobUpdated handles POST /triggers/job-updated.
func (s *Server) OnJobUpdated(ctx echo.Context) error {
	var req TriggerUpdatedRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorBody{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}

	jobID, err := kernel.UUIDFromString(req.JobID)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, ErrorBody{Code: http.StatusBadRequest, Message: "Invalid job id"})
	}

	previous, err := job.ParseStatus(req.PreviousStatus)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	aggregate, err := s.uowFactory.Create().JobRepository().Get(ctx.Request().Context(), jobID)
	if err != nil {
		return s.errorResponse(ctx, err)
	}

	if err = s.reactor.OnJobUpdated(ctx.Request().Context(), previous, aggregate); err != nil {
		return s.errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// fireCreateTrigger runs the in-process create trigger after a successful
// create. Failures are logged, never surfaced: the sweep job redelivers.
func (s *Server) fireCreateTrigger(ctx echo.Context, jobID kernel.UUID) {
	reqCtx := ctx.Request().Context()
	aggregate, err := s.uowFactory.Create().JobRepository().Get(reqCtx, jobID)
	if err != nil {
		s.logger.ErrorContext(reqCtx, "create trigger read failed", "job", jobID.String(), "error", err)
		return
	}
	if err = s.reactor.OnJobCreated(reqCtx, aggregate); err != nil {
		s.logger.ErrorContext(reqCtx, "create trigger dispatch failed", "job", jobID.String(), "error", err)
	}
}

// fireUpdateTrigger runs the in-process update trigger after a successful
// advance. Failures are logged, never surfaced.
func (s *Server) fireUpdateTrigger(ctx echo.Context, change commands.StatusChange) {
	reqCtx := ctx.Request().Context()
	aggregate, err := s.uowFactory.Create().JobRepository().Get(reqCtx, change.JobID)
	if err != nil {
		s.logger.ErrorContext(reqCtx, "update trigger read failed", "job", change.JobID.String(), "error", err)
		return
	}
	if err = s.reactor.OnJobUpdated(reqCtx, change.Previous, aggregate); err != nil {
		s.logger.ErrorContext(reqCtx, "update trigger dispatch failed", "job", change.JobID.String(), "error", err)
	}
}

func (s *Server) actorAndJobID(ctx echo.Context) (kernel.Actor, kernel.UUID, error) {
	actor, err := s.actorFromHeaders(ctx)
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, err
	}

	jobID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("jobID", err)
	}

	return actor, jobID, nil
}

func (s *Server) actorFromHeaders(ctx echo.Context) (kernel.Actor, error) {
	id, err := kernel.UUIDFromString(ctx.Request().Header.Get(headerActorID))
	if err != nil {
		return kernel.Actor{}, errs.NewValueIsInvalidErrorWithCause(headerActorID, err)
	}

	role, err := kernel.ParseRole(ctx.Request().Header.Get(headerActorRole))
	if err != nil {
		return kernel.Actor{}, err
	}

	return kernel.NewActor(id, ctx.Request().Header.Get(headerActorName), role)
}

// errorResponse maps domain and application errors onto HTTP statuses.
// Conflicts carry the current owner so the client can name the holder.
func (s *Server) errorResponse(ctx echo.Context, err error) error {
	var claimedErr *job.AlreadyClaimedError
	if errors.As(err, &claimedErr) {
		return ctx.JSON(http.StatusConflict, ErrorBody{
			Code:    http.StatusConflict,
			Message: err.Error(),
			Owner:   claimedErr.CurrentOwner.String(),
		})
	}

	var ownershipErr *job.OwnershipConflictError
	if errors.As(err, &ownershipErr) {
		return ctx.JSON(http.StatusConflict, ErrorBody{
			Code:    http.StatusConflict,
			Message: err.Error(),
			Owner:   ownershipErr.Owner.String(),
		})
	}

	var status int
	switch {
	case errors.Is(err, commands.ErrSubmissionInFlight),
		errors.Is(err, commands.ErrDriverHasActiveJob),
		errors.Is(err, job.ErrAlreadyDispatched):
		status = http.StatusConflict
	case errors.Is(err, job.ErrInvalidTransition):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, webhook.ErrExternalCallFailed):
		status = http.StatusBadGateway
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}

	return ctx.JSON(status, ErrorBody{Code: status, Message: err.Error()})
}

func toSummaryResponses(summaries []queries.JobSummary) []JobSummaryResponse {
	response := make([]JobSummaryResponse, len(summaries))
	for i, summary := range summaries {
		var owner *string
		if summary.Owner != nil {
			o := summary.Owner.String()
			owner = &o
		}

		response[i] = JobSummaryResponse{
			ID:            summary.ID.String(),
			Status:        summary.Status,
			Depot:         summary.Depot,
			CustomerName:  summary.CustomerName,
			Address:       summary.Address,
			ScheduledAt:   summary.ScheduledAt.Format(time.RFC3339),
			InvoiceNumber: summary.InvoiceNumber,
			Owner:         owner,
			NumberOfTrips: summary.NumberOfTrips,
			CurrentTrip:   summary.CurrentTrip,
		}
	}

	return response
}
