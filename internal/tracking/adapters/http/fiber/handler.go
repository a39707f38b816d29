package fiber

import (
	"context"
	"errors"
	"net/http"

	"usage-telemetry-service/internal/tracking/core/domain"
	"usage-telemetry-service/internal/tracking/core/usecase"
	"usage-telemetry-service/internal/tracking/session"

	"github.com/gofiber/fiber/v2"
)

type SessionService interface {
	PublishWheel(ctx context.Context, clientID string, events []domain.RawEvent) error
	PublishClick(ctx context.Context, clientID string, c domain.Click) error
	PublishError(ctx context.Context, clientID string, e domain.ClientError) error
	Experiment(ctx context.Context, clientID string) (domain.Group, error)
	LastError(clientID string) (domain.DeveloperNotice, bool)
}

type SessionHandler struct {
	sessions SessionService
}

func NewSessionHandler(sessions SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Register mounts the session routes on r.
func (h *SessionHandler) Register(r fiber.Router) {
	g := r.Group("/sessions/:client_id")
	g.Post("/wheel", h.PostWheel)
	g.Post("/clicks", h.PostClick)
	g.Post("/errors", h.PostError)
	g.Get("/experiment", h.GetExperiment)
	g.Get("/last-error", h.GetLastError)
}

// PostWheel godoc
// @Summary Report wheel events
// @Description Feeds wheel events into the client's scroll batcher. Events arriving within one window are emitted as a single WindowScrolled record.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param client_id path string true "Client id"
// @Param request body WheelRequest true "Wheel events"
// @Success 202 {object} AcceptedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sessions/{client_id}/wheel [post]
func (h *SessionHandler) PostWheel(c *fiber.Ctx) error {
	var req WheelRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	if len(req.Events) == 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "events_list_required",
			Message: "events list is empty",
		})
	}

	events := make([]domain.RawEvent, len(req.Events))
	for i, e := range req.Events {
		events[i] = e.toDomain()
	}

	if err := h.sessions.PublishWheel(c.UserContext(), c.Params("client_id"), events); err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusAccepted).JSON(AcceptedResponse{Status: "accepted", Count: len(events)})
}

// PostClick godoc
// @Summary Report a click
// @Description Emits a UserClicked record for the client
// @Tags Sessions
// @Accept json
// @Produce json
// @Param client_id path string true "Client id"
// @Param request body ClickRequest true "Click"
// @Success 202 {object} AcceptedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sessions/{client_id}/clicks [post]
func (h *SessionHandler) PostClick(c *fiber.Ctx) error {
	var req ClickRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	if err := h.sessions.PublishClick(c.UserContext(), c.Params("client_id"), req.toDomain()); err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusAccepted).JSON(AcceptedResponse{Status: "accepted", Count: 1})
}

// PostError godoc
// @Summary Report a client error
// @Description Forwards an uncaught script error to the client log
// @Tags Sessions
// @Accept json
// @Produce json
// @Param client_id path string true "Client id"
// @Param request body ErrorRequest true "Client error"
// @Success 202 {object} AcceptedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sessions/{client_id}/errors [post]
func (h *SessionHandler) PostError(c *fiber.Ctx) error {
	var req ErrorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid_json",
		})
	}

	if err := h.sessions.PublishError(c.UserContext(), c.Params("client_id"), req.toDomain()); err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusAccepted).JSON(AcceptedResponse{Status: "accepted", Count: 1})
}

// GetExperiment godoc
// @Summary Get experiment group
// @Description Returns the client's experiment group, assigning one on first request
// @Tags Sessions
// @Produce json
// @Param client_id path string true "Client id"
// @Success 200 {object} ExperimentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /sessions/{client_id}/experiment [get]
func (h *SessionHandler) GetExperiment(c *fiber.Ctx) error {
	group, err := h.sessions.Experiment(c.UserContext(), c.Params("client_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(http.StatusOK).JSON(ExperimentResponse{
		Key:   domain.ExperimentKey,
		Group: string(group),
	})
}

// GetLastError godoc
// @Summary Get last developer notice
// @Description Returns the last error notice stored for a client in developer mode
// @Tags Sessions
// @Produce json
// @Param client_id path string true "Client id"
// @Success 200 {object} LastErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{client_id}/last-error [get]
func (h *SessionHandler) GetLastError(c *fiber.Ctx) error {
	notice, ok := h.sessions.LastError(c.Params("client_id"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Error: "not_found",
		})
	}
	return c.Status(http.StatusOK).JSON(LastErrorResponse{
		Type:    notice.Type,
		Message: notice.Message,
	})
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, session.ErrInvalidClientID):
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_client_id",
			Message: err.Error(),
		})
	case errors.Is(err, usecase.ErrBucketStore):
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "experiment_store_unavailable",
			Message: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}
