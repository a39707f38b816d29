package fiber

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"usage-telemetry-service/internal/feedback/core/domain"
	"usage-telemetry-service/internal/feedback/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type GetSummaryUseCase interface {
	Execute(ctx context.Context, in usecase.GetSummaryInput) (*domain.Summary, error)
}

type SummaryHandler struct {
	uc GetSummaryUseCase
}

func NewSummaryHandler(uc GetSummaryUseCase) *SummaryHandler {
	return &SummaryHandler{uc: uc}
}

// GetSummary godoc
// @Summary Query journaled feedback
// @Description Counts journaled feedback events, with scroll totals for WindowScrolled, optionally grouped by owner or time bucket
// @Tags Feedback
// @Produce json
// @Param event_type query string true "Event type (UserClicked | WindowScrolled)"
// @Param from query int true "From timestamp (unix seconds)"
// @Param to query int true "To timestamp (unix seconds)"
// @Param owner query string false "Owner URL filter"
// @Param group_by query string false "Group by: owner | time"
// @Param interval query string false "Interval: hour | day"
// @Success 200 {object} SummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /feedback/summary [get]
func (h *SummaryHandler) GetSummary(c *fiber.Ctx) error {
	eventType := c.Query("event_type", "")
	if eventType == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: "event_type is required",
		})
	}

	fromStr := c.Query("from", "")
	toStr := c.Query("to", "")
	if fromStr == "" || toStr == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: "from and to are required",
		})
	}

	from, err := strconv.ParseInt(fromStr, 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: "invalid 'from' parameter",
		})
	}

	to, err := strconv.ParseInt(toStr, 10, 64)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_query",
			Message: "invalid 'to' parameter",
		})
	}

	var ownerPtr *string
	if owner := c.Query("owner", ""); owner != "" {
		ownerPtr = &owner
	}

	in := usecase.GetSummaryInput{
		EventType: eventType,
		From:      from,
		To:        to,
		Owner:     ownerPtr,
		GroupBy:   c.Query("group_by", ""),
		Interval:  c.Query("interval", ""),
	}

	res, err := h.uc.Execute(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidSummaryQuery),
			errors.Is(err, usecase.ErrInvalidTimeRange),
			errors.Is(err, usecase.ErrInvalidGroupBy),
			errors.Is(err, usecase.ErrInvalidInterval):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_query",
				Message: err.Error(),
			})
		default:
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	resp := SummaryResponse{
		EventType:    res.EventType,
		From:         res.From,
		To:           res.To,
		TotalCount:   res.TotalCount,
		UniqueOwners: res.UniqueOwners,
		TotalDelta:   res.TotalDelta,
		AvgDuration:  res.AvgDuration,
		GroupBy:      res.GroupBy,
		Groups:       make([]SummaryGroupResponse, 0, len(res.Groups)),
	}

	for _, g := range res.Groups {
		resp.Groups = append(resp.Groups, SummaryGroupResponse{
			Key:         g.Key,
			TotalCount:  g.TotalCount,
			TotalDelta:  g.TotalDelta,
			AvgDuration: g.AvgDuration,
		})
	}

	return c.Status(http.StatusOK).JSON(resp)
}
