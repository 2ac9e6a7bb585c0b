package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Jay210305/Fulbo-sub001/internal/availability"
	"github.com/Jay210305/Fulbo-sub001/internal/middleware"
	"github.com/Jay210305/Fulbo-sub001/internal/model"
	"github.com/Jay210305/Fulbo-sub001/internal/queue"
	queue_publisher "github.com/Jay210305/Fulbo-sub001/internal/service"
)

// BlockService is the slice of the block manager the handlers need.
type BlockService interface {
	CreateBlock(ctx context.Context, in availability.CreateBlockInput) (model.Commitment, error)
	DeleteBlock(ctx context.Context, blockID string) error
	BlocksInWindow(ctx context.Context, fieldID string, window model.Interval) ([]model.Commitment, error)
	DatesWithBlocks(ctx context.Context, fieldID string, window model.Interval) ([]time.Time, error)
}

// BlockHandler serves the manager console's schedule-block endpoints.
type BlockHandler struct {
	Blocks BlockService
}

// NewBlockHandler constructs a BlockHandler.
func NewBlockHandler(blocks BlockService) *BlockHandler {
	if blocks == nil {
		panic("nil BlockService passed to NewBlockHandler")
	}
	return &BlockHandler{Blocks: blocks}
}

type blockResponse struct {
	ID        string `json:"id"`
	FieldID   string `json:"fieldId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason"`
	Note      string `json:"note,omitempty"`
	CreatedBy string `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
}

func toBlockResponse(c model.Commitment) blockResponse {
	return blockResponse{
		ID:        c.ID,
		FieldID:   c.FieldID,
		StartTime: c.Interval.Start.Format(time.RFC3339),
		EndTime:   c.Interval.End.Format(time.RFC3339),
		Reason:    string(c.Reason),
		Note:      c.Note,
		CreatedBy: c.OwnerRef,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

// List handles GET /schedule-blocks?fieldId&startDate&endDate. Dates are
// YYYY-MM-DD; the window covers startDate through endDate inclusive.
func (h *BlockHandler) List(c echo.Context) error {
	fieldID := strings.TrimSpace(c.QueryParam("fieldId"))
	if fieldID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fieldId is required"})
	}
	start, err := time.ParseInLocation("2006-01-02", c.QueryParam("startDate"), time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid startDate, expected YYYY-MM-DD"})
	}
	end, err := time.ParseInLocation("2006-01-02", c.QueryParam("endDate"), time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid endDate, expected YYYY-MM-DD"})
	}
	window, err := model.NewInterval(start, end.AddDate(0, 0, 1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "endDate must not precede startDate"})
	}

	blocks, err := h.Blocks.BlocksInWindow(c.Request().Context(), fieldID, window)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list blocks"})
	}
	out := make([]blockResponse, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, toBlockResponse(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"blocks": out})
}

// Dates handles GET /schedule-blocks/dates?fieldId&month=YYYY-MM, the
// calendar-highlighting projection: every day of the month touched by a
// block.
func (h *BlockHandler) Dates(c echo.Context) error {
	fieldID := strings.TrimSpace(c.QueryParam("fieldId"))
	if fieldID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fieldId is required"})
	}
	monthStart, err := time.ParseInLocation("2006-01", c.QueryParam("month"), time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid month, expected YYYY-MM"})
	}
	window := model.Interval{Start: monthStart, End: monthStart.AddDate(0, 1, 0)}

	days, err := h.Blocks.DatesWithBlocks(c.Request().Context(), fieldID, window)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute block dates"})
	}
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Format("2006-01-02"))
	}
	return c.JSON(http.StatusOK, echo.Map{"dates": out})
}

// Create handles POST /schedule-blocks. A block is only admitted when no
// booking or block overlaps it; otherwise the 409 body lists every
// conflicting commitment and nothing is written. The engine never cancels
// bookings to make room for a block.
func (h *BlockHandler) Create(c echo.Context) error {
	managerRef := middleware.OwnerRef(c)
	if managerRef == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		FieldID   string `json:"fieldId"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
		Reason    string `json:"reason"`
		Note      string `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.FieldID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fieldId is required"})
	}
	start, err := parseTimeParam(body.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid startTime format"})
	}
	end, err := parseTimeParam(body.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid endTime format"})
	}

	block, err := h.Blocks.CreateBlock(c.Request().Context(), availability.CreateBlockInput{
		FieldID:    body.FieldID,
		Interval:   model.Interval{Start: start.UTC(), End: end.UTC()},
		Reason:     model.BlockReason(body.Reason),
		Note:       strings.TrimSpace(body.Note),
		ManagerRef: managerRef,
	})
	if err != nil {
		if ce, ok := asConflict(err); ok {
			return writeConflict(c, ce)
		}
		switch {
		case errors.Is(err, model.ErrInvalidInterval):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "endTime must be after startTime"})
		case errors.Is(err, model.ErrInvalidReason):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason must be maintenance, personal, or event"})
		case errors.Is(err, model.ErrFieldNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create block"})
	}

	// Best-effort notification; the block is committed either way.
	go func(b model.Commitment) {
		_ = queue_publisher.PublishBlockCreated(context.Background(), queue.BlockCreatedEvent{
			BlockID:    b.ID,
			FieldID:    b.FieldID,
			Reason:     string(b.Reason),
			Note:       b.Note,
			ManagerRef: b.OwnerRef,
			StartsAt:   b.Interval.Start.Format(time.RFC3339),
			EndsAt:     b.Interval.End.Format(time.RFC3339),
			CreatedAt:  b.CreatedAt.Format(time.RFC3339),
		})
	}(block)

	return c.JSON(http.StatusCreated, toBlockResponse(block))
}

// Delete handles DELETE /schedule-blocks/:id. Removing a block never
// affects bookings; an unknown id is 404, which callers may treat as
// already satisfied.
func (h *BlockHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "block id is required"})
	}
	if err := h.Blocks.DeleteBlock(c.Request().Context(), id); err != nil {
		if errors.Is(err, model.ErrBlockNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule block not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete block"})
	}
	return c.NoContent(http.StatusNoContent)
}
