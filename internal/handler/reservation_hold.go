package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Jay210305/Fulbo-sub001/internal/middleware"
	"github.com/Jay210305/Fulbo-sub001/internal/model"
	"github.com/Jay210305/Fulbo-sub001/internal/queue"
	queue_publisher "github.com/Jay210305/Fulbo-sub001/internal/service"
)

// HoldService is the slice of the hold manager the handlers need.
type HoldService interface {
	RequestHold(ctx context.Context, ownerRef, fieldID string, iv model.Interval) (model.Hold, error)
	Get(ctx context.Context, ownerRef, holdID string) (model.Hold, error)
	RemainingSeconds(h model.Hold) int
	Confirm(ctx context.Context, ownerRef, holdID string) (model.Commitment, error)
	Cancel(ctx context.Context, ownerRef, holdID string) error
}

// HoldHandler serves the shopper checkout's reservation-hold endpoints. The
// hold owner is always the authenticated JWT subject; a hold id in the path
// only selects which hold, it never grants access to another owner's hold.
type HoldHandler struct {
	Holds HoldService
}

// NewHoldHandler constructs a HoldHandler.
func NewHoldHandler(holds HoldService) *HoldHandler {
	if holds == nil {
		panic("nil HoldService passed to NewHoldHandler")
	}
	return &HoldHandler{Holds: holds}
}

type holdResponse struct {
	HoldID           string `json:"holdId"`
	FieldID          string `json:"fieldId"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	ExpiresAt        string `json:"expiresAt"`
	RemainingSeconds int    `json:"remainingSeconds"`
}

func (h *HoldHandler) toHoldResponse(hold model.Hold) holdResponse {
	return holdResponse{
		HoldID:           hold.ID,
		FieldID:          hold.FieldID,
		StartTime:        hold.Interval.Start.Format(time.RFC3339),
		EndTime:          hold.Interval.End.Format(time.RFC3339),
		ExpiresAt:        hold.ExpiresAt.Format(time.RFC3339),
		RemainingSeconds: h.Holds.RemainingSeconds(hold),
	}
}

// Request handles POST /reservation-holds. Confirmed bookings and blocks
// reject the request with 409; other shoppers' holds do not. Overlapping
// holds race to confirm, and the durable store decides the winner there.
// Requesting a new hold replaces the caller's previous one.
func (h *HoldHandler) Request(c echo.Context) error {
	ownerRef := middleware.OwnerRef(c)
	if ownerRef == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		FieldID   string `json:"fieldId"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
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

	hold, err := h.Holds.RequestHold(c.Request().Context(), ownerRef, body.FieldID,
		model.Interval{Start: start.UTC(), End: end.UTC()})
	if err != nil {
		if ce, ok := asConflict(err); ok {
			return writeConflict(c, ce)
		}
		switch {
		case errors.Is(err, model.ErrInvalidInterval):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "endTime must be after startTime"})
		case errors.Is(err, model.ErrFieldNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create hold"})
	}
	return c.JSON(http.StatusCreated, h.toHoldResponse(hold))
}

// Get handles GET /reservation-holds/:id, feeding the checkout countdown.
// A lapsed hold answers 410 and is discarded.
func (h *HoldHandler) Get(c echo.Context) error {
	ownerRef := middleware.OwnerRef(c)
	if ownerRef == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hold, err := h.Holds.Get(c.Request().Context(), ownerRef, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrHoldNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hold not found"})
		case errors.Is(err, model.ErrHoldExpired):
			return c.JSON(http.StatusGone, echo.Map{"error": "hold expired"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hold"})
	}
	return c.JSON(http.StatusOK, h.toHoldResponse(hold))
}

// Confirm handles POST /reservation-holds/:id/confirm. Succeeds only while
// the hold is active and unexpired; the conflict re-check inside the store
// transaction turns a lost race into a 409 rather than a double booking.
func (h *HoldHandler) Confirm(c echo.Context) error {
	ownerRef := middleware.OwnerRef(c)
	if ownerRef == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	booking, err := h.Holds.Confirm(c.Request().Context(), ownerRef, c.Param("id"))
	if err != nil {
		if ce, ok := asConflict(err); ok {
			return writeConflict(c, ce)
		}
		switch {
		case errors.Is(err, model.ErrHoldNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hold not found"})
		case errors.Is(err, model.ErrHoldExpired):
			return c.JSON(http.StatusGone, echo.Map{"error": "hold expired"})
		case errors.Is(err, model.ErrFieldNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm hold"})
	}

	// Best-effort notification; payment capture and messaging listen here.
	go func(b model.Commitment) {
		_ = queue_publisher.PublishBookingConfirmed(context.Background(), queue.BookingConfirmedEvent{
			BookingID:   b.ID,
			FieldID:     b.FieldID,
			OwnerRef:    b.OwnerRef,
			StartsAt:    b.Interval.Start.Format(time.RFC3339),
			EndsAt:      b.Interval.End.Format(time.RFC3339),
			ConfirmedAt: b.CreatedAt.Format(time.RFC3339),
		})
	}(booking)

	return c.JSON(http.StatusCreated, echo.Map{"bookingId": booking.ID})
}

// Cancel handles DELETE /reservation-holds/:id. Always 204: cancelling a
// hold that no longer exists is already the desired end state.
func (h *HoldHandler) Cancel(c echo.Context) error {
	ownerRef := middleware.OwnerRef(c)
	if ownerRef == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Holds.Cancel(c.Request().Context(), ownerRef, c.Param("id")); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel hold"})
	}
	return c.NoContent(http.StatusNoContent)
}
