// Package handler exposes the reservation engine over HTTP. Handlers bind
// JSON, delegate to the availability managers, and translate sentinel errors
// and conflict reports into status codes; no interval logic lives here.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Jay210305/Fulbo-sub001/internal/model"
)

// conflictEntryJSON is one commitment blocking a requested interval.
type conflictEntryJSON struct {
	CommitmentID string `json:"commitmentId"`
	OwnerRef     string `json:"ownerRef"`
	StartTime    string `json:"startTime"`
	EndTime      string `json:"endTime"`
}

// conflictsJSON partitions conflicting commitments so the UI can offer
// "cancel these bookings" separately from "a block already covers this".
// Blocks are reported alongside bookings; an unreported overlap category
// would leave the caller guessing why the request failed.
type conflictsJSON struct {
	ConfirmedBookings []conflictEntryJSON `json:"confirmedBookings"`
	PendingBookings   []conflictEntryJSON `json:"pendingBookings"`
	Blocks            []conflictEntryJSON `json:"blocks"`
}

func toConflictEntries(entries []model.ConflictEntry) []conflictEntryJSON {
	out := make([]conflictEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, conflictEntryJSON{
			CommitmentID: e.CommitmentID,
			OwnerRef:     e.OwnerRef,
			StartTime:    e.Interval.Start.Format(time.RFC3339),
			EndTime:      e.Interval.End.Format(time.RFC3339),
		})
	}
	return out
}

// writeConflict renders a 409 carrying the full partitioned conflict list.
// Every conflict response names the commitments in the way, never a bare
// "failed".
func writeConflict(c echo.Context, ce *model.ConflictError) error {
	return c.JSON(http.StatusConflict, echo.Map{
		"error": ce.Error(),
		"conflicts": conflictsJSON{
			ConfirmedBookings: toConflictEntries(ce.Report.ConfirmedBookings),
			PendingBookings:   toConflictEntries(ce.Report.PendingBookings),
			Blocks:            toConflictEntries(ce.Report.Blocks),
		},
	})
}

// asConflict unwraps a *model.ConflictError if err is one.
func asConflict(err error) (*model.ConflictError, bool) {
	var ce *model.ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// parseTimeParam parses an RFC3339 timestamp from a request field.
func parseTimeParam(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
