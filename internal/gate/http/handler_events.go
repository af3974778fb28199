package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/millhouse-dev/taskgate/internal/gate/store"
	"github.com/millhouse-dev/taskgate/pkg/gatesdk"
	"github.com/millhouse-dev/taskgate/pkg/httpx"
)

// EventsHandler serves the authentication audit trail.
type EventsHandler struct {
	Store store.Store
}

// ServeHTTP lists recent authentication events, newest first.
//
//	@Summary		Recent authentication events
//	@Description	Lists the most recent unlock attempts, newest first.
//	@Tags			session
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum events to return"	default(50)
//	@Success		200		{object}	gatesdk.EventsResponse
//	@Failure		401		{object}	gatesdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/events [get]
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpx.WriteError(w, http.StatusBadRequest,
				"invalid_request", "The limit parameter must be a non-negative integer.")
			return
		}
		limit = n
	}

	events, err := h.Store.AuthEvents().ListRecent(r.Context(), limit)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "Could not list authentication events.")
		return
	}

	out := make([]gatesdk.Event, 0, len(events))
	for _, ev := range events {
		out = append(out, gatesdk.Event{
			ID:        ev.ID,
			Method:    ev.Method,
			Success:   ev.Success,
			Error:     string(ev.Error),
			CreatedAt: ev.CreatedAt.Format(time.RFC3339Nano),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, gatesdk.EventsResponse{Events: out})
}
