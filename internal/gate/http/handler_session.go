package http

import (
	"net/http"

	"github.com/millhouse-dev/taskgate/internal/gate/service"
	"github.com/millhouse-dev/taskgate/pkg/gatesdk"
	"github.com/millhouse-dev/taskgate/pkg/httpx"
)

// SessionHandler serves the session snapshot and logout endpoints.
type SessionHandler struct {
	SessionService *service.SessionService
	AuthService    *service.AuthService
}

// HandleSnapshot returns the current presentation state of the session.
//
//	@Summary		Session snapshot
//	@Description	Current lock state, intended for 1s polling by the UI.
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	gatesdk.SessionResponse
//	@Router			/v1/session [get]
func (h *SessionHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	state := h.SessionService.Snapshot()

	httpx.WriteJSON(w, http.StatusOK, gatesdk.SessionResponse{
		Authenticated:      state.Authenticated,
		Authenticating:     state.Authenticating,
		RequiresPIN:        state.RequiresPIN,
		Error:              string(state.Error),
		RemainingMs:        state.RemainingMs,
		PINSet:             h.AuthService.IsPINSet(r.Context()),
		BiometricAvailable: h.AuthService.IsAvailable(r.Context()),
	})
}

// HandleLogout ends the session immediately.
//
//	@Summary		Log out
//	@Description	Clears the session marker. Safe to call when already locked.
//	@Tags			session
//	@Success		204
//	@Router			/v1/logout [post]
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.SessionService.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
