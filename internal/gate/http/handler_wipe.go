package http

import (
	"net/http"

	"github.com/millhouse-dev/taskgate/internal/gate/service"
	"github.com/millhouse-dev/taskgate/internal/gate/store"
	"github.com/millhouse-dev/taskgate/pkg/httpx"
)

// WipeHandler clears every stored credential and locks the session.
type WipeHandler struct {
	Store          store.Store
	SessionService *service.SessionService
}

// ServeHTTP removes the PIN, the session marker and the stored items.
//
//	@Summary		Wipe stored credentials
//	@Description	Deletes the PIN, session marker and stored items, then locks.
//	@Description	The next PIN attempt becomes a fresh setup.
//	@Tags			session
//	@Success		204
//	@Failure		401	{object}	gatesdk.ErrorResponse
//	@Security		BearerAuth
//	@Router			/v1/wipe [post]
func (h *WipeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Credentials().Clear(r.Context()); err != nil {
		httpx.WriteError(w, http.StatusInternalServerError,
			"server_error", "Could not clear the credential store.")
		return
	}

	h.SessionService.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
