package http

import (
	"encoding/json"
	"net/http"

	"github.com/millhouse-dev/taskgate/internal/gate/domain"
	"github.com/millhouse-dev/taskgate/internal/gate/service"
	"github.com/millhouse-dev/taskgate/pkg/gatesdk"
	"github.com/millhouse-dev/taskgate/pkg/httpx"
	"github.com/millhouse-dev/taskgate/pkg/jwtx"
)

// AuthHandler serves the unlock endpoints.
type AuthHandler struct {
	SessionService *service.SessionService
	AuthService    *service.AuthService
	Signer         *jwtx.Signer
}

// HandleBiometric runs a biometric challenge and opens a session on success.
//
//	@Summary		Authenticate with biometrics
//	@Description	Prompts the OS biometric sensor. Falls back to nothing; the
//	@Description	client should offer the PIN endpoint when this fails.
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	gatesdk.AuthResponse
//	@Failure		401	{object}	gatesdk.AuthResponse
//	@Failure		503	{object}	gatesdk.AuthResponse
//	@Router			/v1/auth/biometric [post]
func (h *AuthHandler) HandleBiometric(w http.ResponseWriter, r *http.Request) {
	result := h.SessionService.Authenticate(r.Context())
	h.writeResult(w, r, result)
}

// HandlePIN sets up or verifies the PIN and opens a session on success.
//
//	@Summary		Authenticate with PIN
//	@Description	Verifies the PIN, or stores it as the new PIN on first use.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		gatesdk.PINRequest	true	"PIN"
//	@Success		200		{object}	gatesdk.AuthResponse
//	@Failure		400		{object}	gatesdk.AuthResponse
//	@Failure		401		{object}	gatesdk.AuthResponse
//	@Failure		503		{object}	gatesdk.AuthResponse
//	@Router			/v1/auth/pin [post]
func (h *AuthHandler) HandlePIN(w http.ResponseWriter, r *http.Request) {
	var req gatesdk.PINRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "The request body must be valid JSON.")
		return
	}

	result := h.SessionService.AuthenticateWithPIN(r.Context(), req.PIN)
	h.writeResult(w, r, result)
}

func (h *AuthHandler) writeResult(w http.ResponseWriter, r *http.Request, result domain.AuthResult) {
	resp := gatesdk.AuthResponse{
		Success: result.Success,
		Error:   string(result.Error),
	}

	if result.Success {
		remaining := h.AuthService.SessionRemaining(r.Context())
		token, err := h.Signer.Sign("local-user", remaining)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError,
				"server_error", "Could not issue a session token.")
			return
		}
		resp.Token = token
		resp.ExpiresInMs = remaining.Milliseconds()
		httpx.WriteJSON(w, http.StatusOK, resp)
		return
	}

	httpx.WriteJSON(w, statusForError(result.Error), resp)
}

func statusForError(code domain.ErrorCode) int {
	switch code {
	case domain.ErrCodePINTooShort:
		return http.StatusBadRequest
	case domain.ErrCodePINRequired, domain.ErrCodePINIncorrect:
		return http.StatusUnauthorized
	default:
		return http.StatusServiceUnavailable
	}
}
