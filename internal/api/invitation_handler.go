package api

import (
	"net/http"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/invitation"
	"github.com/gorilla/mux"
)

type InvitationHandler struct {
	invitations *invitation.Service
}

func NewInvitationHandler(invitations *invitation.Service) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

func (h *InvitationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req invitation.SendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "Failed to send invitations")
		return
	}

	result, err := h.invitations.Send(r.Context(), req)
	if err != nil {
		writeError(w, err, "Failed to send invitations")
		return
	}
	writeJSON(w, http.StatusOK, "Invitations processed", result)
}

func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	if token == "" {
		writeError(w, apperr.Validation("invitation token is required"), "Failed to accept invitation")
		return
	}

	inv, err := h.invitations.Accept(r.Context(), token)
	if err != nil {
		writeError(w, err, "Failed to accept invitation")
		return
	}
	writeJSON(w, http.StatusOK, "Invitation accepted successfully", inv)
}
