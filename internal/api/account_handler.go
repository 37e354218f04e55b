package api

import (
	"net/http"

	"github.com/fundlane/backend/internal/account"
	"github.com/fundlane/backend/internal/apperr"
)

type AccountHandler struct {
	accounts *account.Repository
}

func NewAccountHandler(accounts *account.Repository) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func (h *AccountHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req account.SaveAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "Failed to save account")
		return
	}

	a, err := h.accounts.Save(r.Context(), req)
	if err != nil {
		writeError(w, err, "Failed to save account")
		return
	}
	writeJSON(w, http.StatusOK, "Account saved successfully", a)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, apperr.Validation("email is required"), "Failed to retrieve account")
		return
	}

	a, err := h.accounts.GetByEmail(r.Context(), email)
	if err != nil {
		writeError(w, err, "Failed to retrieve account")
		return
	}
	writeJSON(w, http.StatusOK, "Account retrieved successfully", a)
}

func (h *AccountHandler) SaveEmailLead(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err, "Failed to save email")
		return
	}

	lead, existed, err := h.accounts.SaveEmailLead(r.Context(), body.Email)
	if err != nil {
		writeError(w, err, "Failed to save email")
		return
	}

	message := "Email saved successfully"
	status := http.StatusCreated
	if existed {
		message = "Email already registered"
		status = http.StatusOK
	}
	writeJSON(w, status, message, lead)
}
