package api

import (
	"net/http"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/template"
	"github.com/gorilla/mux"
)

type TemplateHandler struct {
	templates *template.Repository
}

func NewTemplateHandler(templates *template.Repository) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.templates.ListAll(r.Context())
	if err != nil {
		writeError(w, err, "Failed to retrieve templates")
		return
	}
	writeJSON(w, http.StatusOK, "Templates retrieved successfully", results)
}

func (h *TemplateHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	results, err := h.templates.ListByCategory(r.Context(), mux.Vars(r)["category"])
	if err != nil {
		writeError(w, err, "Failed to retrieve templates")
		return
	}
	writeJSON(w, http.StatusOK, "Templates retrieved successfully", results)
}

func (h *TemplateHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeError(w, apperr.Validation("search query is required"), "Failed to search templates")
		return
	}

	results, err := h.templates.Search(r.Context(), term)
	if err != nil {
		writeError(w, err, "Failed to search templates")
		return
	}
	writeJSON(w, http.StatusOK, "Templates retrieved successfully", results)
}

func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.templates.GetByTemplateID(r.Context(), mux.Vars(r)["templateId"])
	if err != nil {
		writeError(w, err, "Failed to retrieve template")
		return
	}
	writeJSON(w, http.StatusOK, "Template retrieved successfully", t)
}

func (h *TemplateHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "Categories retrieved successfully", h.templates.Categories())
}

func (h *TemplateHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID    *string `json:"userId"`
		BoardName string  `json:"boardName"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err, "Failed to create board from template")
		return
	}

	b, err := h.templates.CreateBoard(r.Context(), mux.Vars(r)["templateId"], body.UserID, body.BoardName)
	if err != nil {
		writeError(w, err, "Failed to create board from template")
		return
	}
	writeJSON(w, http.StatusCreated, "Board created from template successfully", b)
}
