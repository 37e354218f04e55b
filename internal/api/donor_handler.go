package api

import (
	"net/http"
	"strconv"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/donor"
	"github.com/fundlane/backend/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type DonorHandler struct {
	service *donor.Service
	query   *donor.QueryService
}

func NewDonorHandler(service *donor.Service, query *donor.QueryService) *DonorHandler {
	return &DonorHandler{service: service, query: query}
}

func donorID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid donor id")
	}
	return id, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			return value
		}
	}
	return fallback
}

func (h *DonorHandler) List(w http.ResponseWriter, r *http.Request) {
	params := donor.ListParams{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 10),
		Search: r.URL.Query().Get("search"),
		SortBy: r.URL.Query().Get("sortBy"),
		Order:  r.URL.Query().Get("order"),
		Status: models.DonorStatus(r.URL.Query().Get("status")),
	}
	if params.Status != "" && !params.Status.Valid() {
		writeError(w, apperr.Validation("invalid status filter"), "Failed to retrieve donors")
		return
	}

	page, err := h.query.List(r.Context(), params)
	if err != nil {
		writeError(w, err, "Failed to retrieve donors")
		return
	}
	writeJSON(w, http.StatusOK, "Donors retrieved successfully", page)
}

func (h *DonorHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := donorID(r)
	if err != nil {
		writeError(w, err, "Failed to retrieve donor")
		return
	}

	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to retrieve donor")
		return
	}
	writeJSON(w, http.StatusOK, "Donor retrieved successfully", d)
}

func (h *DonorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req donor.CreateDonorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "Failed to create donor")
		return
	}

	d, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, err, "Failed to create donor")
		return
	}
	writeJSON(w, http.StatusCreated, "Donor created successfully", d)
}

func (h *DonorHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := donorID(r)
	if err != nil {
		writeError(w, err, "Failed to update donor")
		return
	}

	var upd donor.DonorUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err, "Failed to update donor")
		return
	}

	d, err := h.service.Update(r.Context(), id, upd)
	if err != nil {
		writeError(w, err, "Failed to update donor")
		return
	}
	writeJSON(w, http.StatusOK, "Donor updated successfully", d)
}

func (h *DonorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := donorID(r)
	if err != nil {
		writeError(w, err, "Failed to delete donor")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete donor")
		return
	}
	writeJSON(w, http.StatusOK, "Donor deleted successfully", nil)
}

func (h *DonorHandler) UpdateCustomField(w http.ResponseWriter, r *http.Request) {
	id, err := donorID(r)
	if err != nil {
		writeError(w, err, "Failed to update custom field")
		return
	}

	var body struct {
		ColumnKey string `json:"column_key"`
		Value     any    `json:"value"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err, "Failed to update custom field")
		return
	}

	value, err := h.service.UpdateCustomField(r.Context(), id, body.ColumnKey, body.Value)
	if err != nil {
		writeError(w, err, "Failed to update custom field")
		return
	}
	writeJSON(w, http.StatusOK, "Custom field updated successfully", value)
}

func (h *DonorHandler) Filter(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Filters []donor.FilterClause `json:"filters"`
		Page    int                  `json:"page"`
		Limit   int                  `json:"limit"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err, "Failed to filter donors")
		return
	}

	page, err := h.query.Query(r.Context(), body.Filters, nil, body.Page, body.Limit)
	if err != nil {
		writeError(w, err, "Failed to filter donors")
		return
	}
	writeJSON(w, http.StatusOK, "Filtered donors retrieved successfully", map[string]any{
		"donors":         page.Donors,
		"pagination":     page.Pagination,
		"appliedFilters": body.Filters,
	})
}

func (h *DonorHandler) GroupBy(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Field string `json:"field"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err, "Failed to group donors")
		return
	}

	groups, err := h.query.GroupBy(r.Context(), body.Field)
	if err != nil {
		writeError(w, err, "Failed to group donors")
		return
	}
	writeJSON(w, http.StatusOK, "Donors grouped successfully", map[string]any{
		"field":  body.Field,
		"groups": groups,
	})
}

func (h *DonorHandler) Sort(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Field string `json:"field"`
		Order string `json:"order"`
		Page  int    `json:"page"`
		Limit int    `json:"limit"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err, "Failed to sort donors")
		return
	}
	if body.Field == "" {
		writeError(w, apperr.Validation("field is required for sorting"), "Failed to sort donors")
		return
	}

	page, err := h.query.Query(r.Context(), nil, &donor.Sort{Field: body.Field, Order: body.Order}, body.Page, body.Limit)
	if err != nil {
		writeError(w, err, "Failed to sort donors")
		return
	}
	writeJSON(w, http.StatusOK, "Donors sorted successfully", map[string]any{
		"donors":     page.Donors,
		"pagination": page.Pagination,
		"sort":       map[string]string{"field": body.Field, "order": body.Order},
	})
}

func (h *DonorHandler) AttachFile(w http.ResponseWriter, r *http.Request) {
	id, err := donorID(r)
	if err != nil {
		writeError(w, err, "Failed to attach file")
		return
	}

	var file models.FileMetadata
	if err := decodeJSON(r, &file); err != nil {
		writeError(w, err, "Failed to attach file")
		return
	}

	saved, err := h.service.AttachFile(r.Context(), id, file)
	if err != nil {
		writeError(w, err, "Failed to attach file")
		return
	}
	writeJSON(w, http.StatusCreated, "File uploaded successfully", saved)
}

func (h *DonorHandler) Files(w http.ResponseWriter, r *http.Request) {
	id, err := donorID(r)
	if err != nil {
		writeError(w, err, "Failed to retrieve files")
		return
	}

	files, err := h.service.Files(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to retrieve files")
		return
	}
	writeJSON(w, http.StatusOK, "Files retrieved successfully", files)
}
