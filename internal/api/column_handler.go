package api

import (
	"encoding/json"
	"net/http"

	"github.com/fundlane/backend/internal/column"
	"github.com/fundlane/backend/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ColumnHandler struct {
	registry  column.Registry
	lifecycle *column.Lifecycle
}

func NewColumnHandler(registry column.Registry, lifecycle *column.Lifecycle) *ColumnHandler {
	return &ColumnHandler{registry: registry, lifecycle: lifecycle}
}

func (h *ColumnHandler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"

	columns, err := h.registry.List(r.Context(), includeInactive)
	if err != nil {
		writeError(w, err, "Failed to retrieve columns")
		return
	}
	writeJSON(w, http.StatusOK, "Columns retrieved successfully", columns)
}

func (h *ColumnHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	def, err := h.registry.GetByKey(r.Context(), key)
	if err != nil {
		writeError(w, err, "Failed to retrieve column")
		return
	}
	writeJSON(w, http.StatusOK, "Column retrieved successfully", def)
}

func (h *ColumnHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req column.CreateColumnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "Failed to create column")
		return
	}

	def, err := h.lifecycle.Create(r.Context(), req)
	if err != nil {
		writeError(w, err, "Failed to create column")
		return
	}
	writeJSON(w, http.StatusCreated, "Column created successfully", def)
}

func (h *ColumnHandler) Update(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var upd models.ColumnUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err, "Failed to update column")
		return
	}

	def, err := h.registry.Update(r.Context(), key, upd)
	if err != nil {
		writeError(w, err, "Failed to update column")
		return
	}
	writeJSON(w, http.StatusOK, "Column updated successfully", def)
}

func (h *ColumnHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	permanent := r.URL.Query().Get("permanent") == "true"

	def, err := h.lifecycle.Delete(r.Context(), key, permanent)
	if err != nil {
		writeError(w, err, "Failed to delete column")
		return
	}

	message := "Column deactivated successfully"
	if permanent {
		message = "Column permanently deleted"
	}
	writeJSON(w, http.StatusOK, message, def)
}

func (h *ColumnHandler) Restore(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	def, err := h.lifecycle.Restore(r.Context(), key)
	if err != nil {
		writeError(w, err, "Failed to restore column")
		return
	}
	writeJSON(w, http.StatusOK, "Column restored successfully", def)
}

func (h *ColumnHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ColumnOrders []column.ReorderItem `json:"columnOrders"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err, "Failed to reorder columns")
		return
	}

	result, err := h.lifecycle.Reorder(r.Context(), body.ColumnOrders)
	if err != nil {
		writeError(w, err, "Failed to reorder columns")
		return
	}

	columns, err := h.registry.List(r.Context(), false)
	if err != nil {
		writeError(w, err, "Failed to reorder columns")
		return
	}
	writeJSON(w, http.StatusOK, "Columns reordered successfully", map[string]any{
		"columns": columns,
		"results": result,
	})
}

func (h *ColumnHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	def, err := h.lifecycle.Duplicate(r.Context(), key)
	if err != nil {
		writeError(w, err, "Failed to duplicate column")
		return
	}
	writeJSON(w, http.StatusCreated, "Column duplicated successfully", def)
}

func (h *ColumnHandler) Retype(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var body struct {
		Type    models.ColumnType `json:"type"`
		Options *json.RawMessage  `json:"options,omitempty"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err, "Failed to change column type")
		return
	}

	def, err := h.lifecycle.Retype(r.Context(), key, body.Type, body.Options)
	if err != nil {
		writeError(w, err, "Failed to change column type")
		return
	}
	writeJSON(w, http.StatusOK, "Column type updated successfully", def)
}

func (h *ColumnHandler) InsertRight(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req column.CreateColumnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "Failed to insert column")
		return
	}

	def, err := h.lifecycle.InsertRight(r.Context(), key, req)
	if err != nil {
		writeError(w, err, "Failed to insert column")
		return
	}
	writeJSON(w, http.StatusCreated, "Column inserted successfully", def)
}

func (h *ColumnHandler) Autofill(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var body struct {
		Value    any         `json:"value"`
		DonorIDs []uuid.UUID `json:"donorIds"`
		All      bool        `json:"all"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err, "Failed to autofill column")
		return
	}

	targets := body.DonorIDs
	if body.All {
		targets = nil
	} else if targets == nil {
		targets = []uuid.UUID{}
	}

	result, err := h.lifecycle.Autofill(r.Context(), key, body.Value, targets)
	if err != nil {
		writeError(w, err, "Failed to autofill column")
		return
	}
	writeJSON(w, http.StatusOK, "Column autofilled successfully", result)
}
