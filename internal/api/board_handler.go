package api

import (
	"net/http"

	"github.com/fundlane/backend/internal/apperr"
	"github.com/fundlane/backend/internal/board"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type BoardHandler struct {
	boards *board.Repository
}

func NewBoardHandler(boards *board.Repository) *BoardHandler {
	return &BoardHandler{boards: boards}
}

func boardID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid board id")
	}
	return id, nil
}

func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	results, err := h.boards.ListAll(r.Context())
	if err != nil {
		writeError(w, err, "Failed to retrieve boards")
		return
	}
	writeJSON(w, http.StatusOK, "Boards retrieved successfully", results)
}

func (h *BoardHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if userID == "" {
		writeError(w, apperr.Validation("user id is required"), "Failed to retrieve boards")
		return
	}

	results, err := h.boards.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to retrieve boards")
		return
	}
	writeJSON(w, http.StatusOK, "Boards retrieved successfully", results)
}

func (h *BoardHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		writeError(w, apperr.Validation("search query is required"), "Failed to search boards")
		return
	}

	results, err := h.boards.Search(r.Context(), term)
	if err != nil {
		writeError(w, err, "Failed to search boards")
		return
	}
	writeJSON(w, http.StatusOK, "Boards retrieved successfully", results)
}

func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := boardID(r)
	if err != nil {
		writeError(w, err, "Failed to retrieve board")
		return
	}

	b, err := h.boards.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to retrieve board")
		return
	}
	writeJSON(w, http.StatusOK, "Board retrieved successfully", b)
}

func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req board.CreateBoardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "Failed to create board")
		return
	}

	b, err := h.boards.Create(r.Context(), req)
	if err != nil {
		writeError(w, err, "Failed to create board")
		return
	}
	writeJSON(w, http.StatusCreated, "Board created successfully", b)
}

func (h *BoardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := boardID(r)
	if err != nil {
		writeError(w, err, "Failed to update board")
		return
	}

	var req board.UpdateBoardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, "Failed to update board")
		return
	}

	b, err := h.boards.Update(r.Context(), id, req)
	if err != nil {
		writeError(w, err, "Failed to update board")
		return
	}
	writeJSON(w, http.StatusOK, "Board updated successfully", b)
}

func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := boardID(r)
	if err != nil {
		writeError(w, err, "Failed to delete board")
		return
	}

	if err := h.boards.SoftDelete(r.Context(), id); err != nil {
		writeError(w, err, "Failed to delete board")
		return
	}
	writeJSON(w, http.StatusOK, "Board deleted successfully", nil)
}

func (h *BoardHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := boardID(r)
	if err != nil {
		writeError(w, err, "Failed to add item")
		return
	}

	var body struct {
		Title string         `json:"title"`
		Group string         `json:"group"`
		Data  map[string]any `json:"data"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err, "Failed to add item")
		return
	}

	b, err := h.boards.AddItem(r.Context(), id, body.Title, body.Group, body.Data)
	if err != nil {
		writeError(w, err, "Failed to add item")
		return
	}
	writeJSON(w, http.StatusCreated, "Item added successfully", b)
}

func (h *BoardHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := boardID(r)
	if err != nil {
		writeError(w, err, "Failed to update item")
		return
	}
	itemID, err := uuid.Parse(mux.Vars(r)["itemId"])
	if err != nil {
		writeError(w, apperr.Validation("invalid item id"), "Failed to update item")
		return
	}

	var upd board.ItemUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err, "Failed to update item")
		return
	}

	b, err := h.boards.UpdateItem(r.Context(), id, itemID, upd)
	if err != nil {
		writeError(w, err, "Failed to update item")
		return
	}
	writeJSON(w, http.StatusOK, "Item updated successfully", b)
}

func (h *BoardHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := boardID(r)
	if err != nil {
		writeError(w, err, "Failed to delete item")
		return
	}
	itemID, err := uuid.Parse(mux.Vars(r)["itemId"])
	if err != nil {
		writeError(w, apperr.Validation("invalid item id"), "Failed to delete item")
		return
	}

	b, err := h.boards.DeleteItem(r.Context(), id, itemID)
	if err != nil {
		writeError(w, err, "Failed to delete item")
		return
	}
	writeJSON(w, http.StatusOK, "Item deleted successfully", b)
}
