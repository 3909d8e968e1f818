package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"p9e.in/leakwatch/logger"
	"p9e.in/leakwatch/models"
)

type commentRequest struct {
	Content *string `json:"content"`
	UserID  *int    `json:"userId"`
}

// GetComments godoc
// @Summary List a leak's comments, oldest first
// @Param id path int true "leak id"
// @Success 200 {array} models.Comment
// @Failure 400 {object} messageResponse
// @Router /api/leaks/{id}/comments [get]
func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	leakID, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid leak ID")
		return
	}

	comments, err := h.store.GetCommentsByLeakID(r.Context(), leakID)
	if err != nil {
		logger.WithContext(r.Context(), h.log).Error("fetch comments", zap.Int("leak_id", leakID), zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch comments")
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

// CreateComment godoc
//
// The parent leak must exist. A body that fails schema validation is still
// inserted, with content defaulting to "".
//
// @Summary Comment on a leak
// @Param id path int true "leak id"
// @Success 201 {object} models.Comment
// @Failure 400,404 {object} messageResponse
// @Router /api/leaks/{id}/comments [post]
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.WithContext(ctx, h.log)

	leakID, ok := pathID(r, "id")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid leak ID")
		return
	}

	leak, err := h.store.GetLeak(ctx, leakID)
	if err != nil {
		log.Error("fetch leak for comment", zap.Int("leak_id", leakID), zap.Error(err))
		writeMessage(w, http.StatusBadRequest, "Failed to create comment")
		return
	}
	if leak == nil {
		writeMessage(w, http.StatusNotFound, "Leak not found")
		return
	}

	var req commentRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to create comment")
		return
	}

	in := models.CommentInput{LeakID: leakID, UserID: req.UserID, Content: req.Content}
	if verr := h.validate.Struct(in); verr != nil {
		log.Warn("comment payload failed schema validation, inserting unvalidated payload", zap.Error(verr))
	}

	comment, err := h.store.CreateComment(ctx, in)
	if err != nil {
		log.Error("create comment", zap.Int("leak_id", leakID), zap.Error(err))
		writeMessage(w, http.StatusBadRequest, "Failed to create comment")
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}
