package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"student-feedback/internal/export"
	"student-feedback/internal/models"
	"student-feedback/internal/notify"
	"student-feedback/internal/repository"
	"student-feedback/internal/view"
	apperrors "student-feedback/pkg/errors"
)

// defaultRating is the star selection the form starts with.
const defaultRating = 5

type FeedbackHandler struct {
	store    *repository.ResponseStore
	notifier notify.Notifier
	log      *zap.Logger
	now      func() time.Time
	location func() *time.Location
}

func NewFeedbackHandler(store *repository.ResponseStore, notifier notify.Notifier, log *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		store:    store,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		location: func() *time.Location { return time.Local },
	}
}

type SubmitFeedbackRequest struct {
	StudentID string `json:"studentId"`
	Rating    *int   `json:"rating"`
}

type SortModeRequest struct {
	SortMode string `json:"sortMode"`
}

type ListResponse struct {
	SortMode models.SortMode         `json:"sortMode"`
	Count    int                     `json:"count"`
	Feedback []models.FeedbackRecord `json:"feedback"`
}

// --- POST /feedback ---

func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	rating := defaultRating
	if req.Rating != nil {
		rating = *req.Rating
	}

	record, err := h.store.Upsert(r.Context(), req.StudentID, rating, h.now())
	if err != nil {
		h.writeStoreError(w, err, "failed to save rating")
		return
	}

	h.publish(r, notify.MsgRatingSaved)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  notify.MsgRatingSaved,
		"feedback": record,
	})
}

// --- GET /feedback ---

func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	mode := h.store.SortMode()
	if q := r.URL.Query().Get("sort"); q != "" {
		parsed, err := models.ParseSortMode(q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		mode = parsed
	}

	feedback := view.Derive(h.store.Records(), mode)
	writeJSON(w, http.StatusOK, ListResponse{
		SortMode: mode,
		Count:    len(feedback),
		Feedback: feedback,
	})
}

// --- PUT /preferences/sort ---

func (h *FeedbackHandler) SetSortMode(w http.ResponseWriter, r *http.Request) {
	var req SortModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	mode, err := models.ParseSortMode(req.SortMode)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if err := h.store.SetSortMode(r.Context(), mode); err != nil {
		h.writeStoreError(w, err, "failed to save sort mode")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sortMode": mode})
}

// --- DELETE /feedback?confirm=true ---

func (h *FeedbackHandler) ResetFeedback(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reset must be confirmed with confirm=true"})
		return
	}

	cleared, err := h.store.ClearAll(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "failed to reset feedback")
		return
	}

	if cleared > 0 {
		h.publish(r, notify.MsgAllDeleted)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"cleared": cleared})
}

// --- GET /feedback/export ---

func (h *FeedbackHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	dialect := export.Legacy
	if r.URL.Query().Get("dialect") == "quoted" {
		dialect = export.Quoted
	}

	body, err := export.SerializeDialect(h.store.Sorted(), h.location(), dialect)
	if errors.Is(err, apperrors.ErrEmptyInput) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		h.log.Error("failed to serialize feedback", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to export feedback"})
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		h.log.Warn("failed to write export", zap.Error(err))
		return
	}

	h.publish(r, notify.MsgCSVSaved)
}

// --- Helpers ---

func (h *FeedbackHandler) publish(r *http.Request, message string) {
	if err := h.notifier.Publish(r.Context(), message); err != nil {
		h.log.Warn("failed to publish notification", zap.String("message", message), zap.Error(err))
	}
}

func (h *FeedbackHandler) writeStoreError(w http.ResponseWriter, err error, message string) {
	if apperrors.IsValidation(err) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	h.log.Error(message, zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
