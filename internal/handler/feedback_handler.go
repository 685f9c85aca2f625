package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cpark026/MovieNight/internal/models"
	"github.com/cpark026/MovieNight/internal/service"

	"github.com/go-chi/chi/v5"
)

type FeedbackHandler struct {
	svc *service.FeedbackService
}

func NewFeedbackHandler(s *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: s}
}

type dislikeRequest struct {
	MovieID        int     `json:"movieId"`
	MovieTitle     string  `json:"movieTitle"`
	SetID          string  `json:"recommendationSetId"`
	PredictedScore float64 `json:"predictedScore"`
	Reason         string  `json:"reason"`
	FeedbackText   string  `json:"feedbackText"`
}

// @Summary Registrar dislike de una recomendación
// @Tags feedback
// @Accept json
// @Produce json
// @Param body body dislikeRequest true "dislike"
// @Success 201 {object} map[string]interface{}
// @Router /me/dislikes [post]
func (h *FeedbackHandler) PostDislike(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req dislikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	reason := models.ReasonNotInterested
	if req.Reason != "" {
		parsed, ok := models.ParseDislikeReason(req.Reason)
		if !ok {
			http.Error(w, "reason inválido", 400)
			return
		}
		reason = parsed
	}

	dislike, adjustments, err := h.svc.RecordDislike(r.Context(), service.DislikeRequest{
		UserID:         UserIDFromContext(r.Context()),
		MovieID:        req.MovieID,
		MovieTitle:     req.MovieTitle,
		SetID:          req.SetID,
		PredictedScore: req.PredictedScore,
		Reason:         reason,
		FeedbackText:   req.FeedbackText,
	})
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"dislike":     dislike,
		"adjustments": adjustments,
	})
}

// @Summary Historial de dislikes del usuario
// @Tags feedback
// @Produce json
// @Param id path int true "userId"
// @Param limit query int false "máximo de registros (default 50)"
// @Success 200 {array} models.DislikeRecord
// @Router /users/{id}/dislikes [get]
func (h *FeedbackHandler) GetDislikes(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	h.getDislikes(w, r, userID)
}

// @Summary Mi historial de dislikes
// @Tags feedback
// @Produce json
// @Param limit query int false "máximo de registros (default 50)"
// @Success 200 {array} models.DislikeRecord
// @Router /me/dislikes [get]
func (h *FeedbackHandler) GetMyDislikes(w http.ResponseWriter, r *http.Request) {
	h.getDislikes(w, r, UserIDFromContext(r.Context()))
}

func (h *FeedbackHandler) getDislikes(w http.ResponseWriter, r *http.Request, userID int) {
	w.Header().Set("Content-Type", "application/json")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.svc.DislikeHistory(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(list)
}

// @Summary Patrones de rechazo del usuario
// @Tags feedback
// @Produce json
// @Param id path int true "userId"
// @Success 200 {object} models.DislikePatterns
// @Router /users/{id}/dislike-patterns [get]
func (h *FeedbackHandler) GetDislikePatterns(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	patterns, err := h.svc.DislikePatterns(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(patterns)
}
