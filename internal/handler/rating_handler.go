package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cpark026/MovieNight/internal/service"

	"github.com/go-chi/chi/v5"
)

type RatingHandler struct {
	svc *service.RatingService
}

func NewRatingHandler(s *service.RatingService) *RatingHandler { return &RatingHandler{svc: s} }

type ratingRequest struct {
	MovieID int     `json:"movieId"`
	Rating  float64 `json:"rating"`
}

// @Summary Crear/actualizar rating (dispara la validación de calidad)
// @Tags ratings
// @Accept json
// @Produce json
// @Param id path int true "userId"
// @Param body body ratingRequest true "rating"
// @Success 200 {object} models.ValidationResult
// @Router /users/{id}/ratings [post]
func (h *RatingHandler) PostRating(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	h.postRating(w, r, userID)
}

// @Summary Crear/actualizar mi rating
// @Tags ratings
// @Accept json
// @Produce json
// @Param body body ratingRequest true "rating"
// @Success 200 {object} models.ValidationResult
// @Router /me/ratings [post]
func (h *RatingHandler) PostMyRating(w http.ResponseWriter, r *http.Request) {
	h.postRating(w, r, UserIDFromContext(r.Context()))
}

func (h *RatingHandler) postRating(w http.ResponseWriter, r *http.Request, userID int) {
	w.Header().Set("Content-Type", "application/json")

	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	result, err := h.svc.RateMovie(r.Context(), userID, req.MovieID, req.Rating)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if result == nil {
		// rating guardado pero la validación falló: no rompemos el flujo
		w.WriteHeader(http.StatusNoContent)
		return
	}
	_ = json.NewEncoder(w).Encode(result)
}

// @Summary Listar ratings del usuario
// @Tags ratings
// @Produce json
// @Param id path int true "userId"
// @Router /users/{id}/ratings [get]
func (h *RatingHandler) GetRatings(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	h.getRatings(w, r, userID)
}

// @Summary Listar mis ratings
// @Tags ratings
// @Produce json
// @Router /me/ratings [get]
func (h *RatingHandler) GetMyRatings(w http.ResponseWriter, r *http.Request) {
	h.getRatings(w, r, UserIDFromContext(r.Context()))
}

func (h *RatingHandler) getRatings(w http.ResponseWriter, r *http.Request, userID int) {
	w.Header().Set("Content-Type", "application/json")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.svc.UserRatings(r.Context(), userID, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(list)
}
