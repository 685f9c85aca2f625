package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cpark026/MovieNight/internal/models"
	"github.com/cpark026/MovieNight/internal/service"

	"github.com/go-chi/chi/v5"
)

type MovieHandler struct {
	svc *service.MovieService
}

func NewMovieHandler(s *service.MovieService) *MovieHandler { return &MovieHandler{svc: s} }

// @Summary Obtener película por id
// @Tags movies
// @Produce json
// @Param id path int true "movieId"
// @Success 200 {object} models.MovieDoc
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	movieID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	m, err := h.svc.GetByID(r.Context(), movieID)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	if m == nil {
		http.Error(w, "movie not found", 404)
		return
	}
	_ = json.NewEncoder(w).Encode(m)
}

// @Summary Buscar películas
// @Tags movies
// @Produce json
// @Param q query string false "texto en el título"
// @Param genre query string false "género exacto"
// @Param limit query int false "máximo de resultados (default 20)"
// @Param offset query int false "offset de paginación"
// @Success 200 {array} models.MovieDoc
// @Router /movies/search [get]
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	q := r.URL.Query().Get("q")
	genre := r.URL.Query().Get("genre")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := h.svc.Search(r.Context(), q, genre, limit, offset)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(list)
}

// @Summary Crear película (admin)
// @Tags movies
// @Accept json
// @Param body body models.MovieDoc true "película"
// @Success 201
// @Router /admin/movies [post]
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var m models.MovieDoc
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	if err := h.svc.Create(r.Context(), &m); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// @Summary Actualizar película (admin)
// @Tags movies
// @Accept json
// @Param id path int true "movieId"
// @Param body body models.MovieDoc true "película"
// @Success 204
// @Router /admin/movies/{id} [put]
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	movieID, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var m models.MovieDoc
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	m.MovieID = movieID

	if err := h.svc.Update(r.Context(), &m); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
