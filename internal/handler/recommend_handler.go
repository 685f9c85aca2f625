package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cpark026/MovieNight/internal/models"
	"github.com/cpark026/MovieNight/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type RecommendHandler struct {
	svc *service.RecommendService
}

func NewRecommendHandler(s *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{svc: s}
}

func parseRecRequest(r *http.Request, userID int) (service.RecRequest, error) {
	req := service.RecRequest{UserID: userID}

	if t := r.URL.Query().Get("type"); t != "" {
		recType, ok := models.ParseRecommendationType(t)
		if !ok {
			return req, errInvalidType
		}
		req.Type = recType
	}
	req.K, _ = strconv.Atoi(r.URL.Query().Get("k"))
	req.Refresh = r.URL.Query().Get("refresh") == "true"
	return req, nil
}

var errInvalidType = errors.New("type inválido (general|last_added|genre_based)")

// @Summary Recomendaciones para un usuario
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Param type query string false "modo: general | last_added | genre_based"
// @Param k query int false "cantidad de recomendaciones (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {object} service.RecResult
// @Router /users/{id}/recommendations [get]
func (h *RecommendHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	h.getRecommendations(w, r, userID)
}

// @Summary Mis recomendaciones
// @Tags recommend
// @Produce json
// @Param type query string false "modo: general | last_added | genre_based"
// @Param k query int false "cantidad de recomendaciones (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {object} service.RecResult
// @Router /me/recommendations [get]
func (h *RecommendHandler) GetMyRecommendations(w http.ResponseWriter, r *http.Request) {
	h.getRecommendations(w, r, UserIDFromContext(r.Context()))
}

func (h *RecommendHandler) getRecommendations(w http.ResponseWriter, r *http.Request, userID int) {
	w.Header().Set("Content-Type", "application/json")

	req, err := parseRecRequest(r, userID)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	result, err := h.svc.Recommend(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(result)
}

// @Summary Género dominante del historial del usuario
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Success 200 {object} map[string]interface{}
// @Router /users/{id}/top-genre [get]
func (h *RecommendHandler) GetTopGenre(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	genre, count, err := h.svc.MostCommonGenre(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"userId": userID,
		"genre":  genre,
		"count":  count,
	})
}

// upgrader global (no afecta a swagger)
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Recomendaciones en tiempo real (WebSocket)
// @Tags recommend
// @Produce json
// @Param id path int true "userId"
// @Param type query string false "modo: general | last_added | genre_based"
// @Param k query int false "cantidad de recomendaciones (máx 50)"
// @Param refresh query bool false "si true, ignora cache Redis"
// @Success 200 {object} map[string]interface{}
// @Router /users/{id}/ws/recommendations [get]
func (h *RecommendHandler) GetRecommendationsWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "No se pudo abrir WebSocket", 400)
		return
	}
	defer conn.Close()

	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	req, err := parseRecRequest(r, userID)
	if err != nil {
		conn.WriteJSON(map[string]any{"type": "error", "error": err.Error()})
		return
	}

	conn.WriteJSON(map[string]any{
		"type": "start",
		"msg":  "Conexión WS abierta, iniciando cálculo…",
	})

	// El progreso de los shards llega por channel: gorilla no admite
	// escritores concurrentes, así que solo este goroutine escribe al WS.
	type progress struct{ done, total int }
	progressCh := make(chan progress, 8)

	req.Refresh = true // el WS siempre recalcula
	req.Progress = func(done, total int) {
		progressCh <- progress{done, total}
	}

	resultCh := make(chan *service.RecResult, 1)
	errCh := make(chan error, 1)
	go func() {
		result, err := h.svc.Recommend(r.Context(), req)
		close(progressCh)
		if err != nil {
			errCh <- err
			return
		}
		resultCh <- result
	}()

	for p := range progressCh {
		conn.WriteJSON(map[string]any{
			"type":      "progress",
			"completed": p.done,
			"total":     p.total,
		})
	}

	select {
	case err := <-errCh:
		conn.WriteJSON(map[string]any{"type": "error", "error": err.Error()})
	case result := <-resultCh:
		conn.WriteJSON(map[string]any{
			"type":        "recommendations",
			"userId":      userID,
			"result":      result,
			"generatedAt": time.Now(),
		})
	}
}
