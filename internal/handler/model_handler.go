package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cpark026/MovieNight/internal/models"
	"github.com/cpark026/MovieNight/internal/service"

	"github.com/go-chi/chi/v5"
)

// ModelHandler expone el ciclo de vida del modelo: métricas, versiones,
// reentrenamiento y A/B tests. Todo bajo rutas admin.
type ModelHandler struct {
	versions *service.VersionService
	tracker  *service.TrackerService
	feedback *service.FeedbackService

	// recarga el catálogo en memoria desde Mongo; devuelve cuántas películas quedaron
	reloadCatalog func(ctx context.Context) (int, error)
}

func NewModelHandler(
	versions *service.VersionService,
	tracker *service.TrackerService,
	feedback *service.FeedbackService,
	reloadCatalog func(ctx context.Context) (int, error),
) *ModelHandler {
	return &ModelHandler{
		versions:      versions,
		tracker:       tracker,
		feedback:      feedback,
		reloadCatalog: reloadCatalog,
	}
}

// @Summary Métricas de calidad del modelo
// @Tags model
// @Produce json
// @Param days query int false "ventana en días (default 30)"
// @Param userId query int false "filtrar por usuario (0 = global)"
// @Success 200 {object} models.PerformanceMetrics
// @Router /admin/model/performance [get]
func (h *ModelHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = 30
	}
	userID, _ := strconv.Atoi(r.URL.Query().Get("userId"))

	metrics, err := h.tracker.PerformanceMetrics(r.Context(), userID, days)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(metrics)
}

// @Summary Estado de revalidación para un usuario
// @Tags model
// @Produce json
// @Param id path int true "userId"
// @Success 200 {object} models.RevalidationStatus
// @Router /users/{id}/revalidation-status [get]
func (h *ModelHandler) GetRevalidationStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	status, err := h.tracker.CheckRevalidation(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(status)
}

// @Summary Último set de recomendaciones generado para un usuario
// @Tags model
// @Produce json
// @Param id path int true "userId"
// @Param type query string false "general | last_added | genre_based (default general)"
// @Success 200 {object} models.RecommendationSet
// @Router /users/{id}/recommendations/latest [get]
func (h *ModelHandler) GetLatestSet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, _ := strconv.Atoi(chi.URLParam(r, "id"))
	recType := models.RecommendationType(r.URL.Query().Get("type"))

	set, err := h.tracker.LatestSet(r.Context(), userID, recType)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	if set == nil {
		http.Error(w, "el usuario no tiene sets de ese tipo", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(set)
}

// @Summary Listar versiones del modelo
// @Tags model
// @Produce json
// @Param limit query int false "máximo de versiones (default 20)"
// @Success 200 {array} models.ModelVersion
// @Router /admin/model/versions [get]
func (h *ModelHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	versions, err := h.versions.ListVersions(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(versions)
}

// @Summary Versión activa del modelo
// @Tags model
// @Produce json
// @Success 200 {object} models.ModelVersion
// @Router /admin/model/versions/active [get]
func (h *ModelHandler) GetActiveVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	v, err := h.versions.ActiveVersion(r.Context())
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// @Summary Activar una versión del modelo
// @Tags model
// @Produce json
// @Param versionId path string true "versionId"
// @Success 200 {object} models.ModelVersion
// @Router /admin/model/versions/{versionId}/activate [post]
func (h *ModelHandler) ActivateVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	versionID := chi.URLParam(r, "versionId")
	v, err := h.versions.Activate(r.Context(), versionID)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// @Summary Disparar reentrenamiento manual
// @Tags model
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/model/retrain [post]
func (h *ModelHandler) Retrain(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	version, metrics, err := service.RunRetrainCycle(r.Context(), h.versions, h.feedback, "manual")
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"version": version,
		"metrics": metrics,
	})
}

// @Summary Estado de los disparadores de reentrenamiento
// @Tags model
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/model/retrain-status [get]
func (h *ModelHandler) RetrainStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	accuracyCheck, err := h.versions.ShouldRetrain(r.Context())
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	feedbackCheck, err := h.feedback.ShouldRetrainFromFeedback(r.Context())
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"accuracy_trigger": accuracyCheck,
		"feedback_trigger": feedbackCheck,
	})
}

// @Summary Datos de entrenamiento ponderados
// @Tags model
// @Produce json
// @Param days query int false "ventana en días (default 30)"
// @Param userId query int false "filtrar por usuario (0 = global)"
// @Success 200 {object} models.WeightedTrainingData
// @Router /admin/model/training-data [get]
func (h *ModelHandler) GetTrainingData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	userID, _ := strconv.Atoi(r.URL.Query().Get("userId"))
	data, err := h.versions.WeightedTrainingData(r.Context(), userID, days)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	if data == nil {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "sin datos de entrenamiento suficientes",
		})
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

type abTestRequest struct {
	VersionA      string `json:"versionA"`
	VersionB      string `json:"versionB"`
	DurationHours int    `json:"durationHours"`
}

// @Summary Iniciar un A/B test entre dos versiones
// @Tags model
// @Accept json
// @Produce json
// @Param body body abTestRequest true "versiones a comparar"
// @Success 201 {object} models.ABTest
// @Router /admin/model/ab-tests [post]
func (h *ModelHandler) StartABTest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req abTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), 400)
		return
	}

	t, err := h.versions.StartABTest(r.Context(), req.VersionA, req.VersionB, req.DurationHours)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(t)
}

// @Summary Evaluar (cerrar) un A/B test
// @Tags model
// @Produce json
// @Param testId path string true "testId"
// @Success 200 {object} models.ABTest
// @Router /admin/model/ab-tests/{testId}/evaluate [post]
func (h *ModelHandler) EvaluateABTest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	testID := chi.URLParam(r, "testId")
	t, err := h.versions.EvaluateABTest(r.Context(), testID)
	if err != nil {
		http.Error(w, err.Error(), 400)
		return
	}
	_ = json.NewEncoder(w).Encode(t)
}

// @Summary Listar A/B tests
// @Tags model
// @Produce json
// @Success 200 {array} models.ABTest
// @Router /admin/model/ab-tests [get]
func (h *ModelHandler) ListABTests(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	tests, err := h.versions.ListABTests(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(tests)
}

// @Summary Recargar el catálogo en memoria desde Mongo
// @Tags model
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /admin/catalog/reload [post]
func (h *ModelHandler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	n, err := h.reloadCatalog(r.Context())
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"movies": n})
}
