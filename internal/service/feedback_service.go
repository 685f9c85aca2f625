package service

import (
	"context"
	"math"
	"time"

	"github.com/cpark026/MovieNight/internal/catalog"
	"github.com/cpark026/MovieNight/internal/models"
)

const (
	// cuánto pesa un dislike como ejemplo negativo de entrenamiento
	dislikeWeight = 0.8

	// factores de de-énfasis por feature cuando llega un dislike
	genreDeemphasis     = 0.15
	castDeemphasis      = 0.10
	franchiseDeemphasis = 0.12

	// ningún peso baja de este piso, por más dislikes que haya
	weightFloor = 0.1

	// ventana para los patrones "recientes" de dislikes
	dislikeTrendDays = 30

	negativeBatchLimit = 100
)

type feedbackStore interface {
	InsertDislike(ctx context.Context, d *models.DislikeRecord) (string, error)
	GetDislikesByUser(ctx context.Context, userID, limit int) ([]models.DislikeRecord, error)
	GetDislikesSince(ctx context.Context, userID int, since time.Time) ([]models.DislikeRecord, error)
	CountDislikes(ctx context.Context, userID int) (int64, error)
	InsertNegativeExample(ctx context.Context, ex *models.NegativeTrainingExample) error
	CountUnused(ctx context.Context) (int64, error)
	GetUnusedBatch(ctx context.Context, limit int) ([]models.NegativeTrainingExample, error)
	MarkUsed(ctx context.Context, ids []string) (int64, error)
	InsertImpacts(ctx context.Context, impacts []models.FeedbackImpact) error
}

// FeedbackService convierte dislikes en señal de entrenamiento: ejemplos
// negativos, ajustes de features y el disparador de retrain por acumulación.
type FeedbackService struct {
	store    feedbackStore
	catalog  *catalog.Store
	versions configProvider

	// dislikes sin consumir que disparan un retrain
	threshold int
}

func NewFeedbackService(store feedbackStore, cat *catalog.Store, versions configProvider, threshold int) *FeedbackService {
	if threshold <= 0 {
		threshold = 20
	}
	return &FeedbackService{
		store:     store,
		catalog:   cat,
		versions:  versions,
		threshold: threshold,
	}
}

type DislikeRequest struct {
	UserID         int
	MovieID        int
	MovieTitle     string
	SetID          string
	PredictedScore float64
	Reason         models.DislikeReason
	FeedbackText   string
}

// RecordDislike registra el rechazo y propaga la señal: ejemplo negativo
// (el usuario "calificó" 0), ajustes de features e impactos auditables.
func (s *FeedbackService) RecordDislike(ctx context.Context, req DislikeRequest) (*models.DislikeRecord, *models.FeatureAdjustments, error) {
	if req.Reason == "" {
		req.Reason = models.ReasonNotInterested
	}

	movie, inCatalog := s.catalog.ByID(req.MovieID)
	if req.MovieTitle == "" && inCatalog {
		req.MovieTitle = movie.Doc.Title
	}

	dislike := &models.DislikeRecord{
		UserID:         req.UserID,
		MovieID:        req.MovieID,
		MovieTitle:     req.MovieTitle,
		SetID:          req.SetID,
		PredictedScore: req.PredictedScore,
		Reason:         req.Reason,
		FeedbackText:   req.FeedbackText,
		CreatedAt:      time.Now(),
	}
	dislikeID, err := s.store.InsertDislike(ctx, dislike)
	if err != nil {
		return nil, nil, err
	}
	dislike.ID = dislikeID

	// ejemplo negativo: rating efectivo 0, el error es todo el score predicho
	example := &models.NegativeTrainingExample{
		UserID:          req.UserID,
		MovieID:         req.MovieID,
		MovieTitle:      req.MovieTitle,
		ActualRating:    0.0,
		PredictedRating: req.PredictedScore,
		Error:           math.Abs(req.PredictedScore),
		Weight:          dislikeWeight,
		CreatedAt:       time.Now(),
	}
	if err := s.store.InsertNegativeExample(ctx, example); err != nil {
		return nil, nil, err
	}

	adjustments := FeatureAdjustmentForDislike(movie, req.Reason)

	versionID, _, err := s.versions.ActiveConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := s.store.InsertImpacts(ctx, impactsFrom(dislikeID, versionID, adjustments)); err != nil {
		return nil, nil, err
	}

	return dislike, &adjustments, nil
}

// FeatureAdjustmentForDislike decide qué features pierden peso según el
// motivo del rechazo. Función pura sobre la película del catálogo.
func FeatureAdjustmentForDislike(movie catalog.Movie, reason models.DislikeReason) models.FeatureAdjustments {
	adj := models.FeatureAdjustments{
		GenreAdjustments: make(map[string]float64),
		CastAdjustments:  make(map[string]float64),
		Reason:           reason,
	}

	switch reason {
	case models.ReasonWrongGenre:
		for genre := range movie.GenreSet {
			adj.GenreAdjustments[genre] = -genreDeemphasis
		}
	case models.ReasonPoorQuality:
		cast := movie.Cast
		if len(cast) > 5 {
			cast = cast[:5]
		}
		for _, actor := range cast {
			adj.CastAdjustments[actor] = -castDeemphasis
		}
	case models.ReasonAlreadyWatched:
		adj.ShouldFilter = true
	case models.ReasonNotInterested:
		// ajuste suave: mitad del factor
		for genre := range movie.GenreSet {
			adj.GenreAdjustments[genre] = -genreDeemphasis * 0.5
		}
	}
	return adj
}

func impactsFrom(dislikeID, versionID string, adj models.FeatureAdjustments) []models.FeedbackImpact {
	var impacts []models.FeedbackImpact

	add := func(impactType, feature string, magnitude float64) {
		impacts = append(impacts, models.FeedbackImpact{
			DislikeID:           dislikeID,
			ModelVersionID:      versionID,
			ImpactType:          impactType,
			FeatureAffected:     feature,
			AdjustmentMagnitude: magnitude,
			AppliedAt:           time.Now(),
		})
	}

	for genre, magnitude := range adj.GenreAdjustments {
		add("feature_deemphasis", "genre:"+genre, magnitude)
	}
	for actor, magnitude := range adj.CastAdjustments {
		add("feature_deemphasis", "cast:"+actor, magnitude)
	}
	if adj.FranchiseAdjustment != 0 {
		add("feature_deemphasis", "franchise", adj.FranchiseAdjustment)
	}
	if adj.ShouldFilter {
		add("filter", "movie", 0)
	}
	return impacts
}

// ApplyAdjustments traslada los ajustes acumulados a la config del modelo.
// Los ajustes por feature se promedian sobre su componente; ningún peso
// baja del piso.
func ApplyAdjustments(cfg models.ScoringConfig, adjs []models.FeatureAdjustments) models.ScoringConfig {
	for _, adj := range adjs {
		if avg, ok := avgAdjustment(adj.GenreAdjustments); ok {
			cfg.GenreWeight = math.Max(weightFloor, cfg.GenreWeight+avg)
		}
		if avg, ok := avgAdjustment(adj.CastAdjustments); ok {
			cfg.CastWeight = math.Max(weightFloor, cfg.CastWeight+avg)
		}
		if adj.FranchiseAdjustment != 0 {
			cfg.FranchiseWeight = math.Max(weightFloor, cfg.FranchiseWeight+adj.FranchiseAdjustment)
		}
	}
	return cfg
}

func avgAdjustment(m map[string]float64) (float64, bool) {
	if len(m) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range m {
		sum += v
	}
	return sum / float64(len(m)), true
}

// AdjustedConfig arma la config candidata de retrain a partir de los
// dislikes recientes. Devuelve también los ids de los ejemplos negativos
// que el retrain va a consumir (para marcarlos usados al terminar).
func (s *FeedbackService) AdjustedConfig(ctx context.Context, base models.ScoringConfig) (models.ScoringConfig, []string, error) {
	since := time.Now().AddDate(0, 0, -dislikeTrendDays)
	dislikes, err := s.store.GetDislikesSince(ctx, 0, since)
	if err != nil {
		return base, nil, err
	}

	adjs := make([]models.FeatureAdjustments, 0, len(dislikes))
	for _, d := range dislikes {
		if movie, ok := s.catalog.ByID(d.MovieID); ok {
			adjs = append(adjs, FeatureAdjustmentForDislike(movie, d.Reason))
		}
	}
	cfg := ApplyAdjustments(base, adjs)

	batch, err := s.store.GetUnusedBatch(ctx, negativeBatchLimit)
	if err != nil {
		return base, nil, err
	}
	ids := make([]string, 0, len(batch))
	for _, ex := range batch {
		ids = append(ids, ex.ID)
	}
	return cfg, ids, nil
}

// FeedbackCheck es el veredicto del disparador por acumulación de dislikes.
type FeedbackCheck struct {
	ShouldRetrain bool  `json:"should_retrain"`
	UnusedCount   int64 `json:"unused_examples"`
	Threshold     int   `json:"threshold"`
}

// ShouldRetrainFromFeedback mira cuántos ejemplos negativos siguen sin
// consumirse contra el umbral de acumulación.
func (s *FeedbackService) ShouldRetrainFromFeedback(ctx context.Context) (*FeedbackCheck, error) {
	count, err := s.store.CountUnused(ctx)
	if err != nil {
		return nil, err
	}
	return &FeedbackCheck{
		ShouldRetrain: count >= int64(s.threshold),
		UnusedCount:   count,
		Threshold:     s.threshold,
	}, nil
}

// MarkExamplesUsed se llama al terminar un retrain que consumió el batch.
func (s *FeedbackService) MarkExamplesUsed(ctx context.Context, ids []string) (int64, error) {
	return s.store.MarkUsed(ctx, ids)
}

func (s *FeedbackService) DislikeHistory(ctx context.Context, userID, limit int) ([]models.DislikeRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.store.GetDislikesByUser(ctx, userID, limit)
}

// DislikePatterns agrega los motivos de rechazo del usuario y la tendencia
// reciente (30 días).
func (s *FeedbackService) DislikePatterns(ctx context.Context, userID int) (*models.DislikePatterns, error) {
	all, err := s.store.GetDislikesByUser(ctx, userID, 1000)
	if err != nil {
		return nil, err
	}

	patterns := &models.DislikePatterns{
		ReasonDistribution: make(map[models.DislikeReason]int),
		TotalDislikes:      len(all),
	}
	for _, d := range all {
		patterns.ReasonDistribution[d.Reason]++
	}

	since := time.Now().AddDate(0, 0, -dislikeTrendDays)
	recent, err := s.store.GetDislikesSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	patterns.RecentDislikes = len(recent)
	if len(recent) > 0 {
		var sum float64
		for _, d := range recent {
			sum += d.PredictedScore
		}
		patterns.AvgPredictedScore = sum / float64(len(recent))
	}
	return patterns, nil
}

// FilteredMovies devuelve las películas que el usuario marcó como ya
// vistas: quedan excluidas permanentemente del scoring. El motor de
// recomendaciones las junta con las ya calificadas antes de puntuar.
func (s *FeedbackService) FilteredMovies(ctx context.Context, userID int) (map[int]struct{}, error) {
	dislikes, err := s.store.GetDislikesByUser(ctx, userID, 1000)
	if err != nil {
		return nil, err
	}
	filtered := make(map[int]struct{})
	for _, d := range dislikes {
		if d.Reason == models.ReasonAlreadyWatched {
			filtered[d.MovieID] = struct{}{}
		}
	}
	return filtered, nil
}
