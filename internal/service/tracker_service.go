package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/cpark026/MovieNight/internal/models"
)

const (
	// ventana hacia atrás en la que un rating puede reconciliarse con un set
	validationWindowDays = 30

	// error absoluto máximo para considerar una predicción "correcta"
	accuracyTolerance = 0.2

	// revalidación: mínimo de registros y accuracy bajo el cual se pide retrain
	revalidationMinRecords = 5
	revalidationThreshold  = 0.5
)

type trackerSetStore interface {
	Insert(ctx context.Context, set *models.RecommendationSet) (string, error)
	GetRecentValid(ctx context.Context, userID int, since time.Time) ([]models.RecommendationSet, error)
	GetLatestByType(ctx context.Context, userID int, recType models.RecommendationType) (*models.RecommendationSet, error)
	InvalidateOld(ctx context.Context, userID int, before time.Time) (int64, error)
	CountByUser(ctx context.Context, userID int) (int64, error)
}

type qualityStore interface {
	Insert(ctx context.Context, rec *models.QualityRecord) error
	GetSince(ctx context.Context, userID int, since time.Time) ([]models.QualityRecord, error)
}

// TrackerService reconcilia recomendaciones contra los ratings reales y
// calcula las métricas de calidad del modelo.
type TrackerService struct {
	sets    trackerSetStore
	quality qualityStore
}

func NewTrackerService(sets trackerSetStore, quality qualityStore) *TrackerService {
	return &TrackerService{sets: sets, quality: quality}
}

// SaveSet persiste un set recién generado (items embebidos, un solo insert).
func (s *TrackerService) SaveSet(ctx context.Context, set *models.RecommendationSet) (string, error) {
	set.IsValid = true
	return s.sets.Insert(ctx, set)
}

// LatestSet devuelve el último set válido generado para el usuario en el
// modo pedido, o nil si todavía no hay ninguno.
func (s *TrackerService) LatestSet(ctx context.Context, userID int, recType models.RecommendationType) (*models.RecommendationSet, error) {
	if recType == "" {
		recType = models.RecTypeGeneral
	}
	return s.sets.GetLatestByType(ctx, userID, recType)
}

// ValidateAgainstRating busca la película recién calificada en los sets
// válidos recientes del usuario y registra la reconciliación. Si nunca fue
// recomendada igual se registra (con SetIDExternal): también sirve de señal
// de entrenamiento.
func (s *TrackerService) ValidateAgainstRating(
	ctx context.Context,
	userID, movieID int,
	movieTitle string,
	rating float64,
) (*models.ValidationResult, error) {

	actual := rating / 10.0

	since := time.Now().AddDate(0, 0, -validationWindowDays)
	sets, err := s.sets.GetRecentValid(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	match, matchType, found := findRecommendedItem(sets, movieID, movieTitle)

	result := &models.ValidationResult{
		ActualRating: actual,
	}

	rec := &models.QualityRecord{
		SetID:        models.SetIDExternal,
		UserID:       userID,
		MovieID:      movieID,
		MovieTitle:   movieTitle,
		ActualRating: actual,
		CheckedAt:    time.Now(),
	}

	if found {
		predErr := math.Abs(match.item.Scores.HybridScore - actual)

		result.WasInRecommendations = true
		result.SetID = match.setID
		result.PredictedScore = match.item.Scores.HybridScore
		result.QualityScore = math.Max(0, 1-predErr)
		result.IsAccurate = predErr <= accuracyTolerance

		rec.SetID = match.setID
		rec.Type = matchType
		rec.PredictedScore = match.item.Scores.HybridScore
		rec.QualityScore = result.QualityScore
		rec.WasCorrect = result.IsAccurate
	} else {
		// el modelo nunca la propuso: predicción 0, calidad 0, incorrecta
		result.QualityScore = 0
		result.IsAccurate = false
		rec.QualityScore = 0
		rec.WasCorrect = false
	}

	if err := s.quality.Insert(ctx, rec); err != nil {
		return nil, err
	}
	return result, nil
}

type itemMatch struct {
	setID string
	item  models.RecommendationItem
	exact bool
}

// findRecommendedItem busca la película en los sets (más recientes primero).
// Primero por movieId o título exacto; si no, por substring en ambos
// sentidos. Entre varios matches gana el exacto, y luego el de menor rank.
func findRecommendedItem(
	sets []models.RecommendationSet,
	movieID int,
	movieTitle string,
) (itemMatch, models.RecommendationType, bool) {

	title := strings.ToLower(strings.TrimSpace(movieTitle))

	var best itemMatch
	var bestType models.RecommendationType
	found := false

	consider := func(set models.RecommendationSet, item models.RecommendationItem, exact bool) {
		m := itemMatch{setID: set.ID, item: item, exact: exact}
		if !found {
			best, bestType, found = m, set.Type, true
			return
		}
		if m.exact != best.exact {
			if m.exact {
				best, bestType = m, set.Type
			}
			return
		}
		if m.item.Rank < best.item.Rank {
			best, bestType = m, set.Type
		}
	}

	for _, set := range sets {
		for _, item := range set.Items {
			itemTitle := strings.ToLower(strings.TrimSpace(item.Title))

			switch {
			case item.MovieID == movieID && movieID != 0:
				consider(set, item, true)
			case title != "" && itemTitle == title:
				consider(set, item, true)
			case title != "" && itemTitle != "" &&
				(strings.Contains(itemTitle, title) || strings.Contains(title, itemTitle)):
				consider(set, item, false)
			}
		}
	}
	return best, bestType, found
}

// CheckRevalidation decide si el modelo viene fallando para este usuario.
// Pide al menos revalidationMinRecords reconciliaciones en la ventana.
func (s *TrackerService) CheckRevalidation(ctx context.Context, userID int) (*models.RevalidationStatus, error) {
	since := time.Now().AddDate(0, 0, -validationWindowDays)
	records, err := s.quality.GetSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	status := &models.RevalidationStatus{
		TotalValidated: len(records),
	}

	if len(records) < revalidationMinRecords {
		status.Recommendation = "insufficient_data"
		return status, nil
	}

	var correct int
	var qualitySum, errSum float64
	for _, r := range records {
		if r.WasCorrect {
			correct++
		}
		qualitySum += r.QualityScore
		errSum += math.Abs(r.PredictedScore - r.ActualRating)
	}

	// la "accuracy" de revalidación es el quality score promedio,
	// no la fracción de aciertos
	status.CorrectCount = correct
	status.Accuracy = qualitySum / float64(len(records))
	status.AvgError = errSum / float64(len(records))
	status.NeedsRevalidation = status.Accuracy < revalidationThreshold
	if status.NeedsRevalidation {
		status.Recommendation = "retrain_recommended"
	} else {
		status.Recommendation = "model_performing_well"
	}
	return status, nil
}

// PerformanceMetrics agrega la calidad de los últimos `days` días.
// userID 0 = métricas globales.
func (s *TrackerService) PerformanceMetrics(ctx context.Context, userID, days int) (*models.PerformanceMetrics, error) {
	since := time.Now().AddDate(0, 0, -days)

	records, err := s.quality.GetSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	totalSets, err := s.sets.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	metrics := &models.PerformanceMetrics{
		TotalRecommendations: int(totalSets),
		TotalValidated:       len(records),
		ByType:               make(map[models.RecommendationType]models.TypePerformance),
	}

	if len(records) == 0 {
		return metrics, nil
	}

	type typeAgg struct {
		count   int
		correct int
		quality float64
	}
	byType := make(map[models.RecommendationType]*typeAgg)

	var correct int
	var qualitySum float64
	for _, r := range records {
		if r.WasCorrect {
			correct++
		}
		qualitySum += r.QualityScore

		if r.Type == "" {
			continue // ratings externos no pertenecen a ningún modo
		}
		agg := byType[r.Type]
		if agg == nil {
			agg = &typeAgg{}
			byType[r.Type] = agg
		}
		agg.count++
		if r.WasCorrect {
			agg.correct++
		}
		agg.quality += r.QualityScore
	}

	metrics.AccuracyRate = float64(correct) / float64(len(records))
	metrics.AvgQualityScore = qualitySum / float64(len(records))

	for recType, agg := range byType {
		acc := float64(agg.correct) / float64(agg.count)
		avgQ := agg.quality / float64(agg.count)
		metrics.ByType[recType] = models.TypePerformance{
			Count:      agg.count,
			Accuracy:   &acc,
			AvgQuality: &avgQ,
		}
	}

	// el primer modo (en orden fijo) con accuracy disponible
	for _, recType := range models.RecommendationTypes {
		if perf, ok := metrics.ByType[recType]; ok && perf.Accuracy != nil {
			metrics.TopPerformingType = recType
			break
		}
	}
	return metrics, nil
}

// InvalidateOld marca como inválidos los sets con más de `days` días.
func (s *TrackerService) InvalidateOld(ctx context.Context, userID, days int) (int64, error) {
	before := time.Now().AddDate(0, 0, -days)
	return s.sets.InvalidateOld(ctx, userID, before)
}
