package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/cpark026/MovieNight/internal/models"

	"github.com/google/uuid"
)

const (
	// ventana de métricas para decidir un retrain automático
	retrainWindowDays = 7

	// ventana de reconciliaciones usada para entrenar
	trainingWindowDays = 30

	// mínimo de reconciliaciones por película para que cuente como
	// dato de entrenamiento
	minTrainingSamples = 5

	// tamaño objetivo del test set; el universo muestreado es
	// evalTestSize / testRatio
	evalTestSize     = 100
	defaultTestRatio = 0.2
)

type versionStore interface {
	Insert(ctx context.Context, v *models.ModelVersion) error
	GetByID(ctx context.Context, versionID string) (*models.ModelVersion, error)
	GetActive(ctx context.Context) (*models.ModelVersion, error)
	UpdateMetrics(ctx context.Context, versionID string, accuracy float64, status models.VersionStatus) error
	Activate(ctx context.Context, versionID string) (*models.ModelVersion, error)
	List(ctx context.Context, limit int) ([]models.ModelVersion, error)
	InsertABTest(ctx context.Context, t *models.ABTest) error
	GetABTest(ctx context.Context, testID string) (*models.ABTest, error)
	CompleteABTest(ctx context.Context, testID, winnerID string, confidence float64) error
	ListABTests(ctx context.Context, limit int) ([]models.ABTest, error)
}

type qualitySampler interface {
	GetSince(ctx context.Context, userID int, since time.Time) ([]models.QualityRecord, error)
	SampleRecent(ctx context.Context, since time.Time, limit int) ([]models.QualityRecord, error)
}

// VersionService administra el ciclo de vida de las versiones del modelo:
// crear, evaluar, activar, reentrenar y comparar por A/B.
type VersionService struct {
	versions versionStore
	quality  qualitySampler

	retrainThreshold float64
}

func NewVersionService(versions versionStore, quality qualitySampler, retrainThreshold float64) *VersionService {
	return &VersionService{
		versions:         versions,
		quality:          quality,
		retrainThreshold: retrainThreshold,
	}
}

// ActiveVersion devuelve la versión activa vigente. Si no hay ninguna
// (primer arranque), sintetiza la versión inicial con los pesos por defecto.
func (s *VersionService) ActiveVersion(ctx context.Context) (*models.ModelVersion, error) {
	v, err := s.versions.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if v != nil {
		return v, nil
	}
	return &models.ModelVersion{
		VersionID: models.InitialVersionID,
		Status:    models.VersionActive,
		CreatedAt: time.Now(),
		Config:    models.DefaultScoringConfig(),
	}, nil
}

// ActiveConfig implementa configProvider para el motor de recomendaciones.
func (s *VersionService) ActiveConfig(ctx context.Context) (string, models.ScoringConfig, error) {
	v, err := s.ActiveVersion(ctx)
	if err != nil {
		return "", models.ScoringConfig{}, err
	}
	return v.VersionID, v.Config, nil
}

func newVersionID() string {
	return fmt.Sprintf("v%d_%s", time.Now().Unix(), uuid.NewString()[:8])
}

// CreateVersion registra una versión nueva en estado training.
func (s *VersionService) CreateVersion(
	ctx context.Context,
	parentID, trigger string,
	cfg models.ScoringConfig,
	trainingSamples int,
) (*models.ModelVersion, error) {

	v := &models.ModelVersion{
		VersionID:       newVersionID(),
		Status:          models.VersionTraining,
		CreatedAt:       time.Now(),
		TrainingSamples: trainingSamples,
		ParentVersionID: parentID,
		RetrainTrigger:  trigger,
		Config:          cfg,
	}
	if err := s.versions.Insert(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Evaluate mide la versión contra una muestra aleatoria de reconciliaciones
// recientes y la deja en estado ready con su accuracy.
func (s *VersionService) Evaluate(ctx context.Context, versionID string, testRatio float64) (*models.EvalMetrics, error) {
	v, err := s.versions.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("versión %s no existe", versionID)
	}

	if testRatio <= 0 || testRatio > 1 {
		testRatio = defaultTestRatio
	}
	limit := int(evalTestSize / testRatio)

	since := time.Now().AddDate(0, 0, -retrainWindowDays)
	records, err := s.quality.SampleRecent(ctx, since, limit)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("sin datos de validación para evaluar %s", versionID)
	}

	metrics := evalFromRecords(records)

	if err := s.versions.UpdateMetrics(ctx, versionID, metrics.Accuracy, models.VersionReady); err != nil {
		return nil, err
	}
	return metrics, nil
}

func evalFromRecords(records []models.QualityRecord) *models.EvalMetrics {
	var correct int
	var errSum float64
	for _, r := range records {
		predErr := math.Abs(r.PredictedScore - r.ActualRating)
		errSum += predErr
		if predErr <= accuracyTolerance {
			correct++
		}
	}
	return &models.EvalMetrics{
		Accuracy:           float64(correct) / float64(len(records)),
		AvgError:           errSum / float64(len(records)),
		CorrectPredictions: correct,
		TotalPredictions:   len(records),
	}
}

// Activate promueve la versión: exactamente una activa a la vez.
func (s *VersionService) Activate(ctx context.Context, versionID string) (*models.ModelVersion, error) {
	v, err := s.versions.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("versión %s no existe", versionID)
	}
	if v.Status == models.VersionTraining {
		return nil, fmt.Errorf("versión %s todavía en training, evaluar primero", versionID)
	}
	return s.versions.Activate(ctx, versionID)
}

// WeightedTrainingData agrega las reconciliaciones por película y calcula
// el peso de entrenamiento: accuracy² + 0.1, así las películas donde el
// modelo acierta consistente pesan más y ninguna queda en cero. Películas
// con menos de minTrainingSamples reconciliaciones se descartan; si no
// sobrevive ninguna devuelve nil. userID 0 = datos globales.
func (s *VersionService) WeightedTrainingData(ctx context.Context, userID, days int) (*models.WeightedTrainingData, error) {
	if days <= 0 {
		days = trainingWindowDays
	}
	since := time.Now().AddDate(0, 0, -days)
	records, err := s.quality.GetSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		log.Printf("[versioning] sin datos de entrenamiento en los últimos %d días", days)
		return nil, nil
	}

	data := &models.WeightedTrainingData{
		MovieStats:       make(map[int]*models.MovieTrainingStats),
		TotalPredictions: len(records),
		GeneratedAt:      time.Now(),
	}

	for _, r := range records {
		stats := data.MovieStats[r.MovieID]
		if stats == nil {
			stats = &models.MovieTrainingStats{Title: r.MovieTitle}
			data.MovieStats[r.MovieID] = stats
		}
		stats.Predictions = append(stats.Predictions, models.PredictionSample{
			Predicted: r.PredictedScore,
			Actual:    r.ActualRating,
			Correct:   r.WasCorrect,
			Error:     math.Abs(r.PredictedScore - r.ActualRating),
			CheckedAt: r.CheckedAt,
		})
	}

	for movieID, stats := range data.MovieStats {
		if len(stats.Predictions) < minTrainingSamples {
			delete(data.MovieStats, movieID)
			continue
		}
		correct := 0
		for _, p := range stats.Predictions {
			if p.Correct {
				correct++
			}
		}
		stats.SampleCount = len(stats.Predictions)
		stats.Accuracy = float64(correct) / float64(stats.SampleCount)
		stats.Weight = stats.Accuracy*stats.Accuracy + 0.1
	}

	if len(data.MovieStats) == 0 {
		log.Printf("[versioning] ninguna película llega al mínimo de %d muestras", minTrainingSamples)
		return nil, nil
	}
	data.SampleCount = len(data.MovieStats)
	return data, nil
}

// RetrainCheck es el veredicto del chequeo automático de reentrenamiento.
type RetrainCheck struct {
	ShouldRetrain bool    `json:"should_retrain"`
	Accuracy      float64 `json:"accuracy"`
	Samples       int     `json:"samples"`
	Threshold     float64 `json:"threshold"`
}

// ShouldRetrain mira la accuracy de la última semana contra el umbral.
// Sin reconciliaciones recientes no hay evidencia, no se reentrena.
func (s *VersionService) ShouldRetrain(ctx context.Context) (*RetrainCheck, error) {
	since := time.Now().AddDate(0, 0, -retrainWindowDays)
	records, err := s.quality.GetSince(ctx, 0, since)
	if err != nil {
		return nil, err
	}

	check := &RetrainCheck{
		Samples:   len(records),
		Threshold: s.retrainThreshold,
	}
	if len(records) == 0 {
		return check, nil
	}

	correct := 0
	for _, r := range records {
		if r.WasCorrect {
			correct++
		}
	}
	check.Accuracy = float64(correct) / float64(len(records))
	check.ShouldRetrain = check.Accuracy < s.retrainThreshold
	return check, nil
}

// Retrain crea una versión hija con la config ajustada, la evalúa y la
// activa solo si no empeora a la versión vigente.
func (s *VersionService) Retrain(ctx context.Context, trigger string, cfg models.ScoringConfig) (*models.ModelVersion, *models.EvalMetrics, error) {
	parent, err := s.ActiveVersion(ctx)
	if err != nil {
		return nil, nil, err
	}

	// el retrain siempre entrena sobre los datos globales
	data, err := s.WeightedTrainingData(ctx, 0, trainingWindowDays)
	if err != nil {
		return nil, nil, err
	}
	trainingSamples := 0
	if data != nil {
		trainingSamples = data.TotalPredictions
	}

	v, err := s.CreateVersion(ctx, parent.VersionID, trigger, cfg, trainingSamples)
	if err != nil {
		return nil, nil, err
	}

	metrics, err := s.Evaluate(ctx, v.VersionID, defaultTestRatio)
	if err != nil {
		return v, nil, err
	}
	v.Status = models.VersionReady
	v.TestAccuracy = &metrics.Accuracy

	if parent.TestAccuracy == nil || metrics.Accuracy >= *parent.TestAccuracy {
		activated, err := s.versions.Activate(ctx, v.VersionID)
		if err != nil {
			return v, metrics, err
		}
		return activated, metrics, nil
	}
	return v, metrics, nil
}

func (s *VersionService) ListVersions(ctx context.Context, limit int) ([]models.ModelVersion, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.versions.List(ctx, limit)
}

// ====== A/B testing ======

// StartABTest arranca una comparación entre dos versiones existentes.
func (s *VersionService) StartABTest(ctx context.Context, versionA, versionB string, durationH int) (*models.ABTest, error) {
	if versionA == versionB {
		return nil, fmt.Errorf("las dos versiones del A/B deben ser distintas")
	}
	for _, id := range []string{versionA, versionB} {
		v, err := s.versions.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, fmt.Errorf("versión %s no existe", id)
		}
	}
	if durationH <= 0 {
		durationH = 24
	}

	t := &models.ABTest{
		TestID:    fmt.Sprintf("ab_%d_%s", time.Now().Unix(), uuid.NewString()[:8]),
		VersionA:  versionA,
		VersionB:  versionB,
		StartedAt: time.Now(),
		Status:    models.ABTestRunning,
		DurationH: durationH,
	}
	if err := s.versions.InsertABTest(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// EvaluateABTest cierra el test: gana la versión con mayor test accuracy y
// la confianza reportada es la accuracy de la ganadora. En empate gana A.
func (s *VersionService) EvaluateABTest(ctx context.Context, testID string) (*models.ABTest, error) {
	t, err := s.versions.GetABTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("A/B test %s no existe", testID)
	}
	if t.Status == models.ABTestCompleted {
		return t, nil
	}

	accOf := func(versionID string) (float64, error) {
		v, err := s.versions.GetByID(ctx, versionID)
		if err != nil {
			return 0, err
		}
		if v == nil || v.TestAccuracy == nil {
			return 0, nil
		}
		return *v.TestAccuracy, nil
	}

	accA, err := accOf(t.VersionA)
	if err != nil {
		return nil, err
	}
	accB, err := accOf(t.VersionB)
	if err != nil {
		return nil, err
	}

	winner, confidence := t.VersionA, accA
	if accB > accA {
		winner, confidence = t.VersionB, accB
	}

	if err := s.versions.CompleteABTest(ctx, testID, winner, confidence); err != nil {
		return nil, err
	}
	now := time.Now()
	t.Status = models.ABTestCompleted
	t.WinnerID = winner
	t.Confidence = confidence
	t.EndedAt = &now
	return t, nil
}

func (s *VersionService) ListABTests(ctx context.Context, limit int) ([]models.ABTest, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.versions.ListABTests(ctx, limit)
}
