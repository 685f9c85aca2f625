package models

import "time"

type VersionStatus string

const (
	VersionTraining VersionStatus = "training"
	VersionReady    VersionStatus = "ready"
	VersionActive   VersionStatus = "active"
	VersionInactive VersionStatus = "inactive"
)

// ScoringConfig es la configuración tipada de pesos y umbrales que viaja
// con cada versión del modelo. El scorer la recibe como parámetro: no hay
// constantes de módulo escondidas.
type ScoringConfig struct {
	GenreWeight      float64 `json:"genreWeight" bson:"genreWeight"`
	CastWeight       float64 `json:"castWeight" bson:"castWeight"`
	FranchiseWeight  float64 `json:"franchiseWeight" bson:"franchiseWeight"`
	RatingWeight     float64 `json:"ratingWeight" bson:"ratingWeight"`
	PopularityWeight float64 `json:"popularityWeight" bson:"popularityWeight"`

	BoostHigh float64 `json:"boostHigh" bson:"boostHigh"`
	BoostMed  float64 `json:"boostMed" bson:"boostMed"`
	BoostLow  float64 `json:"boostLow" bson:"boostLow"`

	ThresholdHigh float64 `json:"thresholdHigh" bson:"thresholdHigh"`
	ThresholdMed  float64 `json:"thresholdMed" bson:"thresholdMed"`
	ThresholdLow  float64 `json:"thresholdLow" bson:"thresholdLow"`
}

// DefaultScoringConfig son los pesos de la versión inicial (v1_initial).
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		GenreWeight:      0.40,
		CastWeight:       0.15,
		FranchiseWeight:  0.05,
		RatingWeight:     0.30,
		PopularityWeight: 0.10,
		BoostHigh:        0.15,
		BoostMed:         0.10,
		BoostLow:         -0.20,
		ThresholdHigh:    0.7,
		ThresholdMed:     0.5,
		ThresholdLow:     0.3,
	}
}

// InitialVersionID es el fallback cuando todavía no hay ninguna versión activa.
const InitialVersionID = "v1_initial"

type ModelVersion struct {
	VersionID       string        `json:"versionId" bson:"versionId"`
	Status          VersionStatus `json:"status" bson:"status"`
	CreatedAt       time.Time     `json:"createdAt" bson:"createdAt"`
	TrainingSamples int           `json:"trainingSamples" bson:"trainingSamples"`
	TestAccuracy    *float64      `json:"testAccuracy" bson:"testAccuracy,omitempty"`
	ActiveUntil     *time.Time    `json:"activeUntil,omitempty" bson:"activeUntil,omitempty"`
	ParentVersionID string        `json:"parentVersionId,omitempty" bson:"parentVersionId,omitempty"`
	RetrainTrigger  string        `json:"retrainTrigger,omitempty" bson:"retrainTrigger,omitempty"`
	Config          ScoringConfig `json:"config" bson:"config"`
}

type ABTestStatus string

const (
	ABTestRunning   ABTestStatus = "running"
	ABTestCompleted ABTestStatus = "completed"
)

type ABTest struct {
	TestID     string       `json:"testId" bson:"testId"`
	VersionA   string       `json:"versionA" bson:"versionA"`
	VersionB   string       `json:"versionB" bson:"versionB"`
	StartedAt  time.Time    `json:"startedAt" bson:"startedAt"`
	EndedAt    *time.Time   `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
	Status     ABTestStatus `json:"status" bson:"status"`
	WinnerID   string       `json:"winnerId,omitempty" bson:"winnerId,omitempty"`
	Confidence float64      `json:"confidence" bson:"confidence"`
	DurationH  int          `json:"durationHours" bson:"durationHours"`
}

// ===== Datos de entrenamiento ponderados =====

type PredictionSample struct {
	Predicted float64   `json:"predicted"`
	Actual    float64   `json:"actual"`
	Correct   bool      `json:"correct"`
	Error     float64   `json:"error"`
	CheckedAt time.Time `json:"checkedAt"`
}

type MovieTrainingStats struct {
	Title       string             `json:"title"`
	Predictions []PredictionSample `json:"predictions"`
	Accuracy    float64            `json:"accuracy"`
	Weight      float64            `json:"weight"`
	SampleCount int                `json:"sampleCount"`
}

type WeightedTrainingData struct {
	MovieStats       map[int]*MovieTrainingStats `json:"movieStats"`
	TotalPredictions int                         `json:"totalPredictions"`
	SampleCount      int                         `json:"sampleCount"`
	GeneratedAt      time.Time                   `json:"generatedAt"`
}

type EvalMetrics struct {
	Accuracy           float64 `json:"accuracy"`
	AvgError           float64 `json:"avg_error"`
	CorrectPredictions int     `json:"correct_predictions"`
	TotalPredictions   int     `json:"total_predictions"`
}
