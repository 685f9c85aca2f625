package models

import "time"

// SetIDExternal es el sentinel para ratings de películas que nunca
// estuvieron en un set de recomendaciones.
const SetIDExternal = ""

// QualityRecord reconcilia una predicción contra el rating real del usuario.
// ActualRating ya viene normalizado a [0,1] (rating/10).
type QualityRecord struct {
	ID             string             `json:"id" bson:"_id,omitempty"`
	SetID          string             `json:"setId" bson:"setId"` // SetIDExternal si no fue recomendada
	UserID         int                `json:"userId" bson:"userId"`
	MovieID        int                `json:"movieId" bson:"movieId"`
	MovieTitle     string             `json:"movieTitle" bson:"movieTitle"`
	Type           RecommendationType `json:"type,omitempty" bson:"type,omitempty"`
	PredictedScore float64            `json:"predictedScore" bson:"predictedScore"`
	ActualRating   float64            `json:"actualRating" bson:"actualRating"`
	QualityScore   float64            `json:"qualityScore" bson:"qualityScore"`
	WasCorrect     bool               `json:"wasCorrect" bson:"wasCorrect"`
	CheckedAt      time.Time          `json:"checkedAt" bson:"checkedAt"`
}

// ValidationResult es lo que devuelve la validación de un rating
// contra el historial de recomendaciones.
type ValidationResult struct {
	WasInRecommendations bool    `json:"was_in_recommendations"`
	SetID                string  `json:"recommendation_set_id,omitempty"`
	PredictedScore       float64 `json:"predicted_score"`
	ActualRating         float64 `json:"actual_rating"`
	QualityScore         float64 `json:"quality_score"`
	IsAccurate           bool    `json:"is_accurate"`
}

// RevalidationStatus indica si el modelo activo necesita reentrenarse
// para este usuario.
type RevalidationStatus struct {
	NeedsRevalidation bool    `json:"needs_revalidation"`
	Accuracy          float64 `json:"accuracy"`
	CorrectCount      int     `json:"correct_predictions"`
	TotalValidated    int     `json:"total_validated"`
	AvgError          float64 `json:"avg_error"`
	Recommendation    string  `json:"recommendation"`
}

type TypePerformance struct {
	Count      int      `json:"count"`
	Accuracy   *float64 `json:"accuracy"`
	AvgQuality *float64 `json:"avg_quality"`
}

type PerformanceMetrics struct {
	TotalRecommendations int                                    `json:"total_recommendations"`
	TotalValidated       int                                    `json:"total_validated"`
	AccuracyRate         float64                                `json:"accuracy_rate"`
	AvgQualityScore      float64                                `json:"avg_quality_score"`
	ByType               map[RecommendationType]TypePerformance `json:"recommendations_by_type"`
	TopPerformingType    RecommendationType                     `json:"top_performing_type,omitempty"`
}
