package models

import "time"

// DislikeReason es el motivo cerrado por el que se rechazó una recomendación.
type DislikeReason string

const (
	ReasonWrongGenre     DislikeReason = "wrong_genre"
	ReasonPoorQuality    DislikeReason = "poor_quality"
	ReasonAlreadyWatched DislikeReason = "already_watched"
	ReasonNotInterested  DislikeReason = "not_interested"
	ReasonIrrelevant     DislikeReason = "irrelevant"
	ReasonOther          DislikeReason = "other"
)

func ParseDislikeReason(s string) (DislikeReason, bool) {
	switch DislikeReason(s) {
	case ReasonWrongGenre, ReasonPoorQuality, ReasonAlreadyWatched,
		ReasonNotInterested, ReasonIrrelevant, ReasonOther:
		return DislikeReason(s), true
	}
	return "", false
}

// DislikeRecord es feedback negativo explícito. Nunca se muta.
type DislikeRecord struct {
	ID             string        `json:"dislikeId" bson:"_id,omitempty"`
	UserID         int           `json:"userId" bson:"userId"`
	MovieID        int           `json:"movieId" bson:"movieId"`
	MovieTitle     string        `json:"movieTitle" bson:"movieTitle"`
	SetID          string        `json:"recommendationSetId,omitempty" bson:"setId,omitempty"`
	PredictedScore float64       `json:"predictedScore" bson:"predictedScore"`
	Reason         DislikeReason `json:"reason" bson:"reason"`
	FeedbackText   string        `json:"feedbackText,omitempty" bson:"feedbackText,omitempty"`
	CreatedAt      time.Time     `json:"createdAt" bson:"createdAt"`
}

// NegativeTrainingExample es la señal de entrenamiento derivada de un dislike:
// el usuario "calificó" con 0.
type NegativeTrainingExample struct {
	ID              string    `json:"exampleId" bson:"_id,omitempty"`
	UserID          int       `json:"userId" bson:"userId"`
	MovieID         int       `json:"movieId" bson:"movieId"`
	MovieTitle      string    `json:"movieTitle" bson:"movieTitle"`
	ActualRating    float64   `json:"actualRating" bson:"actualRating"`
	PredictedRating float64   `json:"predictedRating" bson:"predictedRating"`
	Error           float64   `json:"error" bson:"error"`
	Weight          float64   `json:"weight" bson:"weight"`
	UsedInTraining  bool      `json:"usedInTraining" bson:"usedInTraining"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
}

// FeatureAdjustments indica qué features deben perder peso tras un dislike.
type FeatureAdjustments struct {
	GenreAdjustments    map[string]float64 `json:"genre_adjustments"`
	CastAdjustments     map[string]float64 `json:"cast_adjustments"`
	FranchiseAdjustment float64            `json:"franchise_adjustment"`
	ShouldFilter        bool               `json:"should_filter,omitempty"`
	Reason              DislikeReason      `json:"reason"`
}

// FeedbackImpact registra cómo un dislike concreto ajustó el modelo.
type FeedbackImpact struct {
	ID                  string    `json:"impactId" bson:"_id,omitempty"`
	DislikeID           string    `json:"dislikeId" bson:"dislikeId"`
	ModelVersionID      string    `json:"modelVersionId" bson:"modelVersionId"`
	ImpactType          string    `json:"impactType" bson:"impactType"`
	FeatureAffected     string    `json:"featureAffected" bson:"featureAffected"`
	AdjustmentMagnitude float64   `json:"adjustmentMagnitude" bson:"adjustmentMagnitude"`
	AppliedAt           time.Time `json:"appliedAt" bson:"appliedAt"`
}

type DislikePatterns struct {
	ReasonDistribution map[DislikeReason]int `json:"reason_distribution"`
	RecentDislikes     int                   `json:"recent_dislikes"`
	AvgPredictedScore  float64               `json:"avg_predicted_score"`
	TotalDislikes      int                   `json:"total_dislikes"`
}
