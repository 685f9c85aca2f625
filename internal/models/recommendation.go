package models

import "time"

// RecommendationType es el modo con el que se generó un set de recomendaciones.
type RecommendationType string

const (
	RecTypeGeneral    RecommendationType = "general"
	RecTypeLastAdded  RecommendationType = "last_added"
	RecTypeGenreBased RecommendationType = "genre_based"
)

// RecommendationTypes lista los modos soportados (en orden estable).
var RecommendationTypes = []RecommendationType{RecTypeGeneral, RecTypeLastAdded, RecTypeGenreBased}

func ParseRecommendationType(s string) (RecommendationType, bool) {
	switch RecommendationType(s) {
	case RecTypeGeneral, RecTypeLastAdded, RecTypeGenreBased:
		return RecommendationType(s), true
	}
	return "", false
}

// ComponentScores guarda cada componente del score híbrido tal cual se calculó,
// para poder reconciliar después contra el rating real.
type ComponentScores struct {
	GenreSim        float64 `json:"genre_sim" bson:"genreSim"`
	CastSim         float64 `json:"cast_sim" bson:"castSim"`
	FranchiseSim    float64 `json:"franchise_sim" bson:"franchiseSim"`
	UserRatingNorm  float64 `json:"user_rating_norm" bson:"userRatingNorm"`
	PopularityScore float64 `json:"popularity_score" bson:"popularityScore"`
	GenreBoost      float64 `json:"genre_boost" bson:"genreBoost"`
	GenreMatch      float64 `json:"genre_match" bson:"genreMatch"`
	HybridScore     float64 `json:"hybrid_score" bson:"hybridScore"`
}

type RecommendationItem struct {
	MovieID        int             `json:"movieId" bson:"movieId"`
	Title          string          `json:"title" bson:"title"`
	Rank           int             `json:"rank" bson:"rank"`
	Scores         ComponentScores `json:"scores" bson:"scores"`
	CastOverlap    []string        `json:"castOverlap,omitempty" bson:"castOverlap,omitempty"`
	ReferenceMovie string          `json:"referenceMovie,omitempty" bson:"referenceMovie,omitempty"`
}

// RecommendationSet es un batch de recomendaciones mostrado a un usuario.
// Los items van embebidos: el insert del set completo es una sola operación
// atómica en Mongo.
type RecommendationSet struct {
	ID                string               `json:"id" bson:"_id,omitempty"`
	UserID            int                  `json:"userId" bson:"userId"`
	Type              RecommendationType   `json:"type" bson:"type"`
	GeneratedAt       time.Time            `json:"generatedAt" bson:"generatedAt"`
	IsValid           bool                 `json:"isValid" bson:"isValid"`
	RevalidationCount int                  `json:"revalidationCount" bson:"revalidationCount"`
	Items             []RecommendationItem `json:"items" bson:"items"`
}
