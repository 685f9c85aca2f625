package models

type CastMember struct {
	Name       string `json:"name" bson:"name"`
	ProfileURL string `json:"profileUrl,omitempty" bson:"profileUrl,omitempty"`
}

type RatingStats struct {
	Average     float64 `json:"average" bson:"average"`
	Count       int     `json:"count" bson:"count"`
	LastRatedAt string  `json:"lastRatedAt,omitempty" bson:"lastRatedAt,omitempty"`
}

// MovieDoc es una película del catálogo (colección "movies").
// El cast mantiene el orden de aparición: las posiciones importan
// para la similitud ponderada.
type MovieDoc struct {
	MovieID             int          `json:"movieId" bson:"movieId"`
	Title               string       `json:"title" bson:"title"`
	Adult               bool         `json:"adult" bson:"adult"`
	Genres              []string     `json:"genres" bson:"genres"`
	Overview            string       `json:"overview,omitempty" bson:"overview,omitempty"`
	ProductionCompanies []string     `json:"productionCompanies,omitempty" bson:"productionCompanies,omitempty"`
	Cast                []CastMember `json:"cast,omitempty" bson:"cast,omitempty"`
	PosterURL           string       `json:"posterUrl,omitempty" bson:"posterUrl,omitempty"`
	RatingStats         *RatingStats `json:"ratingStats,omitempty" bson:"ratingStats,omitempty"`
	CreatedAt           string       `json:"createdAt" bson:"createdAt"`
	UpdatedAt           string       `json:"updatedAt" bson:"updatedAt"`
}
