package models

// Lo que está en Mongo (colección "ratings")
type RatingDoc struct {
	UserID    int     `json:"userId" bson:"userId"`
	MovieID   int     `json:"movieId" bson:"movieId"`
	Rating    float64 `json:"rating" bson:"rating"` // escala 0-10
	Timestamp int64   `json:"timestamp" bson:"timestamp"`
}
