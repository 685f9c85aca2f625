package service

import (
	"context"
	"fmt"
	"log"

	"github.com/cpark026/MovieNight/internal/catalog"
	"github.com/cpark026/MovieNight/internal/models"
)

type ratingStatsStore interface {
	Upsert(ctx context.Context, userID, movieID int, rating float64) error
	GetByUser(ctx context.Context, userID, limit, offset int) ([]models.RatingDoc, error)
	StatsForMovie(ctx context.Context, movieID int) (float64, int, error)
}

type movieStatsWriter interface {
	UpdateRatingStats(ctx context.Context, movieID int, avg float64, count int) error
}

type ratingValidator interface {
	ValidateAgainstRating(ctx context.Context, userID, movieID int, movieTitle string, rating float64) (*models.ValidationResult, error)
}

// RatingService registra ratings y dispara el circuito de calidad:
// refresca las estadísticas de la película y reconcilia contra las
// recomendaciones que el usuario recibió.
type RatingService struct {
	ratings ratingStatsStore
	movies  movieStatsWriter
	catalog *catalog.Store
	tracker ratingValidator
}

func NewRatingService(ratings ratingStatsStore, movies movieStatsWriter, cat *catalog.Store, tracker ratingValidator) *RatingService {
	return &RatingService{
		ratings: ratings,
		movies:  movies,
		catalog: cat,
		tracker: tracker,
	}
}

// RateMovie guarda (o actualiza) el rating y devuelve la reconciliación
// contra las recomendaciones recientes. El refresco de estadísticas es
// best-effort: no rompe la operación principal.
func (s *RatingService) RateMovie(ctx context.Context, userID, movieID int, rating float64) (*models.ValidationResult, error) {
	if rating < 0 || rating > 10 {
		return nil, fmt.Errorf("rating fuera de rango (0-10): %g", rating)
	}
	movie, ok := s.catalog.ByID(movieID)
	if !ok {
		return nil, fmt.Errorf("película %d no existe en el catálogo", movieID)
	}

	if err := s.ratings.Upsert(ctx, userID, movieID, rating); err != nil {
		return nil, err
	}

	// refrescar stats en Mongo y en el catálogo en memoria
	if avg, count, err := s.ratings.StatsForMovie(ctx, movieID); err != nil {
		log.Printf("[rating] error recalculando stats de %d: %v", movieID, err)
	} else {
		if err := s.movies.UpdateRatingStats(ctx, movieID, avg, count); err != nil {
			log.Printf("[rating] error guardando stats de %d: %v", movieID, err)
		}
		s.catalog.SetRatingStats(movieID, avg, count)
	}

	result, err := s.tracker.ValidateAgainstRating(ctx, userID, movieID, movie.Doc.Title, rating)
	if err != nil {
		log.Printf("[rating] error validando rating de %d/%d: %v", userID, movieID, err)
		return nil, nil
	}
	return result, nil
}

func (s *RatingService) UserRatings(ctx context.Context, userID, limit, offset int) ([]models.RatingDoc, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.ratings.GetByUser(ctx, userID, limit, offset)
}
