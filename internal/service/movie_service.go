package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cpark026/MovieNight/internal/catalog"
	"github.com/cpark026/MovieNight/internal/models"
	"github.com/cpark026/MovieNight/internal/repository"
)

// MovieService maneja el catálogo persistido y mantiene sincronizada la
// vista en memoria que usa el motor de recomendaciones.
type MovieService struct {
	movies  *repository.MovieRepository
	catalog *catalog.Store
}

func NewMovieService(movies *repository.MovieRepository, cat *catalog.Store) *MovieService {
	return &MovieService{movies: movies, catalog: cat}
}

func (s *MovieService) GetByID(ctx context.Context, movieID int) (*models.MovieDoc, error) {
	// primero la vista en memoria, que ya tiene stats frescas
	if m, ok := s.catalog.ByID(movieID); ok {
		doc := m.Doc
		return &doc, nil
	}
	return s.movies.GetByID(ctx, movieID)
}

func (s *MovieService) Search(ctx context.Context, q, genre string, limit, offset int) ([]models.MovieDoc, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.movies.Search(ctx, q, genre, limit, offset)
}

// Create agrega una película al catálogo y recarga la vista en memoria.
func (s *MovieService) Create(ctx context.Context, m *models.MovieDoc) error {
	if m.MovieID == 0 || m.Title == "" {
		return fmt.Errorf("movieId y title son obligatorios")
	}
	existing, err := s.movies.GetByID(ctx, m.MovieID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("película %d ya existe", m.MovieID)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := s.movies.Insert(ctx, m); err != nil {
		return err
	}
	_, err = s.ReloadCatalog(ctx)
	return err
}

func (s *MovieService) Update(ctx context.Context, m *models.MovieDoc) error {
	existing, err := s.movies.GetByID(ctx, m.MovieID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("película %d no existe", m.MovieID)
	}

	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := s.movies.Update(ctx, m); err != nil {
		return err
	}
	_, err = s.ReloadCatalog(ctx)
	return err
}

// ReloadCatalog reconstruye la vista en memoria desde Mongo.
func (s *MovieService) ReloadCatalog(ctx context.Context) (int, error) {
	docs, err := s.movies.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	s.catalog.Reload(docs)
	return s.catalog.Len(), nil
}
