// Package catalog mantiene la vista en memoria del catálogo de películas
// con los campos derivados ya precalculados. Se construye explícitamente
// y se inyecta: nada de estado global inicializado al importar.
package catalog

import (
	"strings"
	"sync"

	"github.com/cpark026/MovieNight/internal/models"
	"github.com/cpark026/MovieNight/internal/scoring"
)

// Movie es una película del catálogo con sus derivados precalculados.
type Movie struct {
	Doc        models.MovieDoc
	GenreSet   map[string]struct{}
	Cast       []string // nombres normalizados, en orden de aparición
	BaseTitle  string
	AvgRating  float64
	Count      int
	Popularity float64
}

// Store es la vista read-only del catálogo. Reload intercambia el
// snapshot completo bajo lock; las lecturas comparten el slice.
type Store struct {
	mu     sync.RWMutex
	movies []Movie
	byID   map[int]int // movieId -> índice en movies
}

// New precalcula los derivados de cada película y arma el índice por id.
func New(docs []models.MovieDoc) *Store {
	s := &Store{}
	s.replace(docs)
	return s
}

func (s *Store) replace(docs []models.MovieDoc) {
	movies := make([]Movie, 0, len(docs))
	byID := make(map[int]int, len(docs))

	for _, doc := range docs {
		m := Movie{
			Doc:       doc,
			GenreSet:  make(map[string]struct{}, len(doc.Genres)),
			BaseTitle: scoring.BaseTitle(doc.Title),
		}
		for _, g := range doc.Genres {
			g = strings.TrimSpace(g)
			if g != "" {
				m.GenreSet[g] = struct{}{}
			}
		}
		for _, c := range doc.Cast {
			if name := scoring.NormalizeCastName(c.Name); name != "" {
				m.Cast = append(m.Cast, name)
			}
		}
		if doc.RatingStats != nil {
			m.AvgRating = doc.RatingStats.Average
			m.Count = doc.RatingStats.Count
		}
		m.Popularity = scoring.PopularityScore(m.AvgRating, m.Count)

		if _, dup := byID[doc.MovieID]; !dup {
			byID[doc.MovieID] = len(movies)
			movies = append(movies, m)
		}
	}

	s.mu.Lock()
	s.movies = movies
	s.byID = byID
	s.mu.Unlock()
}

// Reload reemplaza el snapshot completo (recarga explícita bajo demanda).
func (s *Store) Reload(docs []models.MovieDoc) {
	s.replace(docs)
}

// Movies devuelve el snapshot actual. Los callers NO deben mutarlo.
func (s *Store) Movies() []Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.movies
}

// ByID busca una película por id de catálogo.
func (s *Store) ByID(movieID int) (Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[movieID]
	if !ok {
		return Movie{}, false
	}
	return s.movies[idx], true
}

// SetRatingStats actualiza in-place las estadísticas de rating de una
// película y recalcula su popularidad (el resto del snapshot no cambia).
func (s *Store) SetRatingStats(movieID int, avg float64, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.byID[movieID]
	if !ok {
		return
	}
	m := &s.movies[idx]
	m.AvgRating = avg
	m.Count = count
	m.Popularity = scoring.PopularityScore(avg, count)
	m.Doc.RatingStats = &models.RatingStats{Average: avg, Count: count}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}
