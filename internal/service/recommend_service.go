package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/cpark026/MovieNight/internal/cache"
	"github.com/cpark026/MovieNight/internal/catalog"
	"github.com/cpark026/MovieNight/internal/models"
	"github.com/cpark026/MovieNight/internal/scoring"
)

const (
	DefaultK = 10
	MaxK     = 50 // por seguridad, no deja pedir 1000 ítems

	// en cuántos pedazos se parte el catálogo para puntuar en paralelo
	scoringShards = 4

	recCacheTTL = time.Hour
)

type recRatingStore interface {
	GetAllByUser(ctx context.Context, userID int) ([]models.RatingDoc, error)
	GetLastAdded(ctx context.Context, userID int) (*models.RatingDoc, error)
}

// setSaver persiste el set generado para poder reconciliarlo después.
type setSaver interface {
	SaveSet(ctx context.Context, set *models.RecommendationSet) (string, error)
}

// configProvider entrega la config de la versión activa del modelo.
type configProvider interface {
	ActiveConfig(ctx context.Context) (string, models.ScoringConfig, error)
}

// movieFilter entrega las películas que el usuario pidió no volver a ver
// (dislikes already_watched).
type movieFilter interface {
	FilteredMovies(ctx context.Context, userID int) (map[int]struct{}, error)
}

type RecommendService struct {
	catalog  *catalog.Store
	ratings  recRatingStore
	tracker  setSaver
	versions configProvider
	filters  movieFilter
	cache    *cache.Cache
}

func NewRecommendService(
	cat *catalog.Store,
	ratings recRatingStore,
	tracker setSaver,
	versions configProvider,
	filters movieFilter,
	c *cache.Cache,
) *RecommendService {
	return &RecommendService{
		catalog:  cat,
		ratings:  ratings,
		tracker:  tracker,
		versions: versions,
		filters:  filters,
		cache:    c,
	}
}

// ====== Petición de recomendaciones (solo parámetros que sí cambian en runtime) ======

type RecRequest struct {
	UserID  int
	Type    models.RecommendationType
	K       int
	Refresh bool

	// Progress se llama al terminar cada shard (para el canal websocket).
	// Puede ser nil.
	Progress func(done, total int)
}

type RecResult struct {
	SetID     string                      `json:"setId,omitempty"`
	Type      models.RecommendationType   `json:"type"`
	VersionID string                      `json:"modelVersionId"`
	Items     []models.RecommendationItem `json:"items"`
}

func cacheKey(req RecRequest) string {
	// Cachea por usuario + tipo + k (refresh solo decide si usar cache)
	return fmt.Sprintf("rec:user:%d:type:%s:k:%d", req.UserID, req.Type, req.K)
}

// Recommend genera el top-K para el usuario en el modo pedido, usando los
// pesos de la versión activa del modelo.
func (s *RecommendService) Recommend(ctx context.Context, req RecRequest) (*RecResult, error) {
	if req.Type == "" {
		req.Type = models.RecTypeGeneral
	}
	if req.K <= 0 {
		req.K = DefaultK
	} else if req.K > MaxK {
		req.K = MaxK
	}

	// 1) Cache Redis (solo si refresh = false)
	if !req.Refresh {
		var cached RecResult
		if ok, err := s.cache.GetJSON(ctx, cacheKey(req), &cached); err == nil && ok {
			return &cached, nil
		}
	}

	// 2) Historial del usuario, resuelto contra el catálogo en memoria
	ratings, err := s.ratings.GetAllByUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	// excluded junta lo ya calificado con lo filtrado por feedback
	rated := make([]scoring.RatedMovie, 0, len(ratings))
	excluded := make(map[int]struct{}, len(ratings))
	for _, r := range ratings {
		excluded[r.MovieID] = struct{}{}
		if m, ok := s.catalog.ByID(r.MovieID); ok {
			rated = append(rated, scoring.RatedMovie{Movie: m.Doc, Rating: r.Rating})
		}
	}

	// películas marcadas already_watched: fuera del scoring para siempre
	if s.filters != nil {
		filtered, err := s.filters.FilteredMovies(ctx, req.UserID)
		if err != nil {
			log.Printf("[recommend] error consultando filtros del usuario %d: %v", req.UserID, err)
		} else {
			for id := range filtered {
				excluded[id] = struct{}{}
			}
		}
	}

	// Sin historial no hay perfil: respuesta vacía, no error.
	if len(rated) == 0 {
		return &RecResult{Type: req.Type, Items: []models.RecommendationItem{}}, nil
	}

	versionID, cfg, err := s.versions.ActiveConfig(ctx)
	if err != nil {
		return nil, err
	}

	// 3) Puntuar según el modo
	var items []models.RecommendationItem
	switch req.Type {
	case models.RecTypeLastAdded:
		items, err = s.scoreLastAdded(ctx, req, rated, excluded, cfg)
	case models.RecTypeGenreBased:
		items = s.scoreGenreBased(req, rated, excluded)
	default:
		items = s.scoreGeneral(req, rated, excluded, cfg)
	}
	if err != nil {
		return nil, err
	}

	items = topK(items, req.K)

	result := &RecResult{
		Type:      req.Type,
		VersionID: versionID,
		Items:     items,
	}

	// 4) Guardar el set en Mongo (no rompemos la respuesta si falla)
	if s.tracker != nil && len(items) > 0 {
		set := &models.RecommendationSet{
			UserID:      req.UserID,
			Type:        req.Type,
			GeneratedAt: time.Now(),
			IsValid:     true,
			Items:       items,
		}
		setID, err := s.tracker.SaveSet(ctx, set)
		if err != nil {
			log.Printf("[recommend] error guardando set en Mongo: %v", err)
		} else {
			result.SetID = setID
		}
	}

	// 5) Cachear en Redis (1 hora)
	if err := s.cache.SetJSON(ctx, cacheKey(req), result, recCacheTTL); err != nil {
		log.Printf("[recommend] error cacheando en Redis: %v", err)
	}

	return result, nil
}

// topK ordena por score descendente y recorta. El sort es estable: en
// empates gana la película que aparece primero en el catálogo.
func topK(items []models.RecommendationItem, k int) []models.RecommendationItem {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Scores.HybridScore > items[j].Scores.HybridScore
	})
	if len(items) > k {
		items = items[:k]
	}
	for i := range items {
		items[i].Rank = i + 1
	}
	return items
}

// forEachShard parte el catálogo en pedazos contiguos y puntúa en paralelo
// con goroutines + channels. Los parciales se re-ensamblan en orden de shard,
// así el orden del catálogo se conserva antes del sort estable.
func (s *RecommendService) forEachShard(
	req RecRequest,
	score func(m catalog.Movie) (models.RecommendationItem, bool),
) []models.RecommendationItem {

	movies := s.catalog.Movies()
	shards := scoringShards
	if len(movies) < shards {
		shards = 1
	}
	chunk := (len(movies) + shards - 1) / shards

	partials := make([][]models.RecommendationItem, shards)
	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0

	for shardID := 0; shardID < shards; shardID++ {
		lo := shardID * chunk
		hi := lo + chunk
		if hi > len(movies) {
			hi = len(movies)
		}

		wg.Add(1)
		go func(shardID, lo, hi int) {
			defer wg.Done()

			var part []models.RecommendationItem
			for _, m := range movies[lo:hi] {
				if item, ok := score(m); ok {
					part = append(part, item)
				}
			}
			partials[shardID] = part

			if req.Progress != nil {
				mu.Lock()
				done++
				req.Progress(done, shards)
				mu.Unlock()
			}
		}(shardID, lo, hi)
	}
	wg.Wait()

	var items []models.RecommendationItem
	for _, part := range partials {
		items = append(items, part...)
	}
	return items
}

// ====== Modo general: perfil agregado de todo el historial ======

func (s *RecommendService) scoreGeneral(
	req RecRequest,
	rated []scoring.RatedMovie,
	excluded map[int]struct{},
	cfg models.ScoringConfig,
) []models.RecommendationItem {

	profile := scoring.BuildUserProfile(rated)

	// claves de franquicia de todo el historial
	profileBases := make(map[string]struct{}, len(profile.Titles))
	for _, t := range profile.Titles {
		if base := scoring.BaseTitle(t); base != "" {
			profileBases[base] = struct{}{}
		}
	}

	return s.forEachShard(req, func(m catalog.Movie) (models.RecommendationItem, bool) {
		if _, seen := excluded[m.Doc.MovieID]; seen {
			return models.RecommendationItem{}, false
		}

		genreSim := scoring.GenreSimilarity(profile.Genres, m.GenreSet)
		castSim := scoring.CastSimilarityWeighted(profile.Cast, m.Cast)

		franchiseSim := 0.0
		if _, ok := profileBases[m.BaseTitle]; ok && m.BaseTitle != "" {
			franchiseSim = 1.0
		}

		scores := models.ComponentScores{
			GenreSim:        genreSim,
			CastSim:         castSim,
			FranchiseSim:    franchiseSim,
			UserRatingNorm:  profile.RatingAvg,
			PopularityScore: m.Popularity,
			GenreBoost:      scoring.GenreBoost(genreSim, cfg),
		}
		scores.HybridScore = scoring.HybridScore(scores, cfg)

		return models.RecommendationItem{
			MovieID:     m.Doc.MovieID,
			Title:       m.Doc.Title,
			Scores:      scores,
			CastOverlap: castOverlap(profile.Cast, m.Cast),
		}, true
	})
}

func castOverlap(profileCast map[string]float64, movieCast []string) []string {
	var out []string
	for _, name := range movieCast {
		if _, ok := profileCast[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// ====== Modo last_added: similitud contra la última película calificada ======

// Pesos fijos del modo: sin popularidad y con más peso al rating de la
// película de referencia.
func lastAddedConfig(cfg models.ScoringConfig) models.ScoringConfig {
	cfg.GenreWeight = 0.45
	cfg.CastWeight = 0.15
	cfg.FranchiseWeight = 0.05
	cfg.RatingWeight = 0.35
	cfg.PopularityWeight = 0
	return cfg
}

func (s *RecommendService) scoreLastAdded(
	ctx context.Context,
	req RecRequest,
	rated []scoring.RatedMovie,
	excluded map[int]struct{},
	cfg models.ScoringConfig,
) ([]models.RecommendationItem, error) {

	last, err := s.ratings.GetLastAdded(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	var ref catalog.Movie
	var refRating float64
	haveRef := false
	if last != nil {
		if m, ok := s.catalog.ByID(last.MovieID); ok {
			ref, refRating, haveRef = m, last.Rating, true
		}
	}
	if !haveRef {
		// la referencia ya no está en el catálogo: degradamos a general
		log.Printf("[recommend] last_added sin referencia para usuario %d, usando modo general", req.UserID)
		return s.scoreGeneral(req, rated, excluded, cfg), nil
	}

	refCast := make(map[string]struct{}, len(ref.Cast))
	for _, name := range ref.Cast {
		refCast[name] = struct{}{}
	}
	modeCfg := lastAddedConfig(cfg)

	items := s.forEachShard(req, func(m catalog.Movie) (models.RecommendationItem, bool) {
		if _, seen := excluded[m.Doc.MovieID]; seen {
			return models.RecommendationItem{}, false
		}

		franchiseSim := 0.0
		if m.BaseTitle != "" && m.BaseTitle == ref.BaseTitle {
			franchiseSim = 1.0
		}

		scores := models.ComponentScores{
			GenreSim:       scoring.GenreSimilarity(ref.GenreSet, m.GenreSet),
			CastSim:        scoring.CastSimilaritySimple(refCast, m.Cast),
			FranchiseSim:   franchiseSim,
			UserRatingNorm: refRating / 10.0,
		}
		scores.HybridScore = scoring.HybridScore(scores, modeCfg)

		return models.RecommendationItem{
			MovieID:        m.Doc.MovieID,
			Title:          m.Doc.Title,
			Scores:         scores,
			ReferenceMovie: ref.Doc.Title,
		}, true
	})
	return items, nil
}

// ====== Modo genre_based: top del género más frecuente ======

func (s *RecommendService) scoreGenreBased(
	req RecRequest,
	rated []scoring.RatedMovie,
	excluded map[int]struct{},
) []models.RecommendationItem {

	topGenre, _ := scoring.MostCommonGenre(rated)
	if topGenre == "" {
		return []models.RecommendationItem{}
	}

	return s.forEachShard(req, func(m catalog.Movie) (models.RecommendationItem, bool) {
		if _, seen := excluded[m.Doc.MovieID]; seen {
			return models.RecommendationItem{}, false
		}
		if _, has := m.GenreSet[topGenre]; !has {
			return models.RecommendationItem{}, false
		}

		scores := models.ComponentScores{
			GenreMatch: 1.0,
		}
		scores.HybridScore = 0.70*scores.GenreMatch + 0.30*(m.AvgRating/10.0)

		return models.RecommendationItem{
			MovieID:        m.Doc.MovieID,
			Title:          m.Doc.Title,
			Scores:         scores,
			ReferenceMovie: topGenre,
		}, true
	})
}

// MostCommonGenre expone el género dominante del historial (endpoint aparte).
func (s *RecommendService) MostCommonGenre(ctx context.Context, userID int) (string, int, error) {
	ratings, err := s.ratings.GetAllByUser(ctx, userID)
	if err != nil {
		return "", 0, err
	}
	var rated []scoring.RatedMovie
	for _, r := range ratings {
		if m, ok := s.catalog.ByID(r.MovieID); ok {
			rated = append(rated, scoring.RatedMovie{Movie: m.Doc, Rating: r.Rating})
		}
	}
	genre, count := scoring.MostCommonGenre(rated)
	return genre, count, nil
}
