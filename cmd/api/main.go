package main

import (
	"context"
	"log"
	"net/http"
	"time"

	_ "github.com/cpark026/MovieNight/docs" // swagger docs

	"github.com/cpark026/MovieNight/internal/cache"
	"github.com/cpark026/MovieNight/internal/catalog"
	"github.com/cpark026/MovieNight/internal/config"
	"github.com/cpark026/MovieNight/internal/db"
	"github.com/cpark026/MovieNight/internal/handler"
	"github.com/cpark026/MovieNight/internal/repository"
	"github.com/cpark026/MovieNight/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title MovieNight Recommender API
// @version 1.0
// @description Recomendador híbrido de películas con tracking de calidad, versionado de modelo y feedback negativo
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	// Mongo y Redis
	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("[main] error conectando a Mongo: %v", err)
	}

	redisCache, err := cache.New(cfg)
	if err != nil {
		// sin Redis se sigue: el cache nil hace no-op
		log.Printf("[main] Redis no disponible, siguiendo sin cache: %v", err)
		redisCache = nil
	}

	// repos
	userRepo := repository.NewUserRepository(database)
	movieRepo := repository.NewMovieRepository(database)
	ratingRepo := repository.NewRatingRepository(database)
	recSetRepo := repository.NewRecSetRepository(database)
	qualityRepo := repository.NewQualityRepository(database)
	versionRepo := repository.NewVersionRepository(database)
	feedbackRepo := repository.NewFeedbackRepository(database)

	// catálogo en memoria con los derivados precalculados
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	docs, err := movieRepo.GetAll(ctx)
	cancel()
	if err != nil {
		log.Fatalf("[main] error cargando catálogo: %v", err)
	}
	cat := catalog.New(docs)
	log.Printf("[main] catálogo cargado: %d películas", cat.Len())

	// services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	movieSvc := service.NewMovieService(movieRepo, cat)
	trackerSvc := service.NewTrackerService(recSetRepo, qualityRepo)
	versionSvc := service.NewVersionService(versionRepo, qualityRepo, cfg.RetrainThreshold)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, cat, versionSvc, cfg.FeedbackThreshold)
	ratingSvc := service.NewRatingService(ratingRepo, movieRepo, cat, trackerSvc)
	recSvc := service.NewRecommendService(cat, ratingRepo, trackerSvc, versionSvc, feedbackSvc, redisCache)

	// handlers
	authH := handler.NewAuthHandler(authSvc)
	movieH := handler.NewMovieHandler(movieSvc)
	ratingH := handler.NewRatingHandler(ratingSvc)
	recH := handler.NewRecommendHandler(recSvc)
	feedbackH := handler.NewFeedbackHandler(feedbackSvc)
	modelH := handler.NewModelHandler(versionSvc, trackerSvc, feedbackSvc, movieSvc.ReloadCatalog)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", handler.Health)

	r.Post("/auth/register", authH.Register)
	r.Post("/auth/login", authH.Login)

	// Películas (públicas)
	r.Get("/movies/search", movieH.Search)
	r.Get("/movies/{id}", movieH.GetMovie)

	// ===========================
	// Rutas protegidas con JWT
	// ===========================
	authMw := handler.JWTAuth(cfg.JWTSecret)

	r.Group(func(r chi.Router) {
		r.Use(authMw)

		// ---- Endpoints /me (USER normal) ----
		r.Route("/me", func(r chi.Router) {
			r.Get("/ratings", ratingH.GetMyRatings)
			r.Post("/ratings", ratingH.PostMyRating)
			r.Get("/recommendations", recH.GetMyRecommendations)
			r.Post("/dislikes", feedbackH.PostDislike)
			r.Get("/dislikes", feedbackH.GetMyDislikes)
		})

		// ---- Endpoints solo ADMIN ----
		r.Group(func(r chi.Router) {
			r.Use(handler.AdminOnly())

			// gestión de películas
			r.Post("/admin/movies", movieH.CreateMovie)
			r.Put("/admin/movies/{id}", movieH.UpdateMovie)
			r.Post("/admin/catalog/reload", modelH.ReloadCatalog)

			// datos de cualquier usuario
			r.Route("/users/{id}", func(r chi.Router) {
				r.Get("/ratings", ratingH.GetRatings)
				r.Post("/ratings", ratingH.PostRating)

				// HTTP normal
				r.Get("/recommendations", recH.GetRecommendations)
				r.Get("/recommendations/latest", modelH.GetLatestSet)
				r.Get("/top-genre", recH.GetTopGenre)

				// WebSocket
				r.Get("/ws/recommendations", recH.GetRecommendationsWS)

				// calidad y feedback
				r.Get("/revalidation-status", modelH.GetRevalidationStatus)
				r.Get("/dislikes", feedbackH.GetDislikes)
				r.Get("/dislike-patterns", feedbackH.GetDislikePatterns)
			})

			// ciclo de vida del modelo
			r.Route("/admin/model", func(r chi.Router) {
				r.Get("/performance", modelH.GetPerformance)
				r.Get("/training-data", modelH.GetTrainingData)
				r.Get("/retrain-status", modelH.RetrainStatus)
				r.Post("/retrain", modelH.Retrain)

				r.Get("/versions", modelH.ListVersions)
				r.Get("/versions/active", modelH.GetActiveVersion)
				r.Post("/versions/{versionId}/activate", modelH.ActivateVersion)

				r.Get("/ab-tests", modelH.ListABTests)
				r.Post("/ab-tests", modelH.StartABTest)
				r.Post("/ab-tests/{testId}/evaluate", modelH.EvaluateABTest)
			})
		})
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log.Printf("HTTP escuchando en :%s", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, r))
}
