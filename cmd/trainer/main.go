package main

import (
	"context"
	"log"
	"time"

	"github.com/cpark026/MovieNight/internal/catalog"
	"github.com/cpark026/MovieNight/internal/config"
	"github.com/cpark026/MovieNight/internal/db"
	"github.com/cpark026/MovieNight/internal/repository"
	"github.com/cpark026/MovieNight/internal/service"
)

// El trainer corre aparte del API: cada intervalo revisa los dos
// disparadores (accuracy baja en la última semana, dislikes acumulados sin
// consumir) y si alguno salta ejecuta un ciclo de reentrenamiento.
func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("[trainer] error conectando a Mongo: %v", err)
	}

	movieRepo := repository.NewMovieRepository(database)
	qualityRepo := repository.NewQualityRepository(database)
	versionRepo := repository.NewVersionRepository(database)
	feedbackRepo := repository.NewFeedbackRepository(database)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	docs, err := movieRepo.GetAll(ctx)
	cancel()
	if err != nil {
		log.Fatalf("[trainer] error cargando catálogo: %v", err)
	}
	cat := catalog.New(docs)
	log.Printf("[trainer] catálogo cargado: %d películas", cat.Len())

	versionSvc := service.NewVersionService(versionRepo, qualityRepo, cfg.RetrainThreshold)
	feedbackSvc := service.NewFeedbackService(feedbackRepo, cat, versionSvc, cfg.FeedbackThreshold)

	interval := time.Duration(cfg.TrainerIntervalMin) * time.Minute
	log.Printf("[trainer] arrancando, intervalo %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// primera pasada inmediata, después una por tick
	runCycle(versionSvc, feedbackSvc)
	for range ticker.C {
		runCycle(versionSvc, feedbackSvc)
	}
}

func runCycle(versions *service.VersionService, feedback *service.FeedbackService) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	accuracyCheck, err := versions.ShouldRetrain(ctx)
	if err != nil {
		log.Printf("[trainer] error chequeando accuracy: %v", err)
		return
	}
	feedbackCheck, err := feedback.ShouldRetrainFromFeedback(ctx)
	if err != nil {
		log.Printf("[trainer] error chequeando feedback: %v", err)
		return
	}

	var trigger string
	switch {
	case accuracyCheck.ShouldRetrain:
		trigger = "low_accuracy"
		log.Printf("[trainer] accuracy %.3f bajo el umbral %.3f (%d muestras)",
			accuracyCheck.Accuracy, accuracyCheck.Threshold, accuracyCheck.Samples)
	case feedbackCheck.ShouldRetrain:
		trigger = "feedback_accumulation"
		log.Printf("[trainer] %d ejemplos negativos sin consumir (umbral %d)",
			feedbackCheck.UnusedCount, feedbackCheck.Threshold)
	default:
		log.Printf("[trainer] sin disparadores: accuracy=%.3f muestras=%d dislikes_pendientes=%d",
			accuracyCheck.Accuracy, accuracyCheck.Samples, feedbackCheck.UnusedCount)
		return
	}

	version, metrics, err := service.RunRetrainCycle(ctx, versions, feedback, trigger)
	if err != nil {
		log.Printf("[trainer] ciclo de retrain falló: %v", err)
		return
	}
	log.Printf("[trainer] versión %s entrenada (accuracy=%.3f sobre %d predicciones, estado=%s)",
		version.VersionID, metrics.Accuracy, metrics.TotalPredictions, version.Status)
}
