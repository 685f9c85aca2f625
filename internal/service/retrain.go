package service

import (
	"context"
	"log"

	"github.com/cpark026/MovieNight/internal/models"
)

// RunRetrainCycle ejecuta un ciclo completo de reentrenamiento: parte de la
// config activa, le aplica los ajustes acumulados por feedback, entrena y
// evalúa la versión hija, y consume los ejemplos negativos usados.
// Lo comparten el endpoint manual y el worker de fondo.
func RunRetrainCycle(
	ctx context.Context,
	versions *VersionService,
	feedback *FeedbackService,
	trigger string,
) (*models.ModelVersion, *models.EvalMetrics, error) {

	_, baseCfg, err := versions.ActiveConfig(ctx)
	if err != nil {
		return nil, nil, err
	}

	cfg, exampleIDs, err := feedback.AdjustedConfig(ctx, baseCfg)
	if err != nil {
		return nil, nil, err
	}

	version, metrics, err := versions.Retrain(ctx, trigger, cfg)
	if err != nil {
		return version, metrics, err
	}

	if len(exampleIDs) > 0 {
		if n, err := feedback.MarkExamplesUsed(ctx, exampleIDs); err != nil {
			log.Printf("[retrain] error marcando ejemplos usados: %v", err)
		} else {
			log.Printf("[retrain] %d ejemplos negativos consumidos", n)
		}
	}
	return version, metrics, nil
}
