package repository

import (
	"context"
	"time"

	"github.com/cpark026/MovieNight/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type VersionRepository struct {
	versions *mongo.Collection
	abTests  *mongo.Collection
}

func NewVersionRepository(db *mongo.Database) *VersionRepository {
	return &VersionRepository{
		versions: db.Collection("model_versions"),
		abTests:  db.Collection("ab_tests"),
	}
}

func (r *VersionRepository) Insert(ctx context.Context, v *models.ModelVersion) error {
	_, err := r.versions.InsertOne(ctx, v)
	return err
}

func (r *VersionRepository) GetByID(ctx context.Context, versionID string) (*models.ModelVersion, error) {
	var v models.ModelVersion
	err := r.versions.FindOne(ctx, bson.M{"versionId": versionID}).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &v, err
}

// GetActive devuelve la versión activa vigente: status=active y con
// activeUntil en el futuro (o sin vencimiento).
func (r *VersionRepository) GetActive(ctx context.Context) (*models.ModelVersion, error) {
	var v models.ModelVersion
	err := r.versions.FindOne(ctx, bson.M{
		"status": models.VersionActive,
		"$or": bson.A{
			bson.M{"activeUntil": bson.M{"$exists": false}},
			bson.M{"activeUntil": nil},
			bson.M{"activeUntil": bson.M{"$gt": time.Now()}},
		},
	}).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &v, err
}

// UpdateMetrics guarda el resultado de la evaluación sobre la versión.
func (r *VersionRepository) UpdateMetrics(ctx context.Context, versionID string, accuracy float64, status models.VersionStatus) error {
	_, err := r.versions.UpdateOne(ctx,
		bson.M{"versionId": versionID},
		bson.M{"$set": bson.M{"testAccuracy": accuracy, "status": status}},
	)
	return err
}

// Activate hace el switch atómico: desactiva lo activo y promueve la versión.
// Primero el UpdateMany y después un FindOneAndUpdate, así nunca quedan dos
// versiones activas a la vez.
func (r *VersionRepository) Activate(ctx context.Context, versionID string) (*models.ModelVersion, error) {
	_, err := r.versions.UpdateMany(ctx,
		bson.M{"status": models.VersionActive},
		bson.M{"$set": bson.M{"status": models.VersionInactive}},
	)
	if err != nil {
		return nil, err
	}

	// la versión promovida vence a los 30 días; GetActive la ignora vencida
	until := time.Now().AddDate(0, 0, 30)
	var v models.ModelVersion
	err = r.versions.FindOneAndUpdate(ctx,
		bson.M{"versionId": versionID},
		bson.M{"$set": bson.M{"status": models.VersionActive, "activeUntil": until}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&v)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VersionRepository) List(ctx context.Context, limit int) ([]models.ModelVersion, error) {
	cur, err := r.versions.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ModelVersion
	for cur.Next(ctx) {
		var v models.ModelVersion
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, cur.Err()
}

func (r *VersionRepository) CountByStatus(ctx context.Context, status models.VersionStatus) (int64, error) {
	return r.versions.CountDocuments(ctx, bson.M{"status": status})
}

// ===== A/B tests =====

func (r *VersionRepository) InsertABTest(ctx context.Context, t *models.ABTest) error {
	_, err := r.abTests.InsertOne(ctx, t)
	return err
}

func (r *VersionRepository) GetABTest(ctx context.Context, testID string) (*models.ABTest, error) {
	var t models.ABTest
	err := r.abTests.FindOne(ctx, bson.M{"testId": testID}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	return &t, err
}

func (r *VersionRepository) CompleteABTest(ctx context.Context, testID, winnerID string, confidence float64) error {
	_, err := r.abTests.UpdateOne(ctx,
		bson.M{"testId": testID},
		bson.M{"$set": bson.M{
			"status":     models.ABTestCompleted,
			"winnerId":   winnerID,
			"confidence": confidence,
			"endedAt":    time.Now(),
		}},
	)
	return err
}

func (r *VersionRepository) ListABTests(ctx context.Context, limit int) ([]models.ABTest, error) {
	cur, err := r.abTests.Find(ctx, bson.M{},
		options.Find().
			SetSort(bson.D{{Key: "startedAt", Value: -1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ABTest
	for cur.Next(ctx) {
		var t models.ABTest
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, cur.Err()
}
