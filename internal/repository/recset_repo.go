package repository

import (
	"context"
	"time"

	"github.com/cpark026/MovieNight/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RecSetRepository struct {
	col *mongo.Collection
}

func NewRecSetRepository(db *mongo.Database) *RecSetRepository {
	return &RecSetRepository{col: db.Collection("recommendation_sets")}
}

// Insert guarda el set con sus items embebidos: una sola escritura atómica.
func (r *RecSetRepository) Insert(ctx context.Context, set *models.RecommendationSet) (string, error) {
	if set.ID == "" {
		set.ID = primitive.NewObjectID().Hex()
	}
	if set.GeneratedAt.IsZero() {
		set.GeneratedAt = time.Now()
	}
	_, err := r.col.InsertOne(ctx, set)
	if err != nil {
		return "", err
	}
	return set.ID, nil
}

// GetRecentValid trae los sets válidos del usuario generados desde `since`,
// más recientes primero.
func (r *RecSetRepository) GetRecentValid(ctx context.Context, userID int, since time.Time) ([]models.RecommendationSet, error) {
	cur, err := r.col.Find(ctx,
		bson.M{
			"userId":      userID,
			"isValid":     true,
			"generatedAt": bson.M{"$gt": since},
		},
		options.Find().SetSort(bson.D{{Key: "generatedAt", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.RecommendationSet
	for cur.Next(ctx) {
		var set models.RecommendationSet
		if err := cur.Decode(&set); err != nil {
			return nil, err
		}
		out = append(out, set)
	}
	return out, cur.Err()
}

// GetLatestByType devuelve el set válido más reciente de un tipo
// (el "más reciente y válido" por (user, type) que usan los lookups).
func (r *RecSetRepository) GetLatestByType(ctx context.Context, userID int, recType models.RecommendationType) (*models.RecommendationSet, error) {
	var set models.RecommendationSet
	err := r.col.FindOne(ctx,
		bson.M{"userId": userID, "type": recType, "isValid": true},
		options.FindOne().SetSort(bson.D{{Key: "generatedAt", Value: -1}}),
	).Decode(&set)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// InvalidateOld marca como inválidos los sets anteriores a `before`.
func (r *RecSetRepository) InvalidateOld(ctx context.Context, userID int, before time.Time) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{"userId": userID, "generatedAt": bson.M{"$lt": before}},
		bson.M{"$set": bson.M{"isValid": false}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *RecSetRepository) CountByUser(ctx context.Context, userID int) (int64, error) {
	filter := bson.M{}
	if userID != 0 {
		filter["userId"] = userID
	}
	return r.col.CountDocuments(ctx, filter)
}
