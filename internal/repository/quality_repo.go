package repository

import (
	"context"
	"time"

	"github.com/cpark026/MovieNight/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type QualityRepository struct {
	col *mongo.Collection
}

func NewQualityRepository(db *mongo.Database) *QualityRepository {
	return &QualityRepository{col: db.Collection("recommendation_quality")}
}

func (r *QualityRepository) Insert(ctx context.Context, rec *models.QualityRecord) error {
	if rec.ID == "" {
		rec.ID = primitive.NewObjectID().Hex()
	}
	if rec.CheckedAt.IsZero() {
		rec.CheckedAt = time.Now()
	}
	_, err := r.col.InsertOne(ctx, rec)
	return err
}

// GetSince trae los registros validados desde `since`. userID 0 = todos.
func (r *QualityRepository) GetSince(ctx context.Context, userID int, since time.Time) ([]models.QualityRecord, error) {
	filter := bson.M{"checkedAt": bson.M{"$gt": since}}
	if userID != 0 {
		filter["userId"] = userID
	}

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.QualityRecord
	for cur.Next(ctx) {
		var rec models.QualityRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, cur.Err()
}

// SampleRecent saca una muestra aleatoria de registros recientes ($sample)
// para evaluar una versión del modelo.
func (r *QualityRepository) SampleRecent(ctx context.Context, since time.Time, limit int) ([]models.QualityRecord, error) {
	pipeline := bson.A{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "checkedAt", Value: bson.D{{Key: "$gt", Value: since}}},
		}}},
		bson.D{{Key: "$sample", Value: bson.D{{Key: "size", Value: limit}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.QualityRecord
	for cur.Next(ctx) {
		var rec models.QualityRecord
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, cur.Err()
}

func (r *QualityRepository) CountByUser(ctx context.Context, userID int) (int64, error) {
	filter := bson.M{}
	if userID != 0 {
		filter["userId"] = userID
	}
	return r.col.CountDocuments(ctx, filter)
}
