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

type FeedbackRepository struct {
	dislikes *mongo.Collection
	examples *mongo.Collection
	impacts  *mongo.Collection
}

func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{
		dislikes: db.Collection("dislikes"),
		examples: db.Collection("negative_training_examples"),
		impacts:  db.Collection("feedback_impacts"),
	}
}

func (r *FeedbackRepository) InsertDislike(ctx context.Context, d *models.DislikeRecord) (string, error) {
	if d.ID == "" {
		d.ID = primitive.NewObjectID().Hex()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	_, err := r.dislikes.InsertOne(ctx, d)
	if err != nil {
		return "", err
	}
	return d.ID, nil
}

func (r *FeedbackRepository) GetDislikesByUser(ctx context.Context, userID, limit int) ([]models.DislikeRecord, error) {
	cur, err := r.dislikes.Find(ctx,
		bson.M{"userId": userID},
		options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.DislikeRecord
	for cur.Next(ctx) {
		var d models.DislikeRecord
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, cur.Err()
}

// GetDislikesSince trae los dislikes del usuario desde `since` (para los
// patrones recientes). userID 0 = todos.
func (r *FeedbackRepository) GetDislikesSince(ctx context.Context, userID int, since time.Time) ([]models.DislikeRecord, error) {
	filter := bson.M{"createdAt": bson.M{"$gt": since}}
	if userID != 0 {
		filter["userId"] = userID
	}

	cur, err := r.dislikes.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.DislikeRecord
	for cur.Next(ctx) {
		var d models.DislikeRecord
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, cur.Err()
}

func (r *FeedbackRepository) CountDislikes(ctx context.Context, userID int) (int64, error) {
	filter := bson.M{}
	if userID != 0 {
		filter["userId"] = userID
	}
	return r.dislikes.CountDocuments(ctx, filter)
}

// ===== Ejemplos negativos de entrenamiento =====

func (r *FeedbackRepository) InsertNegativeExample(ctx context.Context, ex *models.NegativeTrainingExample) error {
	if ex.ID == "" {
		ex.ID = primitive.NewObjectID().Hex()
	}
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now()
	}
	_, err := r.examples.InsertOne(ctx, ex)
	return err
}

// CountUnused cuenta los ejemplos negativos que todavía no entraron a
// ningún ciclo de entrenamiento.
func (r *FeedbackRepository) CountUnused(ctx context.Context) (int64, error) {
	return r.examples.CountDocuments(ctx, bson.M{"usedInTraining": false})
}

func (r *FeedbackRepository) GetUnusedBatch(ctx context.Context, limit int) ([]models.NegativeTrainingExample, error) {
	cur, err := r.examples.Find(ctx,
		bson.M{"usedInTraining": false},
		options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: 1}}).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.NegativeTrainingExample
	for cur.Next(ctx) {
		var ex models.NegativeTrainingExample
		if err := cur.Decode(&ex); err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, cur.Err()
}

func (r *FeedbackRepository) MarkUsed(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.examples.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"usedInTraining": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ===== Impactos =====

func (r *FeedbackRepository) InsertImpacts(ctx context.Context, impacts []models.FeedbackImpact) error {
	if len(impacts) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(impacts))
	for i := range impacts {
		if impacts[i].ID == "" {
			impacts[i].ID = primitive.NewObjectID().Hex()
		}
		if impacts[i].AppliedAt.IsZero() {
			impacts[i].AppliedAt = time.Now()
		}
		docs = append(docs, impacts[i])
	}
	_, err := r.impacts.InsertMany(ctx, docs)
	return err
}

func (r *FeedbackRepository) GetImpactsByDislike(ctx context.Context, dislikeID string) ([]models.FeedbackImpact, error) {
	cur, err := r.impacts.Find(ctx, bson.M{"dislikeId": dislikeID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.FeedbackImpact
	for cur.Next(ctx) {
		var fi models.FeedbackImpact
		if err := cur.Decode(&fi); err != nil {
			return nil, err
		}
		out = append(out, fi)
	}
	return out, cur.Err()
}
