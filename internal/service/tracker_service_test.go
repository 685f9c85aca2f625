package service

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/cpark026/MovieNight/internal/models"
)

type fakeSetStore struct {
	sets        []models.RecommendationSet
	inserted    []*models.RecommendationSet
	invalidated int64
}

func (f *fakeSetStore) Insert(ctx context.Context, set *models.RecommendationSet) (string, error) {
	f.inserted = append(f.inserted, set)
	set.ID = fmt.Sprintf("set_%d", len(f.inserted))
	return set.ID, nil
}

func (f *fakeSetStore) GetRecentValid(ctx context.Context, userID int, since time.Time) ([]models.RecommendationSet, error) {
	return f.sets, nil
}

func (f *fakeSetStore) GetLatestByType(ctx context.Context, userID int, recType models.RecommendationType) (*models.RecommendationSet, error) {
	// f.sets viene ordenado más reciente primero, como el repo real
	for _, set := range f.sets {
		if set.Type == recType && set.IsValid {
			cp := set
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSetStore) InvalidateOld(ctx context.Context, userID int, before time.Time) (int64, error) {
	return f.invalidated, nil
}

func (f *fakeSetStore) CountByUser(ctx context.Context, userID int) (int64, error) {
	return int64(len(f.sets)), nil
}

type fakeQualityStore struct {
	records  []models.QualityRecord
	inserted []*models.QualityRecord
}

func (f *fakeQualityStore) Insert(ctx context.Context, rec *models.QualityRecord) error {
	f.inserted = append(f.inserted, rec)
	return nil
}

func (f *fakeQualityStore) GetSince(ctx context.Context, userID int, since time.Time) ([]models.QualityRecord, error) {
	return f.records, nil
}

func recSet(id string, recType models.RecommendationType, items ...models.RecommendationItem) models.RecommendationSet {
	return models.RecommendationSet{
		ID:          id,
		UserID:      7,
		Type:        recType,
		GeneratedAt: time.Now(),
		IsValid:     true,
		Items:       items,
	}
}

func recItem(movieID int, title string, rank int, predicted float64) models.RecommendationItem {
	return models.RecommendationItem{
		MovieID: movieID,
		Title:   title,
		Rank:    rank,
		Scores:  models.ComponentScores{HybridScore: predicted},
	}
}

func TestValidateAgainstRating_Found(t *testing.T) {
	sets := &fakeSetStore{sets: []models.RecommendationSet{
		recSet("set_1", models.RecTypeGeneral, recItem(42, "Inception", 1, 0.9)),
	}}
	quality := &fakeQualityStore{}
	svc := NewTrackerService(sets, quality)

	result, err := svc.ValidateAgainstRating(context.Background(), 7, 42, "Inception", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.WasInRecommendations {
		t.Fatal("expected a match")
	}
	if result.SetID != "set_1" {
		t.Errorf("SetID = %q", result.SetID)
	}
	if result.PredictedScore != 0.9 {
		t.Errorf("PredictedScore = %f", result.PredictedScore)
	}
	// actual 0.8, error 0.1: quality 0.9 and accurate
	if math.Abs(result.QualityScore-0.9) > 1e-9 {
		t.Errorf("QualityScore = %f, want 0.9", result.QualityScore)
	}
	if !result.IsAccurate {
		t.Error("error 0.1 should count as accurate")
	}

	if len(quality.inserted) != 1 {
		t.Fatalf("expected 1 quality record, got %d", len(quality.inserted))
	}
	rec := quality.inserted[0]
	if rec.SetID != "set_1" || rec.Type != models.RecTypeGeneral {
		t.Errorf("record set/type = %q/%q", rec.SetID, rec.Type)
	}
	if rec.ActualRating != 0.8 {
		t.Errorf("ActualRating should be stored normalized, got %f", rec.ActualRating)
	}
}

func TestValidateAgainstRating_NotFound(t *testing.T) {
	sets := &fakeSetStore{}
	quality := &fakeQualityStore{}
	svc := NewTrackerService(sets, quality)

	// rating bajo: sin el sentinel, "predicción 0 vs actual 0.1" contaría
	// como acierto y contaminaría la accuracy
	result, err := svc.ValidateAgainstRating(context.Background(), 7, 42, "Never Recommended", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.WasInRecommendations {
		t.Fatal("expected no match")
	}
	if result.PredictedScore != 0 {
		t.Errorf("PredictedScore = %f, want 0", result.PredictedScore)
	}
	if result.QualityScore != 0 {
		t.Errorf("QualityScore = %f, want 0", result.QualityScore)
	}
	if result.IsAccurate {
		t.Error("a never-recommended movie must not count as an accurate prediction")
	}

	// external ratings still produce a record, with the sentinel set id
	if len(quality.inserted) != 1 {
		t.Fatalf("expected 1 quality record, got %d", len(quality.inserted))
	}
	rec := quality.inserted[0]
	if rec.SetID != models.SetIDExternal {
		t.Errorf("SetID = %q, want sentinel", rec.SetID)
	}
	if rec.PredictedScore != 0 || rec.QualityScore != 0 || rec.WasCorrect {
		t.Errorf("external record must be 0/0/false, got %f/%f/%v",
			rec.PredictedScore, rec.QualityScore, rec.WasCorrect)
	}
}

func TestValidateAgainstRating_ExactBeatsSubstring(t *testing.T) {
	sets := &fakeSetStore{sets: []models.RecommendationSet{
		recSet("set_1", models.RecTypeGeneral,
			recItem(100, "Alien Resurrection", 1, 0.5), // substring match
			recItem(101, "Alien", 3, 0.7),              // exact title, worse rank
		),
	}}
	quality := &fakeQualityStore{}
	svc := NewTrackerService(sets, quality)

	result, err := svc.ValidateAgainstRating(context.Background(), 7, 0, "alien", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PredictedScore != 0.7 {
		t.Errorf("exact title should win over substring, predicted = %f", result.PredictedScore)
	}
}

func TestValidateAgainstRating_LowestRankWins(t *testing.T) {
	sets := &fakeSetStore{sets: []models.RecommendationSet{
		recSet("set_1", models.RecTypeGeneral, recItem(42, "Inception", 5, 0.6)),
		recSet("set_2", models.RecTypeLastAdded, recItem(42, "Inception", 2, 0.8)),
	}}
	quality := &fakeQualityStore{}
	svc := NewTrackerService(sets, quality)

	result, err := svc.ValidateAgainstRating(context.Background(), 7, 42, "Inception", 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SetID != "set_2" {
		t.Errorf("lower rank should win, got set %q", result.SetID)
	}
}

func TestCheckRevalidation_InsufficientData(t *testing.T) {
	svc := NewTrackerService(&fakeSetStore{}, &fakeQualityStore{
		records: []models.QualityRecord{{WasCorrect: true}, {WasCorrect: true}},
	})

	status, err := svc.CheckRevalidation(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.NeedsRevalidation {
		t.Error("2 records should not be enough to judge the model")
	}
	if status.Recommendation != "insufficient_data" {
		t.Errorf("Recommendation = %q", status.Recommendation)
	}
}

func TestCheckRevalidation_LowQualityTriggers(t *testing.T) {
	// avg quality (1.0 + 4*0.25) / 5 = 0.4, below 0.5
	records := []models.QualityRecord{
		{WasCorrect: true, QualityScore: 1.0, PredictedScore: 0.8, ActualRating: 0.8},
		{WasCorrect: false, QualityScore: 0.25, PredictedScore: 0.9, ActualRating: 0.2},
		{WasCorrect: false, QualityScore: 0.25, PredictedScore: 0.9, ActualRating: 0.2},
		{WasCorrect: false, QualityScore: 0.25, PredictedScore: 0.9, ActualRating: 0.2},
		{WasCorrect: false, QualityScore: 0.25, PredictedScore: 0.9, ActualRating: 0.2},
	}
	svc := NewTrackerService(&fakeSetStore{}, &fakeQualityStore{records: records})

	status, err := svc.CheckRevalidation(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.NeedsRevalidation {
		t.Error("avg quality 0.4 should trigger revalidation")
	}
	if math.Abs(status.Accuracy-0.4) > 1e-9 {
		t.Errorf("Accuracy = %f, want the average quality score 0.4", status.Accuracy)
	}
	if status.CorrectCount != 1 {
		t.Errorf("CorrectCount = %d", status.CorrectCount)
	}
	if status.Recommendation != "retrain_recommended" {
		t.Errorf("Recommendation = %q", status.Recommendation)
	}
}

func TestCheckRevalidation_HealthyModel(t *testing.T) {
	records := make([]models.QualityRecord, 5)
	for i := range records {
		records[i] = models.QualityRecord{WasCorrect: true, QualityScore: 0.9, PredictedScore: 0.8, ActualRating: 0.8}
	}
	svc := NewTrackerService(&fakeSetStore{}, &fakeQualityStore{records: records})

	status, _ := svc.CheckRevalidation(context.Background(), 7)
	if status.NeedsRevalidation {
		t.Error("perfect accuracy should not trigger revalidation")
	}
	if status.Recommendation != "model_performing_well" {
		t.Errorf("Recommendation = %q", status.Recommendation)
	}
}

func TestPerformanceMetrics_ByType(t *testing.T) {
	records := []models.QualityRecord{
		{Type: models.RecTypeGeneral, WasCorrect: true, QualityScore: 0.9},
		{Type: models.RecTypeGeneral, WasCorrect: false, QualityScore: 0.5},
		{Type: models.RecTypeGenreBased, WasCorrect: true, QualityScore: 1.0},
		{Type: "", WasCorrect: false, QualityScore: 0.0}, // rating externo
	}
	svc := NewTrackerService(&fakeSetStore{}, &fakeQualityStore{records: records})

	metrics, err := svc.PerformanceMetrics(context.Background(), 0, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if metrics.TotalValidated != 4 {
		t.Errorf("TotalValidated = %d", metrics.TotalValidated)
	}
	if metrics.AccuracyRate != 0.5 {
		t.Errorf("AccuracyRate = %f, want 0.5", metrics.AccuracyRate)
	}

	general := metrics.ByType[models.RecTypeGeneral]
	if general.Count != 2 || general.Accuracy == nil || *general.Accuracy != 0.5 {
		t.Errorf("general type metrics wrong: %+v", general)
	}
	if _, ok := metrics.ByType[""]; ok {
		t.Error("external ratings must not appear as a type")
	}

	// general comes before genre_based in the fixed type order
	if metrics.TopPerformingType != models.RecTypeGeneral {
		t.Errorf("TopPerformingType = %q", metrics.TopPerformingType)
	}
}

func TestPerformanceMetrics_Empty(t *testing.T) {
	svc := NewTrackerService(&fakeSetStore{}, &fakeQualityStore{})

	metrics, err := svc.PerformanceMetrics(context.Background(), 0, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.TotalValidated != 0 || metrics.AccuracyRate != 0 {
		t.Errorf("expected zeroed metrics, got %+v", metrics)
	}
}

func TestLatestSet(t *testing.T) {
	sets := &fakeSetStore{sets: []models.RecommendationSet{
		recSet("set_2", models.RecTypeGeneral, recItem(42, "Inception", 1, 0.9)),
		recSet("set_1", models.RecTypeGenreBased, recItem(7, "Alien", 1, 0.8)),
	}}
	svc := NewTrackerService(sets, &fakeQualityStore{})

	got, err := svc.LatestSet(context.Background(), 7, models.RecTypeGenreBased)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != "set_1" {
		t.Fatalf("expected set_1, got %+v", got)
	}

	// sin tipo explícito se asume general
	got, err = svc.LatestSet(context.Background(), 7, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.ID != "set_2" {
		t.Fatalf("empty type should default to general, got %+v", got)
	}

	got, err = svc.LatestSet(context.Background(), 7, models.RecTypeLastAdded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for a type with no sets, got %+v", got)
	}
}

func TestSaveSet_MarksValid(t *testing.T) {
	sets := &fakeSetStore{}
	svc := NewTrackerService(sets, &fakeQualityStore{})

	set := &models.RecommendationSet{UserID: 7, Type: models.RecTypeGeneral}
	id, err := svc.SaveSet(context.Background(), set)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Error("expected a set id")
	}
	if !set.IsValid {
		t.Error("saved sets start valid")
	}
}
