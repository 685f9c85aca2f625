package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cpark026/MovieNight/internal/models"
)

type fakeVersionStore struct {
	versions map[string]*models.ModelVersion
	tests    map[string]*models.ABTest
}

func newFakeVersionStore() *fakeVersionStore {
	return &fakeVersionStore{
		versions: make(map[string]*models.ModelVersion),
		tests:    make(map[string]*models.ABTest),
	}
}

func (f *fakeVersionStore) Insert(ctx context.Context, v *models.ModelVersion) error {
	cp := *v
	f.versions[v.VersionID] = &cp
	return nil
}

func (f *fakeVersionStore) GetByID(ctx context.Context, versionID string) (*models.ModelVersion, error) {
	v, ok := f.versions[versionID]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (f *fakeVersionStore) GetActive(ctx context.Context) (*models.ModelVersion, error) {
	for _, v := range f.versions {
		if v.Status == models.VersionActive {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeVersionStore) UpdateMetrics(ctx context.Context, versionID string, accuracy float64, status models.VersionStatus) error {
	v := f.versions[versionID]
	v.TestAccuracy = &accuracy
	v.Status = status
	return nil
}

func (f *fakeVersionStore) Activate(ctx context.Context, versionID string) (*models.ModelVersion, error) {
	for _, v := range f.versions {
		if v.Status == models.VersionActive {
			v.Status = models.VersionInactive
		}
	}
	v := f.versions[versionID]
	v.Status = models.VersionActive
	cp := *v
	return &cp, nil
}

func (f *fakeVersionStore) List(ctx context.Context, limit int) ([]models.ModelVersion, error) {
	var out []models.ModelVersion
	for _, v := range f.versions {
		out = append(out, *v)
	}
	return out, nil
}

func (f *fakeVersionStore) InsertABTest(ctx context.Context, t *models.ABTest) error {
	cp := *t
	f.tests[t.TestID] = &cp
	return nil
}

func (f *fakeVersionStore) GetABTest(ctx context.Context, testID string) (*models.ABTest, error) {
	t, ok := f.tests[testID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeVersionStore) CompleteABTest(ctx context.Context, testID, winnerID string, confidence float64) error {
	t := f.tests[testID]
	t.Status = models.ABTestCompleted
	t.WinnerID = winnerID
	t.Confidence = confidence
	return nil
}

func (f *fakeVersionStore) ListABTests(ctx context.Context, limit int) ([]models.ABTest, error) {
	var out []models.ABTest
	for _, t := range f.tests {
		out = append(out, *t)
	}
	return out, nil
}

type fakeQualitySampler struct {
	records []models.QualityRecord
	sample  []models.QualityRecord

	// reconciliaciones por usuario; userID 0 devuelve records (global)
	byUser map[int][]models.QualityRecord
}

func (f *fakeQualitySampler) GetSince(ctx context.Context, userID int, since time.Time) ([]models.QualityRecord, error) {
	if userID != 0 {
		return f.byUser[userID], nil
	}
	return f.records, nil
}

func (f *fakeQualitySampler) SampleRecent(ctx context.Context, since time.Time, limit int) ([]models.QualityRecord, error) {
	if len(f.sample) > limit {
		return f.sample[:limit], nil
	}
	return f.sample, nil
}

func qualityRecord(movieID int, predicted, actual float64) models.QualityRecord {
	return models.QualityRecord{
		MovieID:        movieID,
		PredictedScore: predicted,
		ActualRating:   actual,
		WasCorrect:     predicted-actual <= accuracyTolerance && actual-predicted <= accuracyTolerance,
		CheckedAt:      time.Now(),
	}
}

func seedVersion(store *fakeVersionStore, id string, status models.VersionStatus, accuracy *float64) {
	store.versions[id] = &models.ModelVersion{
		VersionID:    id,
		Status:       status,
		CreatedAt:    time.Now(),
		Config:       models.DefaultScoringConfig(),
		TestAccuracy: accuracy,
	}
}

func f64(v float64) *float64 { return &v }

func TestActiveVersion_FallsBackToInitial(t *testing.T) {
	svc := NewVersionService(newFakeVersionStore(), &fakeQualitySampler{}, 0.65)

	v, err := svc.ActiveVersion(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.VersionID != models.InitialVersionID {
		t.Errorf("VersionID = %q, want %q", v.VersionID, models.InitialVersionID)
	}
	if v.Status != models.VersionActive {
		t.Errorf("Status = %q", v.Status)
	}
	if v.Config.GenreWeight != models.DefaultScoringConfig().GenreWeight {
		t.Error("fallback should carry the default config")
	}
}

func TestActiveVersion_PrefersStored(t *testing.T) {
	store := newFakeVersionStore()
	seedVersion(store, "v_custom", models.VersionActive, f64(0.8))
	svc := NewVersionService(store, &fakeQualitySampler{}, 0.65)

	v, _ := svc.ActiveVersion(context.Background())
	if v.VersionID != "v_custom" {
		t.Errorf("VersionID = %q", v.VersionID)
	}
}

func TestCreateVersion(t *testing.T) {
	store := newFakeVersionStore()
	svc := NewVersionService(store, &fakeQualitySampler{}, 0.65)

	v, err := svc.CreateVersion(context.Background(), "v_parent", "manual", models.DefaultScoringConfig(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Status != models.VersionTraining {
		t.Errorf("new versions start in training, got %q", v.Status)
	}
	if !strings.HasPrefix(v.VersionID, "v") {
		t.Errorf("VersionID = %q", v.VersionID)
	}
	if v.ParentVersionID != "v_parent" || v.RetrainTrigger != "manual" || v.TrainingSamples != 42 {
		t.Errorf("metadata not carried: %+v", v)
	}
	if store.versions[v.VersionID] == nil {
		t.Error("version not persisted")
	}
}

func TestEvaluate(t *testing.T) {
	store := newFakeVersionStore()
	seedVersion(store, "v_new", models.VersionTraining, nil)

	// 3 de 4 dentro de la tolerancia
	sampler := &fakeQualitySampler{sample: []models.QualityRecord{
		qualityRecord(1, 0.8, 0.8),
		qualityRecord(2, 0.7, 0.6),
		qualityRecord(3, 0.9, 0.75),
		qualityRecord(4, 0.9, 0.1),
	}}
	svc := NewVersionService(store, sampler, 0.65)

	metrics, err := svc.Evaluate(context.Background(), "v_new", defaultTestRatio)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.Accuracy != 0.75 {
		t.Errorf("Accuracy = %f, want 0.75", metrics.Accuracy)
	}
	if metrics.CorrectPredictions != 3 || metrics.TotalPredictions != 4 {
		t.Errorf("counts wrong: %+v", metrics)
	}

	v := store.versions["v_new"]
	if v.Status != models.VersionReady {
		t.Errorf("evaluated version should be ready, got %q", v.Status)
	}
	if v.TestAccuracy == nil || *v.TestAccuracy != 0.75 {
		t.Error("accuracy not persisted on the version")
	}
}

func TestEvaluate_MissingVersion(t *testing.T) {
	svc := NewVersionService(newFakeVersionStore(), &fakeQualitySampler{}, 0.65)
	if _, err := svc.Evaluate(context.Background(), "v_ghost", 0.2); err == nil {
		t.Fatal("expected error for unknown version")
	}
}

func TestEvaluate_NoData(t *testing.T) {
	store := newFakeVersionStore()
	seedVersion(store, "v_new", models.VersionTraining, nil)
	svc := NewVersionService(store, &fakeQualitySampler{}, 0.65)

	if _, err := svc.Evaluate(context.Background(), "v_new", 0.2); err == nil {
		t.Fatal("expected error without validation data")
	}
}

func TestActivate_RefusesTraining(t *testing.T) {
	store := newFakeVersionStore()
	seedVersion(store, "v_new", models.VersionTraining, nil)
	svc := NewVersionService(store, &fakeQualitySampler{}, 0.65)

	if _, err := svc.Activate(context.Background(), "v_new"); err == nil {
		t.Fatal("versions in training must not be activatable")
	}
}

func TestActivate_DemotesPrevious(t *testing.T) {
	store := newFakeVersionStore()
	seedVersion(store, "v_old", models.VersionActive, f64(0.7))
	seedVersion(store, "v_new", models.VersionReady, f64(0.8))
	svc := NewVersionService(store, &fakeQualitySampler{}, 0.65)

	v, err := svc.Activate(context.Background(), "v_new")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Status != models.VersionActive {
		t.Errorf("Status = %q", v.Status)
	}
	if store.versions["v_old"].Status != models.VersionInactive {
		t.Error("previous active version should be demoted")
	}
}

func TestWeightedTrainingData(t *testing.T) {
	var records []models.QualityRecord
	// 5 aciertos para la película 1, 5 fallos para la 2
	for i := 0; i < 5; i++ {
		records = append(records,
			models.QualityRecord{MovieID: 1, MovieTitle: "Good", PredictedScore: 0.8, ActualRating: 0.8, WasCorrect: true},
			models.QualityRecord{MovieID: 2, MovieTitle: "Bad", PredictedScore: 0.9, ActualRating: 0.1, WasCorrect: false},
		)
	}
	// la película 3 no llega al mínimo de muestras
	records = append(records,
		models.QualityRecord{MovieID: 3, MovieTitle: "Sparse", PredictedScore: 0.5, ActualRating: 0.5, WasCorrect: true},
	)
	sampler := &fakeQualitySampler{records: records}
	svc := NewVersionService(newFakeVersionStore(), sampler, 0.65)

	data, err := svc.WeightedTrainingData(context.Background(), 0, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.TotalPredictions != 11 || data.SampleCount != 2 {
		t.Errorf("counts wrong: total=%d movies=%d", data.TotalPredictions, data.SampleCount)
	}
	if _, ok := data.MovieStats[3]; ok {
		t.Error("movies under the sample minimum must be dropped")
	}

	good := data.MovieStats[1]
	if good.Accuracy != 1.0 || good.Weight != 1.1 {
		t.Errorf("all-correct movie: accuracy=%f weight=%f, want 1.0/1.1", good.Accuracy, good.Weight)
	}
	bad := data.MovieStats[2]
	if bad.Accuracy != 0.0 || bad.Weight != 0.1 {
		t.Errorf("all-wrong movie: accuracy=%f weight=%f, want 0.0/0.1", bad.Accuracy, bad.Weight)
	}
}

func TestWeightedTrainingData_NilWhenInsufficient(t *testing.T) {
	svc := NewVersionService(newFakeVersionStore(), &fakeQualitySampler{}, 0.65)

	data, err := svc.WeightedTrainingData(context.Background(), 0, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != nil {
		t.Errorf("no records should yield nil data, got %+v", data)
	}

	// registros que no superan el mínimo por película
	sampler := &fakeQualitySampler{records: []models.QualityRecord{
		{MovieID: 1, PredictedScore: 0.8, ActualRating: 0.8, WasCorrect: true},
		{MovieID: 2, PredictedScore: 0.7, ActualRating: 0.7, WasCorrect: true},
	}}
	svc = NewVersionService(newFakeVersionStore(), sampler, 0.65)

	data, err = svc.WeightedTrainingData(context.Background(), 0, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != nil {
		t.Error("movies below the sample minimum should yield nil data")
	}
}

func TestWeightedTrainingData_ScopedToUser(t *testing.T) {
	user := make([]models.QualityRecord, 5)
	for i := range user {
		user[i] = models.QualityRecord{MovieID: 9, MovieTitle: "Mine", PredictedScore: 0.8, ActualRating: 0.8, WasCorrect: true}
	}
	global := make([]models.QualityRecord, 5)
	for i := range global {
		global[i] = models.QualityRecord{MovieID: 1, MovieTitle: "Everyone", PredictedScore: 0.7, ActualRating: 0.7, WasCorrect: true}
	}
	sampler := &fakeQualitySampler{
		records: global,
		byUser:  map[int][]models.QualityRecord{7: user},
	}
	svc := NewVersionService(newFakeVersionStore(), sampler, 0.65)

	data, err := svc.WeightedTrainingData(context.Background(), 7, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data == nil {
		t.Fatal("expected user-scoped data")
	}
	if _, ok := data.MovieStats[9]; !ok {
		t.Error("user's own reconciliations missing")
	}
	if _, ok := data.MovieStats[1]; ok {
		t.Error("other users' reconciliations must not leak into a scoped request")
	}

	data, err = svc.WeightedTrainingData(context.Background(), 0, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data == nil || data.MovieStats[1] == nil {
		t.Error("userID 0 should keep returning global data")
	}
}

func TestShouldRetrain(t *testing.T) {
	svc := NewVersionService(newFakeVersionStore(), &fakeQualitySampler{}, 0.65)

	check, err := svc.ShouldRetrain(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.ShouldRetrain {
		t.Error("no evidence should mean no retrain")
	}

	// 1 de 4 correctas: accuracy 0.25, bajo el umbral 0.65
	sampler := &fakeQualitySampler{records: []models.QualityRecord{
		{WasCorrect: true}, {WasCorrect: false}, {WasCorrect: false}, {WasCorrect: false},
	}}
	svc = NewVersionService(newFakeVersionStore(), sampler, 0.65)

	check, _ = svc.ShouldRetrain(context.Background())
	if !check.ShouldRetrain {
		t.Error("accuracy 0.25 should trigger retrain")
	}
	if check.Accuracy != 0.25 {
		t.Errorf("Accuracy = %f", check.Accuracy)
	}
}

func TestRetrain_ActivatesWhenNotWorse(t *testing.T) {
	store := newFakeVersionStore()
	seedVersion(store, "v_parent", models.VersionActive, f64(0.5))

	sampler := &fakeQualitySampler{
		records: []models.QualityRecord{qualityRecord(1, 0.8, 0.8)},
		sample: []models.QualityRecord{
			qualityRecord(1, 0.8, 0.8),
			qualityRecord(2, 0.7, 0.65),
		},
	}
	svc := NewVersionService(store, sampler, 0.65)

	v, metrics, err := svc.Retrain(context.Background(), "manual", models.DefaultScoringConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.Accuracy != 1.0 {
		t.Errorf("Accuracy = %f", metrics.Accuracy)
	}
	if v.Status != models.VersionActive {
		t.Errorf("better child should be activated, got %q", v.Status)
	}
	if v.ParentVersionID != "v_parent" {
		t.Errorf("ParentVersionID = %q", v.ParentVersionID)
	}
	if store.versions["v_parent"].Status != models.VersionInactive {
		t.Error("parent should be demoted")
	}
}

func TestRetrain_KeepsParentWhenWorse(t *testing.T) {
	store := newFakeVersionStore()
	seedVersion(store, "v_parent", models.VersionActive, f64(0.9))

	sampler := &fakeQualitySampler{
		records: []models.QualityRecord{qualityRecord(1, 0.9, 0.1)},
		sample: []models.QualityRecord{
			qualityRecord(1, 0.9, 0.1),
			qualityRecord(2, 0.8, 0.8),
		},
	}
	svc := NewVersionService(store, sampler, 0.65)

	v, metrics, err := svc.Retrain(context.Background(), "low_accuracy", models.DefaultScoringConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metrics.Accuracy != 0.5 {
		t.Errorf("Accuracy = %f", metrics.Accuracy)
	}
	if v.Status == models.VersionActive {
		t.Error("worse child must not replace the parent")
	}
	if store.versions["v_parent"].Status != models.VersionActive {
		t.Error("parent should stay active")
	}
}

func TestStartABTest_Validations(t *testing.T) {
	store := newFakeVersionStore()
	seedVersion(store, "v_a", models.VersionReady, f64(0.6))
	svc := NewVersionService(store, &fakeQualitySampler{}, 0.65)

	if _, err := svc.StartABTest(context.Background(), "v_a", "v_a", 24); err == nil {
		t.Error("identical versions should be rejected")
	}
	if _, err := svc.StartABTest(context.Background(), "v_a", "v_ghost", 24); err == nil {
		t.Error("unknown version should be rejected")
	}
}

func TestStartABTest(t *testing.T) {
	store := newFakeVersionStore()
	seedVersion(store, "v_a", models.VersionReady, f64(0.6))
	seedVersion(store, "v_b", models.VersionReady, f64(0.55))
	svc := NewVersionService(store, &fakeQualitySampler{}, 0.65)

	test, err := svc.StartABTest(context.Background(), "v_a", "v_b", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if test.Status != models.ABTestRunning {
		t.Errorf("Status = %q", test.Status)
	}
	if test.DurationH != 24 {
		t.Errorf("duration should default to 24h, got %d", test.DurationH)
	}
	if !strings.HasPrefix(test.TestID, "ab_") {
		t.Errorf("TestID = %q", test.TestID)
	}
}

func TestEvaluateABTest_WinnerByAccuracy(t *testing.T) {
	store := newFakeVersionStore()
	seedVersion(store, "v_a", models.VersionReady, f64(0.60))
	seedVersion(store, "v_b", models.VersionReady, f64(0.55))
	svc := NewVersionService(store, &fakeQualitySampler{}, 0.65)

	test, _ := svc.StartABTest(context.Background(), "v_a", "v_b", 24)

	done, err := svc.EvaluateABTest(context.Background(), test.TestID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done.WinnerID != "v_a" {
		t.Errorf("WinnerID = %q, want v_a", done.WinnerID)
	}
	if done.Confidence != 0.60 {
		t.Errorf("Confidence = %f, want the winner's accuracy", done.Confidence)
	}
	if done.Status != models.ABTestCompleted {
		t.Errorf("Status = %q", done.Status)
	}
	if done.EndedAt == nil {
		t.Error("EndedAt should be set")
	}
}

func TestEvaluateABTest_BWinsAndTieGoesToA(t *testing.T) {
	store := newFakeVersionStore()
	seedVersion(store, "v_a", models.VersionReady, f64(0.50))
	seedVersion(store, "v_b", models.VersionReady, f64(0.70))
	seedVersion(store, "v_c", models.VersionReady, f64(0.50))
	svc := NewVersionService(store, &fakeQualitySampler{}, 0.65)

	test, _ := svc.StartABTest(context.Background(), "v_a", "v_b", 24)
	done, _ := svc.EvaluateABTest(context.Background(), test.TestID)
	if done.WinnerID != "v_b" {
		t.Errorf("WinnerID = %q, want v_b", done.WinnerID)
	}

	tie, _ := svc.StartABTest(context.Background(), "v_a", "v_c", 24)
	done, _ = svc.EvaluateABTest(context.Background(), tie.TestID)
	if done.WinnerID != "v_a" {
		t.Errorf("tie should go to A, got %q", done.WinnerID)
	}
}

func TestEvaluateABTest_Idempotent(t *testing.T) {
	store := newFakeVersionStore()
	seedVersion(store, "v_a", models.VersionReady, f64(0.60))
	seedVersion(store, "v_b", models.VersionReady, f64(0.55))
	svc := NewVersionService(store, &fakeQualitySampler{}, 0.65)

	test, _ := svc.StartABTest(context.Background(), "v_a", "v_b", 24)
	first, _ := svc.EvaluateABTest(context.Background(), test.TestID)
	second, err := svc.EvaluateABTest(context.Background(), test.TestID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.WinnerID != first.WinnerID || second.Status != models.ABTestCompleted {
		t.Error("re-evaluating a completed test should return the stored verdict")
	}

	if _, err := svc.EvaluateABTest(context.Background(), "ab_ghost"); err == nil {
		t.Error("unknown test should error")
	}
}
