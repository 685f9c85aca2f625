package scoring

import (
	"math"
	"testing"

	"github.com/cpark026/MovieNight/internal/models"
)

func set(items ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		out[it] = struct{}{}
	}
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGenreSimilarity_Identical(t *testing.T) {
	a := set("Action", "Drama")
	if got := GenreSimilarity(a, a); got != 1.0 {
		t.Errorf("expected 1.0 for identical sets, got %f", got)
	}
}

func TestGenreSimilarity_Disjoint(t *testing.T) {
	if got := GenreSimilarity(set("Action"), set("Comedy")); got != 0.0 {
		t.Errorf("expected 0.0 for disjoint sets, got %f", got)
	}
}

func TestGenreSimilarity_Empty(t *testing.T) {
	if got := GenreSimilarity(nil, set("Action")); got != 0.0 {
		t.Errorf("expected 0.0 with empty set, got %f", got)
	}
	if got := GenreSimilarity(set("Action"), nil); got != 0.0 {
		t.Errorf("expected 0.0 with empty set, got %f", got)
	}
}

func TestGenreSimilarity_Partial(t *testing.T) {
	// {A,B} vs {B,C}: intersection 1, union 3
	got := GenreSimilarity(set("Action", "Drama"), set("Drama", "Comedy"))
	if !almostEqual(got, 1.0/3.0) {
		t.Errorf("expected 1/3, got %f", got)
	}
}

func TestWeightCast_PositionBands(t *testing.T) {
	cast := make([]string, 20)
	for i := range cast {
		cast[i] = string(rune('a' + i))
	}
	weighted := WeightCast(cast)

	if weighted["a"] != 1.0 {
		t.Errorf("position 0 should weigh 1.0, got %f", weighted["a"])
	}
	if weighted["e"] != 1.0 {
		t.Errorf("position 4 should weigh 1.0, got %f", weighted["e"])
	}
	if weighted["f"] != 0.7 {
		t.Errorf("position 5 should weigh 0.7, got %f", weighted["f"])
	}
	if weighted["o"] != 0.7 {
		t.Errorf("position 14 should weigh 0.7, got %f", weighted["o"])
	}
	if weighted["p"] != 0.3 {
		t.Errorf("position 15 should weigh 0.3, got %f", weighted["p"])
	}
}

func TestWeightCast_FirstOccurrenceWins(t *testing.T) {
	cast := []string{"lead", "b", "c", "d", "e", "f", "lead"}
	weighted := WeightCast(cast)
	if weighted["lead"] != 1.0 {
		t.Errorf("duplicate name should keep the first (higher) weight, got %f", weighted["lead"])
	}
}

func TestCastSimilarityWeighted_FullOverlap(t *testing.T) {
	profile := map[string]float64{"a": 1.0, "b": 1.0}
	if got := CastSimilarityWeighted(profile, []string{"a", "b"}); got != 1.0 {
		t.Errorf("expected 1.0 for full overlap, got %f", got)
	}
}

func TestCastSimilarityWeighted_NoOverlap(t *testing.T) {
	profile := map[string]float64{"x": 1.0}
	if got := CastSimilarityWeighted(profile, []string{"a", "b"}); got != 0.0 {
		t.Errorf("expected 0.0 for no overlap, got %f", got)
	}
}

func TestCastSimilarityWeighted_Empty(t *testing.T) {
	if got := CastSimilarityWeighted(nil, []string{"a"}); got != 0.0 {
		t.Errorf("expected 0.0 with empty profile, got %f", got)
	}
	if got := CastSimilarityWeighted(map[string]float64{"a": 1}, nil); got != 0.0 {
		t.Errorf("expected 0.0 with empty cast, got %f", got)
	}
}

func TestCastSimilaritySimple(t *testing.T) {
	ref := set("a", "b")
	// movie cast of 4 unique names, 2 in the reference
	got := CastSimilaritySimple(ref, []string{"a", "b", "c", "d"})
	if !almostEqual(got, 0.5) {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestBaseTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Mission Impossible Part II", "mission impossible"},
		{"Kill Bill Vol 2", "kill bill"},
		{"Toy Story 3", "toy story"},
		{"Batman Returns", "batman"},
		{"Alien: The Sequel", "alien"},
		{"Avatar (2009)", "avatar"},
		// el sufijo de secuela deja un número expuesto que también debe caer
		{"Toy Story 2: The Sequel", "toy story"},
		{"Blade Runner 2 (2017)", "blade runner"},
		{"Inception", "inception"},
		{"", ""},
	}
	for _, c := range cases {
		if got := BaseTitle(c.in); got != c.want {
			t.Errorf("BaseTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFranchiseSimilarity(t *testing.T) {
	if got := FranchiseSimilarity("Toy Story", "Toy Story 3"); got != 1.0 {
		t.Errorf("same franchise should give 1.0, got %f", got)
	}
	if got := FranchiseSimilarity("Toy Story 2: The Sequel", "Toy Story"); got != 1.0 {
		t.Errorf("stacked sequel markers should still match the franchise, got %f", got)
	}
	if got := FranchiseSimilarity("Toy Story", "Inception"); got != 0.0 {
		t.Errorf("different franchise should give 0.0, got %f", got)
	}
	// empty normalized titles never match each other
	if got := FranchiseSimilarity("", ""); got != 0.0 {
		t.Errorf("empty titles should give 0.0, got %f", got)
	}
}

func TestPopularityScore(t *testing.T) {
	// avg 8.0, count 99: 0.7*0.8 + 0.3*(log10(100)/3) = 0.56 + 0.2
	got := PopularityScore(8.0, 99)
	if !almostEqual(got, 0.76) {
		t.Errorf("expected 0.76, got %f", got)
	}
}

func TestPopularityScore_NoRatings(t *testing.T) {
	if got := PopularityScore(0, 0); got != 0.0 {
		t.Errorf("expected 0.0 with no ratings, got %f", got)
	}
}

func TestGenreBoost_Tiers(t *testing.T) {
	cfg := models.DefaultScoringConfig()

	cases := []struct {
		sim  float64
		want float64
	}{
		{0.8, 0.15},
		{0.6, 0.10},
		{0.4, 0.0},
		{0.2, -0.20},
	}
	for _, c := range cases {
		if got := GenreBoost(c.sim, cfg); !almostEqual(got, c.want) {
			t.Errorf("GenreBoost(%f) = %f, want %f", c.sim, got, c.want)
		}
	}
}

func TestHybridScore(t *testing.T) {
	cfg := models.DefaultScoringConfig()
	c := models.ComponentScores{
		GenreSim:        1.0,
		CastSim:         1.0,
		FranchiseSim:    1.0,
		UserRatingNorm:  1.0,
		PopularityScore: 1.0,
		GenreBoost:      0.15,
	}
	// 0.40 + 0.15 + 0.05 + 0.30 + 0.10 + 0.15 = 1.15
	if got := HybridScore(c, cfg); !almostEqual(got, 1.15) {
		t.Errorf("expected 1.15, got %f", got)
	}
}

func TestHybridScore_ZeroComponents(t *testing.T) {
	cfg := models.DefaultScoringConfig()
	if got := HybridScore(models.ComponentScores{}, cfg); got != 0.0 {
		t.Errorf("expected 0.0, got %f", got)
	}
}
