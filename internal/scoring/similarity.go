// Package scoring contiene las funciones puras de similitud y el score
// híbrido. Todo es determinista: mismas entradas, mismo score.
package scoring

import (
	"math"
	"regexp"
	"strings"

	"github.com/cpark026/MovieNight/internal/models"
)

// GenreSimilarity es el índice de Jaccard entre dos conjuntos de géneros.
// Devuelve 0.0 si alguno está vacío. Simétrica, rango [0,1].
func GenreSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	inter := 0
	for g := range a {
		if _, ok := b[g]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0.0
	}
	return float64(inter) / float64(union)
}

// castPositionWeight asigna peso por orden de aparición:
// protagonistas (0-4) pesan 1.0, secundarios (5-14) 0.7, el resto 0.3.
func castPositionWeight(pos int) float64 {
	switch {
	case pos < 5:
		return 1.0
	case pos < 15:
		return 0.7
	default:
		return 0.3
	}
}

// WeightCast convierte una lista ordenada de nombres en un mapa
// nombre -> peso posicional. El primer lugar de cada nombre gana.
func WeightCast(cast []string) map[string]float64 {
	weighted := make(map[string]float64, len(cast))
	for i, name := range cast {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := weighted[name]; !ok {
			weighted[name] = castPositionWeight(i)
		}
	}
	return weighted
}

// CastSimilarityWeighted es la estrategia posicional usada en el modo general:
// suma de pesos del cast de la película cuyos nombres están en el perfil,
// dividida entre el peso total del cast de la película. Recortada a [0,1].
func CastSimilarityWeighted(profileCast map[string]float64, movieCast []string) float64 {
	if len(profileCast) == 0 || len(movieCast) == 0 {
		return 0.0
	}
	movieWeighted := WeightCast(movieCast)
	if len(movieWeighted) == 0 {
		return 0.0
	}

	var overlap, total float64
	for name, w := range movieWeighted {
		total += w
		if _, ok := profileCast[name]; ok {
			overlap += w
		}
	}
	if total <= 0 {
		return 0.0
	}
	return math.Min(1.0, overlap/total)
}

// CastSimilaritySimple es la estrategia sin pesos usada en el modo
// last_added: |intersección| / |cast de la película|.
func CastSimilaritySimple(refCast map[string]struct{}, movieCast []string) float64 {
	if len(refCast) == 0 || len(movieCast) == 0 {
		return 0.0
	}
	movieSet := make(map[string]struct{}, len(movieCast))
	for _, name := range movieCast {
		name = strings.TrimSpace(name)
		if name != "" {
			movieSet[name] = struct{}{}
		}
	}
	if len(movieSet) == 0 {
		return 0.0
	}
	inter := 0
	for name := range movieSet {
		if _, ok := refCast[name]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(movieSet))
}

var (
	rePartVol       = regexp.MustCompile(`(?i)\s+(Part|Vol)\s+[IVX0-9]+`)
	reTrailingNum   = regexp.MustCompile(`\s+\d+$`)
	reSequelMarkers = regexp.MustCompile(`(?i):\s+(The\s+)?Sequel|Returns|Reborn|Unleashed`)
	reParenthetical = regexp.MustCompile(`\s+\(.*?\)`)
)

// BaseTitle normaliza un título a su clave de franquicia: quita "Part N",
// sufijos de secuela, anotaciones entre paréntesis y números finales,
// y pasa a minúsculas. El número final se quita al último: quitar
// ": The Sequel" o un paréntesis puede dejar un número expuesto
// ("Toy Story 2: The Sequel" -> "Toy Story 2" -> "toy story").
func BaseTitle(title string) string {
	if title == "" {
		return ""
	}
	title = rePartVol.ReplaceAllString(title, "")
	title = reSequelMarkers.ReplaceAllString(title, "")
	title = reParenthetical.ReplaceAllString(title, "")
	title = strings.TrimSpace(title)
	title = reTrailingNum.ReplaceAllString(title, "")
	return strings.ToLower(strings.TrimSpace(title))
}

// FranchiseSimilarity devuelve 1.0 si ambos títulos normalizan a la misma
// clave de franquicia no vacía, 0.0 en caso contrario.
func FranchiseSimilarity(titleA, titleB string) float64 {
	baseA := BaseTitle(titleA)
	baseB := BaseTitle(titleB)
	if baseA != "" && baseA == baseB {
		return 1.0
	}
	return 0.0
}

// PopularityScore combina rating promedio y volumen de ratings:
// 0.7*(avg/10) + 0.3*(log10(count+1)/3). Un count <= 0 no aporta.
func PopularityScore(avgRating float64, ratingCount int) float64 {
	ratingTerm := avgRating / 10.0
	countTerm := 0.0
	if ratingCount > 0 {
		countTerm = math.Log10(float64(ratingCount)+1) / 3.0
	}
	return 0.7*ratingTerm + 0.3*countTerm
}

// GenreBoost es el ajuste aditivo por confianza en el match de géneros.
// Los umbrales y magnitudes vienen de la config de la versión activa.
func GenreBoost(genreSim float64, cfg models.ScoringConfig) float64 {
	switch {
	case genreSim > cfg.ThresholdHigh:
		return cfg.BoostHigh
	case genreSim > cfg.ThresholdMed:
		return cfg.BoostMed
	case genreSim < cfg.ThresholdLow:
		return cfg.BoostLow
	default:
		return 0.0
	}
}

// HybridScore es la suma ponderada de componentes más el boost de género.
// Los pesos son parámetros (config de la versión activa), nunca literales.
func HybridScore(c models.ComponentScores, cfg models.ScoringConfig) float64 {
	return cfg.GenreWeight*c.GenreSim +
		cfg.CastWeight*c.CastSim +
		cfg.FranchiseWeight*c.FranchiseSim +
		cfg.RatingWeight*c.UserRatingNorm +
		cfg.PopularityWeight*c.PopularityScore +
		c.GenreBoost
}
