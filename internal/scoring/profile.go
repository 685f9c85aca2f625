package scoring

import (
	"strings"

	"github.com/cpark026/MovieNight/internal/models"
)

// RatedMovie es una película del catálogo junto al rating que le dio el usuario.
type RatedMovie struct {
	Movie  models.MovieDoc
	Rating float64 // escala 0-10, siempre > 0
}

// UserProfile es el perfil de gustos agregado de un usuario.
type UserProfile struct {
	MovieIDs  map[int]struct{}
	Genres    map[string]struct{}
	Cast      map[string]float64 // nombre -> peso posicional
	Titles    []string           // para detección de franquicias
	RatingAvg float64            // promedio ponderado, normalizado a [0,1]
}

// BuildUserProfile agrega las películas calificadas en un perfil.
// Devuelve nil con historial vacío: el caller lo trata como
// "sin recomendaciones posibles", no como error.
//
// El promedio es Σw²/Σw con w = rating/10: sobre-pondera a propósito
// las películas que el usuario calificó alto.
func BuildUserProfile(rated []RatedMovie) *UserProfile {
	if len(rated) == 0 {
		return nil
	}

	p := &UserProfile{
		MovieIDs: make(map[int]struct{}, len(rated)),
		Genres:   make(map[string]struct{}),
	}

	var sumW, sumW2 float64
	var combinedCast []string

	for _, rm := range rated {
		p.MovieIDs[rm.Movie.MovieID] = struct{}{}
		p.Titles = append(p.Titles, rm.Movie.Title)

		w := rm.Rating / 10.0
		sumW += w
		sumW2 += w * w

		for _, g := range rm.Movie.Genres {
			g = strings.TrimSpace(g)
			if g != "" {
				p.Genres[g] = struct{}{}
			}
		}
		for _, c := range rm.Movie.Cast {
			name := NormalizeCastName(c.Name)
			if name != "" {
				combinedCast = append(combinedCast, name)
			}
		}
	}

	// El peso posicional se aplica sobre el orden combinado de todo el
	// historial; la primera aparición de cada nombre decide su banda.
	p.Cast = WeightCast(combinedCast)

	if sumW > 0 {
		p.RatingAvg = sumW2 / sumW
	}
	return p
}

// CastSet devuelve los nombres del perfil como set simple (modo last_added).
func (p *UserProfile) CastSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Cast))
	for name := range p.Cast {
		set[name] = struct{}{}
	}
	return set
}

// NormalizeCastName pasa el nombre a minúsculas para comparar casts.
func NormalizeCastName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// MostCommonGenre devuelve el género más frecuente del historial.
// Empates: gana el primero que alcanzó el máximo, en orden de aparición.
func MostCommonGenre(rated []RatedMovie) (string, int) {
	counts := make(map[string]int)
	var order []string

	for _, rm := range rated {
		for _, g := range rm.Movie.Genres {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			if _, seen := counts[g]; !seen {
				order = append(order, g)
			}
			counts[g]++
		}
	}

	best, bestCount := "", 0
	for _, g := range order {
		if counts[g] > bestCount {
			best, bestCount = g, counts[g]
		}
	}
	return best, bestCount
}
