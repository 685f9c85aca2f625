package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/cpark026/MovieNight/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const (
	CtxUserID   ctxKey = "userId"
	CtxUserRole ctxKey = "role"
)

// JWTAuth valida el token Bearer (HS256, claims tipados) y deja userId y
// role en el contexto para los handlers de recomendaciones y del modelo.
func JWTAuth(secret string) func(http.Handler) http.Handler {
	secretBytes := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				http.Error(w, "falta el header Authorization (Bearer)", http.StatusUnauthorized)
				return
			}

			claims := &models.AccessClaims{}
			token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return secretBytes, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "token inválido o vencido", http.StatusUnauthorized)
				return
			}
			if claims.UserID <= 0 {
				http.Error(w, "token sin usuario", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), CtxUserID, claims.UserID)
			ctx = context.WithValue(ctx, CtxUserRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly protege las rutas de gestión del modelo y del catálogo.
func AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := r.Context().Value(CtxUserRole).(string)
			if role != models.RoleAdmin {
				http.Error(w, "se requiere rol admin", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext saca el userId que dejó JWTAuth; 0 si no hay sesión.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(CtxUserID).(int); ok {
		return id
	}
	return 0
}
