package models

import "github.com/golang-jwt/jwt/v5"

type UserDoc struct {
	UserID       int    `json:"userId" bson:"userId"`
	Email        string `json:"email" bson:"email"`
	Username     string `json:"username,omitempty" bson:"username,omitempty"`
	PasswordHash string `json:"passwordHash" bson:"passwordHash"`
	Role         string `json:"role" bson:"role"`
	CreatedAt    string `json:"createdAt" bson:"createdAt"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// AccessClaims son los claims tipados del token de acceso. El userId va
// como claim propio (numérico); Subject lleva su forma en texto.
type AccessClaims struct {
	UserID int    `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
