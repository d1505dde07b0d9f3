package types

import (
	"github.com/google/uuid"
)

// TokenClaims is what the auth middleware extracts from a validated JWT.
type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
}
