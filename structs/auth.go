package structs

import (
	"time"

	"github.com/google/uuid"
)

type AuthClaims struct {
	Sub  uuid.UUID `json:"sub"`
	Role string    `json:"role"`
	Iat  time.Time `json:"iat"`
	Exp  time.Time `json:"exp"`
	Jti  uuid.UUID `json:"jti"`
}
