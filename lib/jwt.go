package lib

import (
	"fmt"
	"net/http"
	"strings"
	"time"
	"waitfaster_server/structs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const AccessCookieName = "access_token"

// ParseToken parses and validates a JWT token string and returns the claims
func ParseToken(tokenStr string, secret string) (*structs.AuthClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	subStr, ok := claims["sub"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: invalid sub claim", ErrInvalidToken)
	}

	sub, err := uuid.Parse(subStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid UUID in sub claim: %v", ErrInvalidToken, err)
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: invalid role claim", ErrInvalidToken)
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: invalid iat claim", ErrInvalidToken)
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: invalid exp claim", ErrInvalidToken)
	}

	jtiStr, ok := claims["jti"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: invalid jti claim", ErrInvalidToken)
	}

	jti, err := uuid.Parse(jtiStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid UUID in jti claim: %v", ErrInvalidToken, err)
	}

	return &structs.AuthClaims{
		Sub:  sub,
		Role: role,
		Iat:  time.Unix(int64(iat), 0),
		Exp:  time.Unix(int64(exp), 0),
		Jti:  jti,
	}, nil
}

// GenerateToken signs an HS256 access token. Token issuance belongs to the
// identity service; this exists for the --issue-token flag and tests.
func GenerateToken(userId uuid.UUID, role string, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userId.String(),
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(expiry).Unix(),
		"jti":  uuid.NewString(),
	})
	return token.SignedString([]byte(secret))
}

// ExtractClaims reads the bearer token from the Authorization header, or
// from the access cookie for clients that cannot set headers (EventSource).
func ExtractClaims(r *http.Request, secret string) (*structs.AuthClaims, error) {
	tokenStr := ""
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, value, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return nil, ErrInvalidToken
		}
		tokenStr = strings.TrimSpace(value)
	} else {
		cookie, err := GetCookieValue(AccessCookieName, r)
		if err != nil {
			return nil, ErrMissingToken
		}
		tokenStr = cookie
	}

	if tokenStr == "" {
		return nil, ErrMissingToken
	}

	return ParseToken(tokenStr, secret)
}
