package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"taskhub/internal/model"
)

// TokenTTL is how long issued tokens stay valid.
const TokenTTL = 24 * time.Hour

// ErrInvalidToken is returned when a token fails verification or carries
// malformed claims.
var ErrInvalidToken = errors.New("invalid token")

// IssueToken signs a session token for the user: HS256 with user_id and
// role claims, expiring after TokenTTL.
func IssueToken(secret []byte, user *model.User) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["user_id"] = user.ID
	claims["role"] = string(user.Role)
	claims["exp"] = time.Now().Add(TokenTTL).Unix()

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ActorFromToken extracts the actor identity from a verified JWT. The echo
// JWT middleware has already checked the signature and expiry; this only
// pulls the claims out.
func ActorFromToken(token *jwt.Token) (Actor, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, ErrInvalidToken
	}
	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return Actor{}, ErrInvalidToken
	}
	role, ok := claims["role"].(string)
	if !ok || !model.Role(role).IsValid() {
		return Actor{}, ErrInvalidToken
	}
	return Actor{ID: id, Role: model.Role(role)}, nil
}
