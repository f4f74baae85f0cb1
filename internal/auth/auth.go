package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims carried inside the bearer token. The subject is the user's email;
// the codec proves only that the claim was issued by us and is not past its
// embedded expiry. Session state is checked separately.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenCodec issues and validates signed bearer tokens.
type TokenCodec interface {
	Issue(email string) (token string, expiresAt time.Time, err error)
	Validate(tokenString string) (*Claims, error)
}

// JWTTokenCodec signs HS256 tokens with a secret injected at construction, so
// tests and key rotation never touch process globals.
type JWTTokenCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTTokenCodec(secret string, ttl time.Duration) *JWTTokenCodec {
	return &JWTTokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (c *JWTTokenCodec) Issue(email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(c.ttl)

	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

func (c *JWTTokenCodec) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		// Expired and tampered tokens are deliberately indistinguishable to
		// the caller.
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	return claims, nil
}

// VerifyPassword compares a plaintext candidate against a stored bcrypt hash.
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
