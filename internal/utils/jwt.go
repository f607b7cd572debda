package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any access token that fails to parse,
// verify or carry the expected claims.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken is a signed HS256 JWT and its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// RefreshToken is the raw value handed to the client.  Only its SHA-256
// hash is stored.
type RefreshToken struct {
	Raw string
	Exp time.Time
}

// Identity is what an access token asserts about its bearer.
type Identity struct {
	UserID     uint64
	Email      string
	AdminLevel int
}

// NewAccessToken signs a token whose subject is the user's email.  The
// admin claim carries the administrative level and uid the numeric ID used
// by the refresh flow.
func NewAccessToken(secret string, id Identity, ttlMin int) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   id.Email,
		"uid":   id.UserID,
		"admin": id.AdminLevel,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw with secret and extracts the Identity.
func ParseAccessToken(secret, raw string) (Identity, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	email, _ := claims["sub"].(string)
	if email == "" {
		return Identity{}, ErrInvalidToken
	}
	// JSON numbers decode as float64.
	admin, _ := claims["admin"].(float64)
	uid, _ := claims["uid"].(float64)
	return Identity{UserID: uint64(uid), Email: email, AdminLevel: int(admin)}, nil
}

// NewRefreshToken returns a random 96 hex character token valid for
// ttlDays.
func NewRefreshToken(ttlDays int) (RefreshToken, error) {
	raw, err := randomHex(48)
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: raw,
		Exp: time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour),
	}, nil
}

// HashRefreshRaw returns the hex SHA-256 of a raw refresh token.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
