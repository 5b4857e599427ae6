package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"time"

	"github.com/Baaaki/storefront/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
	ErrWrongTokenType = errors.New("wrong token type")
	ErrInvalidUID     = errors.New("invalid uid")
)

type TokenType string

const (
	TokenTypeAccess       TokenType = "access"
	TokenTypeRefresh      TokenType = "refresh"
	TokenTypeVerification TokenType = "email_verification"
)

type Claims struct {
	UserID    uuid.UUID   `json:"user_id"`
	Email     string      `json:"email,omitempty"`
	Role      models.Role `json:"role,omitempty"`
	TokenType TokenType   `json:"token_type"`
	// Fingerprint binds verification tokens to the user state they were issued for
	Fingerprint string `json:"fp,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token of the given type for user. Every token gets a
// unique jti so refresh tokens can be revoked individually.
func GenerateToken(user *models.User, tokenType TokenType, secretKey string, expiresIn time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID:    user.ID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	switch tokenType {
	case TokenTypeAccess:
		claims.Email = user.Email
		claims.Role = user.Role
	case TokenTypeVerification:
		claims.Fingerprint = UserFingerprint(user)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

// ValidateToken verifies signature, expiry and token type
func ValidateToken(tokenString, secretKey string, expected TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(secretKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != expected {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}

// CheckVerificationToken reports whether token was issued for user in its
// current state. A changed email or password invalidates older links.
func CheckVerificationToken(user *models.User, tokenString, secretKey string) bool {
	claims, err := ValidateToken(tokenString, secretKey, TokenTypeVerification)
	if err != nil {
		return false
	}
	if claims.UserID != user.ID {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(claims.Fingerprint), []byte(UserFingerprint(user))) == 1
}

// UserFingerprint hashes the mutable credential state of a user.
// The verified/active flags are left out so a used link stays valid
// and a repeated visit reports "already verified".
func UserFingerprint(user *models.User) string {
	h := sha256.New()
	h.Write([]byte(user.ID.String()))
	h.Write([]byte{0})
	h.Write([]byte(user.Email))
	h.Write([]byte{0})
	h.Write([]byte(user.PasswordHash))
	return hex.EncodeToString(h.Sum(nil))[:32]
}

// EncodeUID renders a user id for use in links
func EncodeUID(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id.String()))
}

// DecodeUID reverses EncodeUID
func DecodeUID(encoded string) (uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return uuid.Nil, ErrInvalidUID
	}
	id, err := uuid.Parse(string(raw))
	if err != nil {
		return uuid.Nil, ErrInvalidUID
	}
	return id, nil
}
