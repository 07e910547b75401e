package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/segmentio/ksuid"
)

const (
	DefaultSessionTTL = time.Hour
	DefaultResetTTL   = 15 * time.Minute

	sessionAudience = "session"
	resetAudience   = "password-reset"
)

// ErrInvalidToken is returned for forged, malformed, expired or wrong-domain tokens.
var ErrInvalidToken = errors.New("invalid token")

// SessionClaims are carried by the bearer token issued on login
type SessionClaims struct {
	UserID int    `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ResetClaims are carried by the password-reset link token
type ResetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTUtil issues and validates session and password-reset tokens.
// Each kind has its own secret, so a token of one kind never validates as the other.
type JWTUtil struct {
	sessionSecret []byte
	resetSecret   []byte
	sessionTTL    time.Duration
	resetTTL      time.Duration
	now           func() time.Time
}

// JWTOption customises a JWTUtil
type JWTOption func(*JWTUtil)

// WithSessionTTL overrides the session token lifetime
func WithSessionTTL(ttl time.Duration) JWTOption {
	return func(ju *JWTUtil) { ju.sessionTTL = ttl }
}

// WithResetTTL overrides the reset token lifetime
func WithResetTTL(ttl time.Duration) JWTOption {
	return func(ju *JWTUtil) { ju.resetTTL = ttl }
}

// WithClock replaces time.Now for issuing and validating tokens
func WithClock(now func() time.Time) JWTOption {
	return func(ju *JWTUtil) { ju.now = now }
}

// NewJWTUtil creates a new JWTUtil
func NewJWTUtil(sessionSecret, resetSecret string, opts ...JWTOption) *JWTUtil {
	ju := &JWTUtil{
		sessionSecret: []byte(sessionSecret),
		resetSecret:   []byte(resetSecret),
		sessionTTL:    DefaultSessionTTL,
		resetTTL:      DefaultResetTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(ju)
	}
	return ju
}

// ResetTTL is the lifetime of reset tokens, used to size the replay ledger entries.
func (ju *JWTUtil) ResetTTL() time.Duration {
	return ju.resetTTL
}

// GenerateSessionToken signs {user_id, role} with the session secret
func (ju *JWTUtil) GenerateSessionToken(userID int, role string) (string, error) {
	now := ju.now()
	claims := &SessionClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			Audience:  jwt.ClaimStrings{sessionAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ju.sessionTTL)),
		},
	}
	return sign(claims, ju.sessionSecret)
}

// ValidateSessionToken verifies signature, audience and expiry of a session token
func (ju *JWTUtil) ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := ju.parse(tokenString, claims, ju.sessionSecret, sessionAudience); err != nil {
		return nil, err
	}
	return claims, nil
}

// GenerateResetToken signs {email} with the reset secret. Every token gets a unique ID.
func (ju *JWTUtil) GenerateResetToken(email string) (string, error) {
	now := ju.now()
	claims := &ResetClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ksuid.New().String(),
			Audience:  jwt.ClaimStrings{resetAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ju.resetTTL)),
		},
	}
	return sign(claims, ju.resetSecret)
}

// ValidateResetToken verifies signature, audience and expiry of a reset token
func (ju *JWTUtil) ValidateResetToken(tokenString string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := ju.parse(tokenString, claims, ju.resetSecret, resetAudience); err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing email", ErrInvalidToken)
	}
	return claims, nil
}

func sign(claims jwt.Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (ju *JWTUtil) parse(tokenString string, claims jwt.Claims, secret []byte, audience string) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ju.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
