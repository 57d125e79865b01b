// Package auth implements the register's access gate: one shared
// passphrase exchanged for a signed session token. There is no per-user
// identity; the token only carries the session ID that owns a cart.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

var (
	ErrBadPassphrase = errors.New("incorrect passphrase")
	ErrRateLimited   = errors.New("too many attempts, slow down")
	ErrInvalidToken  = errors.New("invalid or expired token")
)

type Gate struct {
	passphrase     string // plain compare, dev setups
	passphraseHash string // bcrypt hash, preferred when set
	secret         []byte
	tokenTTL       time.Duration
	limiter        *rate.Limiter
	now            func() time.Time
}

func NewGate(passphrase, passphraseHash, jwtSecret string, tokenTTL time.Duration) *Gate {
	return &Gate{
		passphrase:     passphrase,
		passphraseHash: passphraseHash,
		secret:         []byte(jwtSecret),
		tokenTTL:       tokenTTL,
		// A human at a register types a passphrase a few times a minute at
		// most; anything faster is a guessing loop.
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		now:     time.Now,
	}
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Login checks the shared passphrase and returns a signed session token
// plus the session ID embedded in it.
func (g *Gate) Login(passphrase string) (token, sessionID string, err error) {
	if !g.limiter.Allow() {
		return "", "", ErrRateLimited
	}
	if !g.verify(passphrase) {
		return "", "", ErrBadPassphrase
	}

	sessionID = uuid.NewString()
	now := g.now()
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.tokenTTL)),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, sessionID, nil
}

// Validate parses a bearer token and returns the session ID it carries.
func (g *Gate) Validate(token string) (string, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return g.secret, nil
	})
	if err != nil || !parsed.Valid || claims.SessionID == "" {
		return "", ErrInvalidToken
	}
	return claims.SessionID, nil
}

func (g *Gate) verify(passphrase string) bool {
	if g.passphraseHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(g.passphraseHash), []byte(passphrase)) == nil
	}
	if g.passphrase == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(g.passphrase), []byte(passphrase)) == 1
}
