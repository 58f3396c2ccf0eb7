package jwt

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const bearerPrefix = "Bearer "

// ErrInvalidToken covers every verification failure: missing header,
// bad signature, malformed token, wrong algorithm and expiry. Callers
// must not be able to tell these apart.
var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	AccountID   int64    `json:"id"`
	Name        string   `json:"name"`
	Authorities []string `json:"authorities"`
	jwtlib.RegisteredClaims
}

// ID returns the jti claim used as the revocation key.
func (c *Claims) ID() string {
	return c.RegisteredClaims.ID
}

func (c *Claims) ExpiresAt() time.Time {
	return c.RegisteredClaims.ExpiresAt.Time
}

// Codec creates and verifies the self-contained tokens issued at login.
type Codec struct {
	secret []byte
	expire time.Duration
}

func NewCodec(secret []byte, expire time.Duration) *Codec {
	return &Codec{secret: secret, expire: expire}
}

// Create signs a token carrying a fresh jti plus the account identity
// and role claims.
func (c *Codec) Create(accountID int64, username string, authorities []string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(c.expire)
	claims := Claims{
		AccountID:   accountID,
		Name:        username,
		Authorities: authorities,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks the Authorization header value and returns the decoded
// claims. Revocation is not consulted here; that is the caller's job.
func (c *Codec) Verify(headerValue string) (*Claims, error) {
	if !strings.HasPrefix(headerValue, bearerPrefix) {
		return nil, ErrInvalidToken
	}
	raw := headerValue[len(bearerPrefix):]
	claims := &Claims{}
	token, err := jwtlib.ParseWithClaims(raw, claims, func(token *jwtlib.Token) (interface{}, error) {
		if token.Method.Alg() != jwtlib.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	}, jwtlib.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.RegisteredClaims.ID == "" || claims.Name == "" || claims.AccountID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
