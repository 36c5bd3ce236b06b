// Package token issues and decodes the access/refresh JWT pair. The two
// tokens are signed with distinct secrets, so a refresh token can never be
// replayed where an access token is expected.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/akeray/property-system/internal/core/domain"
)

// SecretKind selects which signing secret a decode is checked against.
type SecretKind int

const (
	AccessSecret SecretKind = iota
	RefreshSecret
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Claims is the payload carried by both tokens of a pair.
type Claims struct {
	Subject string
	Email   string
	Role    domain.Role
}

// Pair bundles the two tokens issued per login or signup event.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Issuer signs and validates HS256 token pairs.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewIssuer builds an Issuer. Both secrets are mandatory and must differ;
// there is no insecure fallback. Non-positive TTLs take the defaults
// (15 minutes access, 7 days refresh).
func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("token: both signing secrets are required")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("token: access and refresh secrets must differ")
	}
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}, nil
}

// Issue signs the access and refresh tokens concurrently and waits for both.
// If either signing fails the whole operation fails with ErrTokenIssuance;
// no partial pair is ever returned.
func (i *Issuer) Issue(c Claims) (Pair, error) {
	type signed struct {
		token string
		err   error
	}
	access := make(chan signed, 1)
	refresh := make(chan signed, 1)
	go func() {
		t, err := i.sign(c, i.accessSecret, i.accessTTL)
		access <- signed{t, err}
	}()
	go func() {
		t, err := i.sign(c, i.refreshSecret, i.refreshTTL)
		refresh <- signed{t, err}
	}()

	a, r := <-access, <-refresh
	if a.err != nil {
		return Pair{}, fmt.Errorf("%w: %v", domain.ErrTokenIssuance, a.err)
	}
	if r.err != nil {
		return Pair{}, fmt.Errorf("%w: %v", domain.ErrTokenIssuance, r.err)
	}
	return Pair{AccessToken: a.token, RefreshToken: r.token}, nil
}

func (i *Issuer) sign(c Claims, secret []byte, ttl time.Duration) (string, error) {
	now := i.now().UTC()
	claims := jwt.MapClaims{
		"sub":   c.Subject,
		"email": c.Email,
		"role":  string(c.Role),
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Decode validates raw against the selected secret and reconstructs its
// claims. Signature mismatch, expiry, a foreign signing algorithm, and a
// structurally valid payload missing email or role all fail the same way:
// the guard must never build a partial principal.
func (i *Issuer) Decode(raw string, kind SecretKind) (Claims, error) {
	secret := i.accessSecret
	if kind == RefreshSecret {
		secret = i.refreshSecret
	}

	parsed := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, parsed, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return i.now() }))
	if err != nil || !tkn.Valid {
		return Claims{}, domain.ErrInvalidToken
	}

	sub, _ := parsed["sub"].(string)
	email, _ := parsed["email"].(string)
	roleClaim, _ := parsed["role"].(string)
	if email == "" || roleClaim == "" {
		return Claims{}, domain.ErrInvalidToken
	}
	role, err := domain.ParseRole(roleClaim)
	if err != nil {
		return Claims{}, domain.ErrInvalidToken
	}
	return Claims{Subject: sub, Email: email, Role: role}, nil
}

// AccessTTL exposes the configured access-token lifetime (used in responses).
func (i *Issuer) AccessTTL() time.Duration { return i.accessTTL }
