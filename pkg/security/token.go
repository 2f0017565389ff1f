package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC secret NewTokenService accepts.
const MinSecretLength = 32

var (
	ErrTokenMalformed = errors.New("security: malformed token")
	ErrTokenExpired   = errors.New("security: token expired")
)

// TokenService issues and validates HS256 access tokens whose subject is the
// user id. It does no I/O.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type claims struct {
	jwt.RegisteredClaims
}

func NewTokenService(secret, issuer string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("security: token secret must be at least %d characters", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, errors.New("security: token ttl must be positive")
	}
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for subjectID with the default lifetime.
func (s *TokenService) Issue(subjectID string) (string, time.Time, error) {
	return s.IssueWithTTL(subjectID, s.ttl)
}

func (s *TokenService) IssueWithTTL(subjectID string, ttl time.Duration) (string, time.Time, error) {
	if subjectID == "" {
		return "", time.Time{}, errors.New("security: empty token subject")
	}
	now := s.now()
	expiresAt := now.Add(ttl)

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("security: signing token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate returns the subject of a well-formed, unexpired token.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid || c.Subject == "" {
		return "", ErrTokenMalformed
	}
	return c.Subject, nil
}
