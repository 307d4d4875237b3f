package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/taskforge/api/internal/domain"
)

const (
	// AccessTTL is short so that the missing server-side revocation list
	// stays an acceptable trade-off.
	AccessTTL  = 15 * time.Minute
	RefreshTTL = 7 * 24 * time.Hour
)

// Payload is what a verified token asserts about its bearer.
type Payload struct {
	UserID    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Service signs and verifies the two token classes. Each class has its own
// secret, so a leaked refresh secret cannot mint access tokens and vice
// versa. Verification is a pure function of token, secret and clock.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewService(accessSecret, refreshSecret []byte) *Service {
	return &Service{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     AccessTTL,
		refreshTTL:    RefreshTTL,
		now:           time.Now,
	}
}

// WithClock overrides the time source used for issuing and verifying.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) IssueAccess(userID, email string) (string, error) {
	return s.issue(userID, email, s.accessSecret, s.accessTTL)
}

func (s *Service) IssueRefresh(userID, email string) (string, error) {
	return s.issue(userID, email, s.refreshSecret, s.refreshTTL)
}

func (s *Service) IssuePair(userID, email string) (*domain.TokenPair, error) {
	access, err := s.IssueAccess(userID, email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.IssueRefresh(userID, email)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) issue(userID, email string, secret []byte, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccess checks a token against the access secret. Malformed, forged
// and expired tokens all fail with the same domain.ErrTokenInvalid; callers
// must not surface the difference to clients.
func (s *Service) VerifyAccess(raw string) (*Payload, error) {
	return s.verify(raw, s.accessSecret)
}

// VerifyRefresh checks a token against the refresh secret.
func (s *Service) VerifyRefresh(raw string) (*Payload, error) {
	return s.verify(raw, s.refreshSecret)
}

func (s *Service) verify(raw string, secret []byte) (*Payload, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, domain.ErrTokenInvalid
	}
	email, _ := claims["email"].(string)
	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)

	return &Payload{
		UserID:    sub,
		Email:     email,
		IssuedAt:  time.Unix(int64(iat), 0),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
