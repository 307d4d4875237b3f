package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/taskforge/api/internal/domain"
	"github.com/taskforge/api/internal/token"
)

const (
	testAccessSecret  = "access-secret-for-tests-32-chars!!!"
	testRefreshSecret = "refresh-secret-for-tests-32-chars!!"
)

func newService() *token.Service {
	return token.NewService([]byte(testAccessSecret), []byte(testRefreshSecret))
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueAccess_VerifiesWithClaims(t *testing.T) {
	svc := newService()

	raw, err := svc.IssueAccess("user-1", "test@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload, err := svc.VerifyAccess(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if payload.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", payload.UserID, "user-1")
	}
	if payload.Email != "test@example.com" {
		t.Errorf("Email = %q, want %q", payload.Email, "test@example.com")
	}
	if got, want := payload.ExpiresAt.Sub(payload.IssuedAt), token.AccessTTL; got != want {
		t.Errorf("lifetime = %v, want %v", got, want)
	}
}

func TestVerifyAccess_ExpiryBoundaries(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	svc := newService().WithClock(fixedClock(issuedAt))
	raw, err := svc.IssueAccess("user-1", "test@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.WithClock(fixedClock(issuedAt.Add(14 * time.Minute)))
	if _, err := svc.VerifyAccess(raw); err != nil {
		t.Errorf("token should still verify at +14m: %v", err)
	}

	svc.WithClock(fixedClock(issuedAt.Add(16 * time.Minute)))
	if _, err := svc.VerifyAccess(raw); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid at +16m, got %v", err)
	}
}

func TestVerify_RejectsWrongTokenClass(t *testing.T) {
	svc := newService()

	access, err := svc.IssueAccess("user-1", "test@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	refresh, err := svc.IssueRefresh("user-1", "test@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.VerifyRefresh(access); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("access token verified against refresh secret: %v", err)
	}
	if _, err := svc.VerifyAccess(refresh); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("refresh token verified against access secret: %v", err)
	}
}

func TestVerifyAccess_MalformedAndTampered(t *testing.T) {
	svc := newService()

	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.VerifyAccess(raw); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Errorf("VerifyAccess(%q) = %v, want ErrTokenInvalid", raw, err)
		}
	}

	valid, err := svc.IssueAccess("user-1", "test@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tampered := valid[:len(valid)-2] + "xx"
	if _, err := svc.VerifyAccess(tampered); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("tampered signature verified: %v", err)
	}
}

func TestIssuePair_RefreshOutlivesAccess(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newService().WithClock(fixedClock(issuedAt))

	pair, err := svc.IssuePair("user-1", "test@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A day later the access token is long gone, the refresh token is not.
	svc.WithClock(fixedClock(issuedAt.Add(24 * time.Hour)))
	if _, err := svc.VerifyAccess(pair.AccessToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("access token still valid after a day: %v", err)
	}
	if _, err := svc.VerifyRefresh(pair.RefreshToken); err != nil {
		t.Errorf("refresh token should still verify after a day: %v", err)
	}

	// Past seven days both are dead.
	svc.WithClock(fixedClock(issuedAt.Add(8 * 24 * time.Hour)))
	if _, err := svc.VerifyRefresh(pair.RefreshToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("refresh token still valid after 8 days: %v", err)
	}
}
