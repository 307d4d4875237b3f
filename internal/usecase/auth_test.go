package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskforge/api/internal/domain"
	"github.com/taskforge/api/internal/token"
	"github.com/taskforge/api/internal/usecase"
)

// ---- fakes ----

type fakeUserRepo struct {
	create      func(ctx context.Context, user *domain.User) (*domain.User, error)
	findByEmail func(ctx context.Context, email string) (*domain.User, error)
	findByID    func(ctx context.Context, id string) (*domain.User, error)
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.create(ctx, user)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

// ---- helpers ----

const (
	testAccessSecret  = "usecase-access-secret-32-chars!!!!!"
	testRefreshSecret = "usecase-refresh-secret-32-chars!!!!"
)

func newTokens() *token.Service {
	return token.NewService([]byte(testAccessSecret), []byte(testRefreshSecret))
}

func newAuth(repo *fakeUserRepo) *usecase.AuthUsecase {
	return usecase.NewAuthUsecase(repo, newTokens())
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

// ---- Register ----

func TestRegister_HashesPasswordAndIssuesTokens(t *testing.T) {
	var stored *domain.User

	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
		create: func(_ context.Context, user *domain.User) (*domain.User, error) {
			stored = user
			out := *user
			out.ID = "user-1"
			return &out, nil
		},
	}

	result, err := newAuth(repo).Register(context.Background(), usecase.RegisterInput{
		Email:    "A@X.com",
		Password: "Abcd1234",
		Name:     "A",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored.Email != "a@x.com" {
		t.Errorf("stored email = %q, want case-normalized %q", stored.Email, "a@x.com")
	}
	if stored.PasswordHash == "Abcd1234" {
		t.Fatal("password stored in plain text")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Abcd1234")) != nil {
		t.Error("stored hash does not verify against the password")
	}

	payload, err := newTokens().VerifyAccess(result.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("issued access token invalid: %v", err)
	}
	if payload.UserID != "user-1" {
		t.Errorf("access token sub = %q, want %q", payload.UserID, "user-1")
	}
	if _, err := newTokens().VerifyRefresh(result.Tokens.RefreshToken); err != nil {
		t.Errorf("issued refresh token invalid: %v", err)
	}
}

func TestRegister_DuplicateEmail_AnyCase(t *testing.T) {
	existing := &domain.User{ID: "user-1", Email: "a@x.com"}

	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, email string) (*domain.User, error) {
			if email == "a@x.com" {
				return existing, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}

	_, err := newAuth(repo).Register(context.Background(), usecase.RegisterInput{
		Email:    "A@X.COM",
		Password: "Abcd1234",
		Name:     "A",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("want ErrEmailTaken, got %v", err)
	}
}

func TestRegister_RepoRace_SurfacesEmailTaken(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
		create: func(_ context.Context, _ *domain.User) (*domain.User, error) {
			// Concurrent register won the unique index.
			return nil, domain.ErrEmailTaken
		},
	}

	_, err := newAuth(repo).Register(context.Background(), usecase.RegisterInput{
		Email:    "a@x.com",
		Password: "Abcd1234",
		Name:     "A",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("want ErrEmailTaken, got %v", err)
	}
}

// ---- Login ----

func TestLogin_Success(t *testing.T) {
	user := &domain.User{ID: "user-1", Email: "a@x.com", PasswordHash: hashOf(t, "Abcd1234")}

	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, email string) (*domain.User, error) {
			if email == "a@x.com" {
				return user, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}

	result, err := newAuth(repo).Login(context.Background(), "A@x.com", "Abcd1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.User.ID != "user-1" {
		t.Errorf("user ID = %q, want %q", result.User.ID, "user-1")
	}
	if _, err := newTokens().VerifyAccess(result.Tokens.AccessToken); err != nil {
		t.Errorf("issued access token invalid: %v", err)
	}
}

// Unknown email and wrong password must be the same error value so the two
// cases are indistinguishable to a client.
func TestLogin_UnknownEmailAndWrongPassword_SameError(t *testing.T) {
	user := &domain.User{ID: "user-1", Email: "a@x.com", PasswordHash: hashOf(t, "Abcd1234")}

	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, email string) (*domain.User, error) {
			if email == "a@x.com" {
				return user, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}
	auth := newAuth(repo)

	_, errUnknown := auth.Login(context.Background(), "nobody@x.com", "Abcd1234")
	_, errWrongPw := auth.Login(context.Background(), "a@x.com", "wrong-password")

	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) {
		t.Errorf("unknown email: want ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPw, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: want ErrInvalidCredentials, got %v", errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("error messages differ: %q vs %q", errUnknown, errWrongPw)
	}
}

// ---- Refresh ----

func TestRefresh_RotatesPair_OldAccessStaysValid(t *testing.T) {
	user := &domain.User{ID: "user-1", Email: "a@x.com"}
	repo := &fakeUserRepo{
		findByID: func(_ context.Context, id string) (*domain.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}

	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tokens := newTokens().WithClock(func() time.Time { return issuedAt })
	auth := usecase.NewAuthUsecase(repo, tokens)

	oldPair, err := tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A minute later the client refreshes.
	now := issuedAt.Add(time.Minute)
	tokens.WithClock(func() time.Time { return now })

	newPair, err := auth.Refresh(context.Background(), oldPair.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if newPair.AccessToken == oldPair.AccessToken {
		t.Error("access token was not rotated")
	}
	if newPair.RefreshToken == oldPair.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// Stateless design: the old access token lives out its own expiry.
	if _, err := tokens.VerifyAccess(oldPair.AccessToken); err != nil {
		t.Errorf("old access token invalidated by refresh: %v", err)
	}
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	repo := &fakeUserRepo{}
	tokens := newTokens()
	auth := usecase.NewAuthUsecase(repo, tokens)

	access, err := tokens.IssueAccess("user-1", "a@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = auth.Refresh(context.Background(), access)
	if !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Errorf("want ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRefresh_DeletedUser(t *testing.T) {
	repo := &fakeUserRepo{
		findByID: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	tokens := newTokens()
	auth := usecase.NewAuthUsecase(repo, tokens)

	refresh, err := tokens.IssueRefresh("gone-user", "gone@x.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = auth.Refresh(context.Background(), refresh)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
}

func TestRefresh_GarbageToken(t *testing.T) {
	auth := newAuth(&fakeUserRepo{})

	_, err := auth.Refresh(context.Background(), "not-a-jwt")
	if !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Errorf("want ErrInvalidRefreshToken, got %v", err)
	}
}
