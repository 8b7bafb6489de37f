package application

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-identity-service/internal/domain/apperrors"
	"github.com/oksasatya/user-identity-service/internal/domain/entity"
)

func newTestAuthService(repo *memRepo) *AuthService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	users := NewUserService(repo, logger, nil, "", testBcryptCost)
	return NewAuthService(users, repo, nil, nil, logger, "http://localhost/verify-email", false)
}

func TestRegisterThenLogin(t *testing.T) {
	svc := newTestAuthService(newMemRepo())
	ctx := context.Background()

	reg, err := svc.Register(ctx, "alice", "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Username != "alice" || reg.SignupMethod != entity.SignupLocal {
		t.Fatalf("registered projection wrong: %+v", reg)
	}
	if reg.FirstName != "" || reg.LastName != "" {
		t.Fatalf("register should leave name fields empty: %+v", reg)
	}

	logged, err := svc.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.Username != "alice" || logged.ID != reg.ID {
		t.Fatalf("login projection wrong: %+v", logged)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newTestAuthService(newMemRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "a@x.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, wrongPass := svc.Login(ctx, "a@x.com", "wrong")
	_, noUser := svc.Login(ctx, "nouser@x.com", "secret1")

	if !errors.Is(wrongPass, apperrors.ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v, want ErrInvalidCredentials", wrongPass)
	}
	if !errors.Is(noUser, apperrors.ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v, want ErrInvalidCredentials", noUser)
	}
	if wrongPass.Error() != noUser.Error() {
		t.Fatalf("login failure messages differ: %q vs %q", wrongPass, noUser)
	}
}

func TestRegisterRejectsExistingEmailOrUsername(t *testing.T) {
	svc := newTestAuthService(newMemRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "a@x.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, "alice", "other@x.com", "secret1"); !errors.Is(err, apperrors.ErrUserExists) {
		t.Fatalf("duplicate username err = %v, want ErrUserExists", err)
	}
	if _, err := svc.Register(ctx, "other", "a@x.com", "secret1"); !errors.Is(err, apperrors.ErrUserExists) {
		t.Fatalf("duplicate email err = %v, want ErrUserExists", err)
	}
}

// A concurrent registration can slip in between the existence pre-check and
// the insert; the store-level conflict must surface exactly like the
// pre-check's.
func TestRegisterSurfacesLateStoreConflictIdentically(t *testing.T) {
	repo := newMemRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	repo.insertErr = apperrors.ErrUserExists
	_, lateErr := svc.Register(ctx, "alice", "a@x.com", "secret1")
	if !errors.Is(lateErr, apperrors.ErrUserExists) {
		t.Fatalf("late conflict err = %v, want ErrUserExists", lateErr)
	}

	repo.insertErr = nil
	if _, err := svc.Register(ctx, "alice", "a@x.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, earlyErr := svc.Register(ctx, "alice", "a@x.com", "secret1")
	if !errors.Is(earlyErr, apperrors.ErrUserExists) {
		t.Fatalf("pre-check conflict err = %v, want ErrUserExists", earlyErr)
	}
	if lateErr.Error() != earlyErr.Error() {
		t.Fatalf("conflict messages differ: %q vs %q", lateErr, earlyErr)
	}
}

func TestLoginAfterPasswordUpdate(t *testing.T) {
	repo := newMemRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "alice", "a@x.com", "old-secret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	newPass := "new-secret"
	if _, err := svc.Users.Update(ctx, reg.ID, UpdateUserInput{Password: &newPass}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := svc.Login(ctx, "a@x.com", "new-secret"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := svc.Login(ctx, "a@x.com", "old-secret"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("login with old password err = %v, want ErrInvalidCredentials", err)
	}
}

func TestVerificationDegradesWithoutTokenStore(t *testing.T) {
	svc := newTestAuthService(newMemRepo())
	ctx := context.Background()

	// No redis configured: init is a silent no-op, confirm rejects.
	if err := svc.RequestEmailVerification(ctx, "a@x.com"); err != nil {
		t.Fatalf("RequestEmailVerification: %v", err)
	}
	if err := svc.ConfirmEmailVerification(ctx, "sometoken"); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Fatalf("ConfirmEmailVerification err = %v, want ErrUserNotFound", err)
	}
}
