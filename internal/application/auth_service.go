package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-identity-service/internal/domain/apperrors"
	"github.com/oksasatya/user-identity-service/internal/domain/entity"
	repo "github.com/oksasatya/user-identity-service/internal/domain/repository"
	"github.com/oksasatya/user-identity-service/pkg/helpers"
	"github.com/oksasatya/user-identity-service/pkg/mailer"
)

const verifyTokenTTL = 24 * time.Hour

// AuthService handles registration and credential verification on top of
// the user directory. The redis client and publisher back the e-mail
// verification flow and may be nil (the flow then degrades to a no-op).
type AuthService struct {
	Users          *UserService
	Repo           repo.UserRepository
	Redis          *redis.Client
	Pub            *helpers.RabbitPublisher
	Logger         *logrus.Logger
	VerifyEmailURL string
	MailEnabled    bool
}

func NewAuthService(users *UserService, r repo.UserRepository, rdb *redis.Client, pub *helpers.RabbitPublisher, logger *logrus.Logger, verifyEmailURL string, mailEnabled bool) *AuthService {
	return &AuthService{
		Users:          users,
		Repo:           r,
		Redis:          rdb,
		Pub:            pub,
		Logger:         logger,
		VerifyEmailURL: verifyEmailURL,
		MailEnabled:    mailEnabled,
	}
}

func keyVerifyToken(t string) string { return "email:verify:token:" + t }

// verifyClaim is the redis payload behind a verification token.
type verifyClaim struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Register creates a local account with empty name fields. The existence
// pre-check yields the friendly conflict in the common case; the unique
// indexes behind Insert are the real guard, and a conflict raised there
// surfaces as the same error.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*entity.PublicUser, error) {
	exists, err := s.Users.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrUserExists
	}
	return s.Users.Create(ctx, CreateUserInput{
		Username:     username,
		FirstName:    "",
		LastName:     "",
		Email:        email,
		Password:     password,
		SignupMethod: entity.SignupLocal,
	})
}

// Login verifies the credential and returns the projection. A missing user
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.PublicUser, error) {
	u, err := s.Repo.GetByEmail(ctx, email, true)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	pub := u.Public()
	return &pub, nil
}

// RequestEmailVerification issues a verification token for the address and
// queues the mail. It reports success regardless of whether the address is
// known, to avoid account enumeration.
func (s *AuthService) RequestEmailVerification(ctx context.Context, email string) error {
	if s.Redis == nil {
		return nil
	}
	u, err := s.Repo.GetByEmail(ctx, email, false)
	if err != nil {
		return err
	}
	if u == nil || u.EmailVerified {
		return nil
	}
	tok, err := genToken(32)
	if err != nil {
		return err
	}
	claim := verifyClaim{UserID: u.ID, Email: u.Email}
	if err := helpers.RedisSetJSON(ctx, s.Redis, keyVerifyToken(tok), claim, verifyTokenTTL); err != nil {
		return err
	}
	link := s.VerifyEmailURL + "?token=" + tok
	if s.Pub != nil && s.MailEnabled {
		job := mailer.EmailJob{
			To:       u.Email,
			Template: "verify_email",
			Data: map[string]any{
				"Username":  u.Username,
				"VerifyURL": link,
				"ExpiresIn": "24 hours",
			},
		}
		if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("queue verification mail failed")
		}
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("verification token issued")
	}
	return nil
}

// ConfirmEmailVerification burns the token and flips email_verified via the
// directory's normal partial-update path.
func (s *AuthService) ConfirmEmailVerification(ctx context.Context, token string) error {
	if s.Redis == nil {
		return apperrors.ErrUserNotFound
	}
	var claim verifyClaim
	ok, err := helpers.RedisGetJSON(ctx, s.Redis, keyVerifyToken(token), &claim)
	if err != nil {
		return err
	}
	if !ok || claim.UserID == "" {
		return apperrors.ErrUserNotFound
	}
	verified := true
	pub, err := s.Users.Update(ctx, claim.UserID, UpdateUserInput{EmailVerified: &verified})
	if err != nil {
		return err
	}
	if pub == nil {
		// The account was deleted while the token was live.
		return apperrors.ErrUserNotFound
	}
	if err := helpers.RedisDel(ctx, s.Redis, keyVerifyToken(token)); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("delete verification token failed")
	}
	return nil
}

func genToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
