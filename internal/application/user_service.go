package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-identity-service/internal/domain/apperrors"
	"github.com/oksasatya/user-identity-service/internal/domain/entity"
	repo "github.com/oksasatya/user-identity-service/internal/domain/repository"
	"github.com/oksasatya/user-identity-service/pkg/helpers"
)

// UserService is the user directory: CRUD over user records. It owns the
// password-hashing policy for create/update and returns only public
// projections.
type UserService struct {
	Repo         repo.UserRepository
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	BcryptCost   int
}

func NewUserService(r repo.UserRepository, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string, bcryptCost int) *UserService {
	if bcryptCost <= 0 {
		bcryptCost = helpers.DefaultBcryptCost
	}
	return &UserService{Repo: r, Logger: logger, ES: es, ESUsersIndex: esUsersIndex, BcryptCost: bcryptCost}
}

type CreateUserInput struct {
	Username      string
	FirstName     string
	LastName      string
	Email         string
	EmailVerified bool
	Password      string
	SignupMethod  entity.SignupMethod
}

// UpdateUserInput is a partial merge set; nil fields are left untouched.
// A set Password is hashed and replaces the stored hash; an unset one
// leaves the password unchanged.
type UpdateUserInput struct {
	Username      *string
	FirstName     *string
	LastName      *string
	Email         *string
	EmailVerified *bool
	Password      *string
	SignupMethod  *entity.SignupMethod
}

func (s *UserService) FindAll(ctx context.Context) ([]entity.PublicUser, error) {
	users, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}

// FindOne returns nil when the id is unknown; absence is not an error here,
// callers decide what it means.
func (s *UserService) FindOne(ctx context.Context, id string) (*entity.PublicUser, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*entity.PublicUser, error) {
	hash, err := helpers.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Username:      in.Username,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		EmailVerified: in.EmailVerified,
		PasswordHash:  hash,
		SignupMethod:  in.SignupMethod,
	}
	if err := s.Repo.Insert(ctx, u); err != nil {
		return nil, err
	}
	s.indexUser(ctx, u)
	pub := u.Public()
	return &pub, nil
}

// Update applies a partial merge and returns the refreshed projection, or
// nil when the id does not exist.
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*entity.PublicUser, error) {
	patch := repo.UserPatch{
		Username:      in.Username,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		EmailVerified: in.EmailVerified,
		SignupMethod:  in.SignupMethod,
	}
	if in.Password != nil {
		hash, err := helpers.HashPassword(*in.Password, s.BcryptCost)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}
	if err := s.Repo.UpdateFields(ctx, id, patch); err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	s.indexUser(ctx, u)
	pub := u.Public()
	return &pub, nil
}

// Remove deletes the user; deleting an unknown id is a no-op.
func (s *UserService) Remove(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.deindexUser(ctx, id)
	return nil
}

func (s *UserService) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	u, err := s.Repo.GetByEmailOrUsername(ctx, email, username)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// indexUser mirrors the public projection into Elasticsearch. Only the
// projection is indexed, so search can never surface the password hash.
// Indexing failures are logged and swallowed; search is best effort.
func (s *UserService) indexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	b, _ := json.Marshal(u.Public())
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
}

func (s *UserService) deindexUser(ctx context.Context, id string) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESUsersIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query on username, email and names over the
// projection index.
func (s *UserService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^2", "email^2", "first_name", "last_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESUsersIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
