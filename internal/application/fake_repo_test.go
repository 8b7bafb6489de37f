package application

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/user-identity-service/internal/domain/apperrors"
	"github.com/oksasatya/user-identity-service/internal/domain/entity"
	"github.com/oksasatya/user-identity-service/internal/domain/repository"
)

// memRepo is an in-memory UserRepository enforcing the same uniqueness
// rules as the Postgres schema. insertErr forces a store-level failure to
// exercise the check-then-insert race path.
type memRepo struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	insertErr error
}

func newMemRepo() *memRepo {
	return &memRepo{users: make(map[string]*entity.User)}
}

func (r *memRepo) Insert(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	for _, ex := range r.users {
		if ex.Username == u.Username || ex.Email == u.Email {
			return apperrors.ErrUserExists
		}
	}
	now := time.Now()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memRepo) GetByEmail(_ context.Context, email string, withSecret bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			if !withSecret {
				cp.PasswordHash = ""
			}
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memRepo) GetByEmailOrUsername(_ context.Context, email, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email || u.Username == username {
			cp := *u
			cp.PasswordHash = ""
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memRepo) List(_ context.Context) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		cp.PasswordHash = ""
		out = append(out, cp)
	}
	return out, nil
}

func (r *memRepo) UpdateFields(_ context.Context, id string, patch repository.UserPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	for oid, other := range r.users {
		if oid == id {
			continue
		}
		if patch.Username != nil && other.Username == *patch.Username {
			return apperrors.ErrUserExists
		}
		if patch.Email != nil && other.Email == *patch.Email {
			return apperrors.ErrUserExists
		}
	}
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.FirstName != nil {
		u.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = *patch.LastName
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.EmailVerified != nil {
		u.EmailVerified = *patch.EmailVerified
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	if patch.SignupMethod != nil {
		u.SignupMethod = *patch.SignupMethod
	}
	u.UpdatedAt = time.Now()
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

var _ repository.UserRepository = (*memRepo)(nil)
