package repository

import (
	"context"

	"github.com/oksasatya/user-identity-service/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
// Lookup methods report absence as (nil, nil); only Insert and UpdateFields
// translate constraint failures into apperrors sentinels.
type UserRepository interface {
	// Insert persists a new user and fills ID/CreatedAt/UpdatedAt from the
	// store. Returns apperrors.ErrUserExists when username or email is taken.
	Insert(ctx context.Context, u *entity.User) error

	// GetByID returns the full record including the password hash; for
	// internal use only.
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// GetByEmail leaves PasswordHash empty unless withSecret is set.
	GetByEmail(ctx context.Context, email string, withSecret bool) (*entity.User, error)

	// GetByEmailOrUsername matches either key; used for existence checks.
	GetByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error)

	List(ctx context.Context) ([]entity.User, error)

	// UpdateFields applies only the fields set on the patch and refreshes
	// updated_at. Returns apperrors.ErrUserNotFound when the id is unknown.
	UpdateFields(ctx context.Context, id string, patch UserPatch) error

	// Delete is idempotent; deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}

// UserPatch is a partial merge set. Nil fields are left untouched.
type UserPatch struct {
	Username      *string
	FirstName     *string
	LastName      *string
	Email         *string
	EmailVerified *bool
	PasswordHash  *string
	SignupMethod  *entity.SignupMethod
}

// IsZero reports whether the patch carries no fields at all.
func (p UserPatch) IsZero() bool {
	return p.Username == nil && p.FirstName == nil && p.LastName == nil &&
		p.Email == nil && p.EmailVerified == nil && p.PasswordHash == nil &&
		p.SignupMethod == nil
}
