package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/user-identity-service/internal/domain/apperrors"
	"github.com/oksasatya/user-identity-service/internal/domain/entity"
	"github.com/oksasatya/user-identity-service/internal/domain/repository"
)

// pgUniqueViolation is the SQLSTATE for a unique constraint violation.
const pgUniqueViolation = "23505"

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Insert(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, first_name, last_name, email, email_verified, password_hash, signup_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, u.Username, u.FirstName, u.LastName, u.Email, u.EmailVerified, u.PasswordHash, u.SignupMethod)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrUserExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, first_name, last_name, email, email_verified, password_hash, signup_method, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string, withSecret bool) (*entity.User, error) {
	// password_hash is excluded from the row unless explicitly requested.
	hashCol := "''"
	if withSecret {
		hashCol = "password_hash"
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, first_name, last_name, email, email_verified, `+hashCol+`, signup_method, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)
	return scanUser(row)
}

func (r *UserRepository) GetByEmailOrUsername(ctx context.Context, email, username string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, first_name, last_name, email, email_verified, '', signup_method, created_at, updated_at
		FROM users
		WHERE email = $1 OR username = $2
		LIMIT 1
	`, email, username)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, first_name, last_name, email, email_verified, '', signup_method, created_at, updated_at
		FROM users
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email,
			&u.EmailVerified, &u.PasswordHash, &u.SignupMethod, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateFields(ctx context.Context, id string, patch repository.UserPatch) error {
	sets, args := buildPatchSQL(patch)
	args = append(args, id)

	res, err := r.pool.Exec(ctx, fmt.Sprintf(`
		UPDATE users SET %s WHERE id = $%d
	`, strings.Join(sets, ", "), len(args)), args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrUserExists
		}
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	// Idempotent: zero rows affected is still success.
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

// buildPatchSQL renders the SET clauses for a partial update. updated_at is
// always refreshed, so the statement is valid even for an empty patch.
func buildPatchSQL(patch repository.UserPatch) ([]string, []any) {
	sets := []string{"updated_at = now()"}
	var args []any

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Username != nil {
		add("username", *patch.Username)
	}
	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.EmailVerified != nil {
		add("email_verified", *patch.EmailVerified)
	}
	if patch.PasswordHash != nil {
		add("password_hash", *patch.PasswordHash)
	}
	if patch.SignupMethod != nil {
		add("signup_method", *patch.SignupMethod)
	}
	return sets, args
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email,
		&u.EmailVerified, &u.PasswordHash, &u.SignupMethod, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

var _ repository.UserRepository = (*UserRepository)(nil)
