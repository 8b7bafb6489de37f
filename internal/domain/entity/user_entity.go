package entity

import (
	"time"
)

// SignupMethod tags how an account was originally created.
type SignupMethod string

const (
	SignupLocal  SignupMethod = "local"
	SignupGoogle SignupMethod = "google"
)

// User is the aggregate root for the identity domain.
// PasswordHash holds a bcrypt hash; it leaves the service layer only
// through Public(), which drops it.
type User struct {
	ID            string
	Username      string
	FirstName     string
	LastName      string
	Email         string
	EmailVerified bool
	PasswordHash  string
	SignupMethod  SignupMethod
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PublicUser is the only representation of a user that crosses the
// service boundary. It structurally has no field for the password hash.
type PublicUser struct {
	ID            string       `json:"id"`
	Username      string       `json:"username"`
	FirstName     string       `json:"first_name"`
	LastName      string       `json:"last_name"`
	Email         string       `json:"email"`
	EmailVerified bool         `json:"email_verified"`
	SignupMethod  SignupMethod `json:"signup_method"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Public projects the user into its outward-safe form.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Username:      u.Username,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		SignupMethod:  u.SignupMethod,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
