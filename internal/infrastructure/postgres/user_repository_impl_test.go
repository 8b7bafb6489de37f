package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/user-identity-service/internal/domain/entity"
	"github.com/oksasatya/user-identity-service/internal/domain/repository"
)

func TestBuildPatchSQLOnlyIncludesSetFields(t *testing.T) {
	last := "Smith"
	patch := repository.UserPatch{LastName: &last}

	sets, args := buildPatchSQL(patch)
	joined := strings.Join(sets, ", ")

	if !strings.Contains(joined, "last_name = $1") {
		t.Fatalf("last_name clause missing: %s", joined)
	}
	if strings.Contains(joined, "first_name") || strings.Contains(joined, "password_hash") {
		t.Fatalf("absent fields leaked into the merge set: %s", joined)
	}
	if len(args) != 1 || args[0] != "Smith" {
		t.Fatalf("args = %v, want [Smith]", args)
	}
}

func TestBuildPatchSQLAlwaysTouchesUpdatedAt(t *testing.T) {
	sets, args := buildPatchSQL(repository.UserPatch{})
	if len(sets) != 1 || sets[0] != "updated_at = now()" {
		t.Fatalf("empty patch sets = %v", sets)
	}
	if len(args) != 0 {
		t.Fatalf("empty patch args = %v", args)
	}
}

func TestBuildPatchSQLNumbersPlaceholdersInOrder(t *testing.T) {
	user := "alice"
	email := "a@x.com"
	verified := true
	method := entity.SignupGoogle
	patch := repository.UserPatch{
		Username:      &user,
		Email:         &email,
		EmailVerified: &verified,
		SignupMethod:  &method,
	}

	sets, args := buildPatchSQL(patch)
	joined := strings.Join(sets, ", ")

	for i := range args {
		ph := fmt.Sprintf("$%d", i+1)
		if !strings.Contains(joined, ph) {
			t.Fatalf("placeholder %s missing from %s", ph, joined)
		}
	}
	if len(args) != 4 {
		t.Fatalf("args = %v, want 4 values", args)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_email_key"}
	if !isUniqueViolation(unique) {
		t.Fatalf("isUniqueViolation(23505) = false, want true")
	}
	if !isUniqueViolation(fmt.Errorf("insert user: %w", unique)) {
		t.Fatalf("wrapped unique violation not detected")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("foreign key violation treated as unique violation")
	}
	if isUniqueViolation(errors.New("connection refused")) {
		t.Fatalf("plain error treated as unique violation")
	}
}
