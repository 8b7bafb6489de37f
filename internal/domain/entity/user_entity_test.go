package entity

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestPublicProjectionCarriesNoHash(t *testing.T) {
	u := &User{
		ID:            "6f1c9f2a-0000-0000-0000-000000000001",
		Username:      "alice",
		FirstName:     "Alice",
		LastName:      "Liddell",
		Email:         "a@x.com",
		EmailVerified: true,
		PasswordHash:  "$2a$10$abcdefghijklmnopqrstuv",
		SignupMethod:  SignupLocal,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	pub := u.Public()
	b, err := json.Marshal(pub)
	if err != nil {
		t.Fatalf("marshal projection: %v", err)
	}
	out := string(b)
	if strings.Contains(out, u.PasswordHash) {
		t.Fatalf("projection leaked password hash: %s", out)
	}
	if strings.Contains(out, "password") {
		t.Fatalf("projection has a password field: %s", out)
	}
}

func TestPublicProjectionCopiesEveryOtherField(t *testing.T) {
	u := &User{
		ID:            "id-1",
		Username:      "bob",
		FirstName:     "Bob",
		LastName:      "Builder",
		Email:         "b@x.com",
		EmailVerified: false,
		PasswordHash:  "hash",
		SignupMethod:  SignupGoogle,
		CreatedAt:     time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:     time.Date(2024, 1, 3, 3, 4, 5, 0, time.UTC),
	}

	pub := u.Public()
	if pub.ID != u.ID || pub.Username != u.Username || pub.Email != u.Email {
		t.Fatalf("identity fields not copied: %+v", pub)
	}
	if pub.FirstName != u.FirstName || pub.LastName != u.LastName {
		t.Fatalf("name fields not copied: %+v", pub)
	}
	if pub.EmailVerified != u.EmailVerified || pub.SignupMethod != u.SignupMethod {
		t.Fatalf("flag fields not copied: %+v", pub)
	}
	if !pub.CreatedAt.Equal(u.CreatedAt) || !pub.UpdatedAt.Equal(u.UpdatedAt) {
		t.Fatalf("timestamps not copied: %+v", pub)
	}
}
