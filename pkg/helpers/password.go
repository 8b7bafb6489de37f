package helpers

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost matches bcrypt's own default work factor.
const DefaultBcryptCost = bcrypt.DefaultCost

// HashPassword hashes the plain text password using bcrypt. The salt is
// randomized per call, so hashing the same input twice yields different
// outputs. Costs outside bcrypt's range fall back to the default.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password.
// A malformed hash is indistinguishable from a wrong password: both
// return false.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
