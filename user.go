package main

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is an account row in the "user" table. A user owns zero or more
// QueryHistory rows; deleting the user deletes them all.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	IsActive       bool      `json:"isActive"`
	IsVerified     bool      `json:"isVerified"`
	IsSuperuser    bool      `json:"isSuperuser"`
	RegisteredAt   time.Time `json:"registeredAt"`
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether the plaintext password matches the
// stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)) == nil
}
