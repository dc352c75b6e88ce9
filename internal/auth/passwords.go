package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for stored passwords
const PasswordCost = 10

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash. A malformed hash is
// an error, a plain mismatch is not.
func VerifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// StaffAccount is a login configured through the environment
type StaffAccount struct {
	Login        string
	PasswordHash string
	Role         Role
}

// Matches reports whether login and password open this account. Accounts
// without a configured login or hash never match.
func (a StaffAccount) Matches(login, password string) bool {
	if a.Login == "" || a.PasswordHash == "" || a.Login != login {
		return false
	}
	ok, err := VerifyPassword(password, a.PasswordHash)
	return err == nil && ok
}

// User returns the session identity of the account
func (a StaffAccount) User() *User {
	name := "Manager"
	if a.Role == RoleSuperuser {
		name = "Superuser"
	}
	return &User{Role: a.Role, Name: name}
}
