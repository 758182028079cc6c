package auth

import (
	"fmt"
	"slices"

	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	// Allowed to create and delete databases and manage users
	RoleSuperuser Role = "superuser"
	// Read / write on granted databases
	RoleUser Role = "user"
	// Read-only on granted databases
	RoleGuest Role = "guest"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleSuperuser, RoleUser, RoleGuest:
		return r, nil
	}
	return "", fmt.Errorf("invalid role %q: want superuser, user or guest", s)
}

type User struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Role     Role     `json:"role"`
	AccessDB []string `json:"access_db"`
}

// NewUser hashes password and returns a user with no database grants.
func NewUser(username, password string, role Role) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return &User{
		Username: username,
		Password: string(hash),
		Role:     role,
		AccessDB: []string{},
	}, nil
}

func HashPassword(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (u *User) IsSuperuser() bool {
	return u.Role == RoleSuperuser
}

func (u *User) IsGuest() bool {
	return u.Role == RoleGuest
}

func (u *User) CanOpenDB(db string) bool {
	return u.IsSuperuser() || slices.Contains(u.AccessDB, db)
}

// CanWrite reports whether u may modify db. Guests never can.
func (u *User) CanWrite(db string) bool {
	return !u.IsGuest() && u.CanOpenDB(db)
}

// Grant adds db to the user's grants and reports whether it was missing.
func (u *User) Grant(db string) bool {
	if slices.Contains(u.AccessDB, db) {
		return false
	}
	u.AccessDB = append(u.AccessDB, db)
	return true
}

// Revoke removes db from the user's grants and reports whether it was present.
func (u *User) Revoke(db string) bool {
	i := slices.Index(u.AccessDB, db)
	if i == -1 {
		return false
	}
	u.AccessDB = slices.Delete(u.AccessDB, i, i+1)
	return true
}

func (u *User) clone() *User {
	c := *u
	c.AccessDB = append([]string{}, u.AccessDB...)
	return &c
}
