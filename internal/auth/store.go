package auth

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Store is a user catalog. Returned users are copies; changes go back through SaveUser.
type Store interface {
	GetUser(username string) (*User, error)
	SaveUser(u *User) error
	DeleteUser(username string) error
	ListUsers() ([]*User, error)
}
