package auth

import (
	"errors"
	"fmt"
)

type Authenticator struct {
	store Store
}

func NewAuthenticator(store Store) *Authenticator {
	return &Authenticator{store: store}
}

func (a *Authenticator) Store() Store {
	return a.store
}

// Authenticate checks the password of username. An unknown user and a wrong password
// produce the same error.
func (a *Authenticator) Authenticate(username, password string) (*User, error) {
	u, err := a.store.GetUser(username)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate %s: %w", username, err)
	}

	if !CheckPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// CreateUser adds a new user, refusing to replace an existing one.
func CreateUser(store Store, username, password string, role Role) (*User, error) {
	if _, err := store.GetUser(username); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserExists, username)
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	u, err := NewUser(username, password, role)
	if err != nil {
		return nil, err
	}
	if err := store.SaveUser(u); err != nil {
		return nil, err
	}
	return u, nil
}
