package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newStore(t *testing.T) (*FileStore, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "users.json")
	fs, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	return fs, path
}

func TestFileStorePersists(t *testing.T) {
	fs, path := newStore(t)

	if _, err := CreateUser(fs, "alice", "secret", RoleUser); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateUser(fs, "bob", "hunter2", RoleGuest); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	users, err := reopened.ListUsers()
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 || users[0].Username != "alice" || users[1].Username != "bob" {
		t.Fatalf("users %+v", users)
	}
	if users[0].Password == "secret" {
		t.Fatal("password stored in clear")
	}
	if !CheckPassword(users[0].Password, "secret") {
		t.Fatal("stored hash does not match")
	}
}

func TestFileStoreReturnsCopies(t *testing.T) {
	fs, _ := newStore(t)
	if _, err := CreateUser(fs, "alice", "secret", RoleUser); err != nil {
		t.Fatal(err)
	}

	u, err := fs.GetUser("alice")
	if err != nil {
		t.Fatal(err)
	}
	u.Grant("orders")

	again, err := fs.GetUser("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(again.AccessDB) != 0 {
		t.Fatalf("unsaved grant visible: %v", again.AccessDB)
	}

	if err := fs.SaveUser(u); err != nil {
		t.Fatal(err)
	}
	again, _ = fs.GetUser("alice")
	if !again.CanOpenDB("orders") {
		t.Fatal("saved grant lost")
	}
}

func TestFileStoreMissingUser(t *testing.T) {
	fs, _ := newStore(t)

	if _, err := fs.GetUser("nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("get: %v", err)
	}
	if err := fs.DeleteUser("nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("delete: %v", err)
	}
}

func TestFileStoreDelete(t *testing.T) {
	fs, path := newStore(t)
	if _, err := CreateUser(fs, "alice", "secret", RoleUser); err != nil {
		t.Fatal(err)
	}
	if err := fs.DeleteUser("alice"); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reopened.GetUser("alice"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("deleted user still present: %v", err)
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path); err == nil {
		t.Fatal("corrupt user file accepted")
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	fs, _ := newStore(t)
	if _, err := CreateUser(fs, "alice", "secret", RoleUser); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateUser(fs, "alice", "other", RoleGuest); !errors.Is(err, ErrUserExists) {
		t.Fatalf("got %v, want ErrUserExists", err)
	}
}

func TestAuthenticate(t *testing.T) {
	fs, _ := newStore(t)
	if _, err := CreateUser(fs, "alice", "secret", RoleSuperuser); err != nil {
		t.Fatal(err)
	}
	a := NewAuthenticator(fs)

	u, err := a.Authenticate("alice", "secret")
	if err != nil {
		t.Fatal(err)
	}
	if !u.IsSuperuser() {
		t.Fatalf("role %q", u.Role)
	}

	for _, creds := range [][2]string{{"alice", "wrong"}, {"mallory", "secret"}} {
		if _, err := a.Authenticate(creds[0], creds[1]); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%v: got %v", creds, err)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"superuser", "user", "guest"} {
		if r, err := ParseRole(s); err != nil || string(r) != s {
			t.Fatalf("%q: %q %v", s, r, err)
		}
	}
	if _, err := ParseRole("admin"); err == nil {
		t.Fatal("admin accepted")
	}
}

func TestPermissions(t *testing.T) {
	super := &User{Role: RoleSuperuser}
	user := &User{Role: RoleUser, AccessDB: []string{"orders"}}
	guest := &User{Role: RoleGuest, AccessDB: []string{"orders"}}

	tests := []struct {
		name     string
		user     *User
		db       string
		canOpen  bool
		canWrite bool
	}{
		{"superuser any db", super, "anything", true, true},
		{"user granted", user, "orders", true, true},
		{"user not granted", user, "payroll", false, false},
		{"guest granted", guest, "orders", true, false},
		{"guest not granted", guest, "payroll", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.CanOpenDB(tt.db); got != tt.canOpen {
				t.Fatalf("CanOpenDB = %v", got)
			}
			if got := tt.user.CanWrite(tt.db); got != tt.canWrite {
				t.Fatalf("CanWrite = %v", got)
			}
		})
	}
}

func TestGrantRevoke(t *testing.T) {
	u := &User{Role: RoleUser, AccessDB: []string{}}

	if !u.Grant("a") || u.Grant("a") || !u.Grant("b") {
		t.Fatal("grant results")
	}
	if len(u.AccessDB) != 2 {
		t.Fatalf("access %v", u.AccessDB)
	}
	if !u.Revoke("a") || u.Revoke("a") {
		t.Fatal("revoke results")
	}
	if len(u.AccessDB) != 1 || u.AccessDB[0] != "b" {
		t.Fatalf("access %v", u.AccessDB)
	}
}
