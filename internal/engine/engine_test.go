package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.pagestore/internal/config"
	"go.pagestore/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.LoadConfig(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	cfg.PageSize = 1024
	cfg.LogLevel = "debug"
	return cfg
}

func openPath(t *testing.T, path string) *Database {
	t.Helper()

	db, err := OpenPath(path, storage.DefaultOptions(1024), nil)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestSetGetDelete(t *testing.T) {
	db := openPath(t, filepath.Join(t.TempDir(), "test.db"))
	defer db.Close()

	if err := db.Set("name", []byte("pagestore")); err != nil {
		t.Fatal(err)
	}
	val, err := db.Get("name")
	if err != nil {
		t.Fatal(err)
	}
	if string(val) != "pagestore" {
		t.Fatalf("got %q", val)
	}

	if err := db.Set("name", []byte("changed")); err != nil {
		t.Fatal(err)
	}
	if val, _ := db.Get("name"); string(val) != "changed" {
		t.Fatalf("got %q after overwrite", val)
	}

	if err := db.Delete("name"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Get("name"); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Fatalf("got %v, want ErrKeyNotFound", err)
	}
	if err := db.Delete("name"); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Fatalf("delete missing key: %v", err)
	}
}

func TestSetTooLarge(t *testing.T) {
	db := openPath(t, filepath.Join(t.TempDir(), "test.db"))
	defer db.Close()

	err := db.Set(strings.Repeat("k", storage.MaxItemFieldSize+1), nil)
	if !errors.Is(err, storage.ErrKeyTooLarge) {
		t.Fatalf("got %v, want ErrKeyTooLarge", err)
	}
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db := openPath(t, path)
	for i := 0; i < 200; i++ {
		if err := db.Set(fmt.Sprintf("key%03d", i), []byte(fmt.Sprint(i))); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db = openPath(t, path)
	defer db.Close()
	for i := 0; i < 200; i++ {
		val, err := db.Get(fmt.Sprintf("key%03d", i))
		if err != nil {
			t.Fatal(err)
		}
		if string(val) != fmt.Sprint(i) {
			t.Fatalf("key%03d = %q", i, val)
		}
	}
}

func TestInspect(t *testing.T) {
	db := openPath(t, filepath.Join(t.TempDir(), "test.db"))
	defer db.Close()

	info, err := db.Inspect()
	if err != nil {
		t.Fatal(err)
	}
	if info.Root != 2 || info.FreeListPage != 1 || info.MaxPage != 2 || info.PageSize != 1024 {
		t.Fatalf("fresh database info %+v", info)
	}
	if info.Tree.Nodes != 1 || info.Tree.Items != 0 {
		t.Fatalf("tree %+v", info.Tree)
	}

	for i := 0; i < 100; i++ {
		if err := db.Set(fmt.Sprintf("key%03d", i), []byte("value")); err != nil {
			t.Fatal(err)
		}
	}
	info, err = db.Inspect()
	if err != nil {
		t.Fatal(err)
	}
	if info.Tree.Items != 100 || info.Tree.Depth < 2 || info.MaxPage <= 2 {
		t.Fatalf("info after inserts %+v", info)
	}
}

func TestOpenNamed(t *testing.T) {
	cfg := testConfig(t)

	db, err := Open("users", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if db.Path() != cfg.DatabaseFile("users") {
		t.Fatalf("path %q", db.Path())
	}
	if err := db.Set("a", []byte("1")); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	logData, err := os.ReadFile(cfg.LogFile("users"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(logData), "created database") {
		t.Fatalf("log file missing creation entry:\n%s", logData)
	}

	if _, err := Open("../escape", cfg); err == nil {
		t.Fatal("invalid name accepted")
	}
}

func TestCreateAndDrop(t *testing.T) {
	cfg := testConfig(t)

	if Exists("orders", cfg) {
		t.Fatal("exists before create")
	}
	if err := Create("orders", cfg); err != nil {
		t.Fatal(err)
	}
	if !Exists("orders", cfg) {
		t.Fatal("missing after create")
	}
	if err := Create("orders", cfg); !errors.Is(err, ErrDatabaseExists) {
		t.Fatalf("second create: %v", err)
	}

	if err := Drop("orders", cfg); err != nil {
		t.Fatal(err)
	}
	if Exists("orders", cfg) {
		t.Fatal("exists after drop")
	}
	if _, err := os.Stat(cfg.LogFile("orders")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("log file left behind")
	}
	if err := Drop("orders", cfg); !errors.Is(err, ErrDatabaseNotFound) {
		t.Fatalf("second drop: %v", err)
	}
}

func TestClosedDatabase(t *testing.T) {
	db := openPath(t, filepath.Join(t.TempDir(), "test.db"))
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Get("a"); !errors.Is(err, storage.ErrClosed) {
		t.Fatalf("got %v, want ErrClosed", err)
	}
}
