package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"stitchmart/internal/domain"
	"stitchmart/internal/repos"
	"stitchmart/internal/services"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeStore is an in-memory asset store. failUploadName makes the upload
// of that filename fail; failDelete makes every deletion fail.
type fakeStore struct {
	mu             sync.Mutex
	objects        map[string]string // key -> filename
	next           int
	failUploadName string
	failDelete     bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string]string{}}
}

func (f *fakeStore) Upload(_ context.Context, filename string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if filename == f.failUploadName {
		return "", fmt.Errorf("asset store rejected %s", filename)
	}
	f.next++
	key := fmt.Sprintf("k%04d", f.next)
	f.objects[key] = filename
	return "http://assets.test/media/products/" + key + ".png", nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return fmt.Errorf("asset store unavailable")
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func validInput(name string) services.ProductInput {
	return services.ProductInput{
		Name:        name,
		Category:    "sneakers",
		NewPrice:    "10.00",
		OldPrice:    "15.00",
		Description: "canvas low-top",
		Sizes:       []string{"S", "M", "L"},
		Available:   true,
	}
}

func seedUser(t *testing.T, db *sqlx.DB, email string) domain.User {
	t.Helper()
	u := domain.User{ID: "u-" + email, Email: email, Name: "Tester", Hash: "$2a$10$notachecked"}
	if err := repos.NewUserRepo(db).Create(u); err != nil {
		t.Fatal(err)
	}
	return u
}
