package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"stitchmart/internal/repos"
	"stitchmart/internal/services"
)

func TestAddProductRequiresAllFields(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewProductRepo(db), newFakeStore())

	bad := validInput("Canvas Low")
	bad.Category = ""
	if _, err := svc.Add(context.Background(), bad, nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}

	badPrice := validInput("Canvas Low")
	badPrice.NewPrice = "ten dollars"
	if _, err := svc.Add(context.Background(), badPrice, nil); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("want ErrValidation for malformed price, got %v", err)
	}
}

func TestAddProductIDsAreUniqueUnderConcurrency(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewProductRepo(db), newFakeStore())

	const n = 25
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := svc.Add(context.Background(), validInput("Concurrent"), nil)
			if err != nil {
				t.Error(err)
				return
			}
			ids <- p.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate product id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("want %d distinct ids, got %d", n, len(seen))
	}
	if !seen[1] {
		t.Fatal("first allocation should yield id 1")
	}
}

func TestAddProductRollsBackUploadsOnFailure(t *testing.T) {
	db := memdb(t)
	store := newFakeStore()
	store.failUploadName = "two.png"
	svc := services.NewCatalogService(repos.NewProductRepo(db), store)

	files := []services.ImageFile{
		{Name: "one.png", Data: []byte("1")},
		{Name: "two.png", Data: []byte("2")},
		{Name: "three.png", Data: []byte("3")},
	}
	if _, err := svc.Add(context.Background(), validInput("Doomed"), files); err == nil {
		t.Fatal("expected upload failure to fail the whole add")
	}
	if n := store.count(); n != 0 {
		t.Fatalf("uploads not rolled back, %d assets left", n)
	}
	products, err := svc.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 0 {
		t.Fatalf("no product should exist, got %d", len(products))
	}
}

func TestRemoveProductDeletesAssets(t *testing.T) {
	db := memdb(t)
	store := newFakeStore()
	svc := services.NewCatalogService(repos.NewProductRepo(db), store)

	p, err := svc.Add(context.Background(), validInput("Canvas Low"), []services.ImageFile{
		{Name: "a.png", Data: []byte("a")},
		{Name: "b.png", Data: []byte("b")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if store.count() != 2 {
		t.Fatalf("want 2 stored assets, got %d", store.count())
	}

	name, err := svc.Remove(context.Background(), p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if name != "Canvas Low" {
		t.Fatalf("want removed name back, got %q", name)
	}
	if _, err := svc.Get(p.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("want ErrNotFound after removal, got %v", err)
	}
	if store.count() != 0 {
		t.Fatalf("assets still resolvable after removal: %d", store.count())
	}
}

func TestRemoveAbortsWhenAssetDeletionFails(t *testing.T) {
	db := memdb(t)
	store := newFakeStore()
	svc := services.NewCatalogService(repos.NewProductRepo(db), store)

	p, err := svc.Add(context.Background(), validInput("Sticky"), []services.ImageFile{{Name: "a.png", Data: []byte("a")}})
	if err != nil {
		t.Fatal(err)
	}

	store.failDelete = true
	if _, err := svc.Remove(context.Background(), p.ID); err == nil {
		t.Fatal("removal should propagate asset deletion failure")
	}
	// the product row must survive so the assets stay tracked
	if _, err := svc.Get(p.ID); err != nil {
		t.Fatalf("product should still exist: %v", err)
	}
}

func TestEditSwallowsAssetDeletionFailure(t *testing.T) {
	db := memdb(t)
	store := newFakeStore()
	svc := services.NewCatalogService(repos.NewProductRepo(db), store)

	p, err := svc.Add(context.Background(), validInput("Old Look"), []services.ImageFile{{Name: "old.png", Data: []byte("o")}})
	if err != nil {
		t.Fatal(err)
	}
	oldRef := p.Images[0]

	// Deletion of the old asset fails, yet the edit must succeed. The
	// replacement upload goes through because only Delete is failing.
	store.failDelete = true
	in := validInput("New Look")
	edited, err := svc.Edit(context.Background(), p.ID, in, []services.ImageFile{{Name: "new.png", Data: []byte("n")}})
	if err != nil {
		t.Fatalf("edit must survive cleanup failure: %v", err)
	}
	if edited.Name != "New Look" {
		t.Fatalf("fields not updated: %+v", edited)
	}
	if len(edited.Images) != 1 || edited.Images[0] == oldRef {
		t.Fatalf("image refs not replaced: %v", edited.Images)
	}
}

func TestEditWithoutImagesKeepsRefs(t *testing.T) {
	db := memdb(t)
	store := newFakeStore()
	svc := services.NewCatalogService(repos.NewProductRepo(db), store)

	p, err := svc.Add(context.Background(), validInput("Keeper"), []services.ImageFile{{Name: "a.png", Data: []byte("a")}})
	if err != nil {
		t.Fatal(err)
	}

	in := validInput("Keeper Renamed")
	edited, err := svc.Edit(context.Background(), p.ID, in, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(edited.Images) != 1 || edited.Images[0] != p.Images[0] {
		t.Fatalf("refs should be retained: %v vs %v", edited.Images, p.Images)
	}
	if store.count() != 1 {
		t.Fatalf("asset must not be touched, store has %d", store.count())
	}
}

func TestEditUnknownProduct(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewProductRepo(db), newFakeStore())
	if _, err := svc.Edit(context.Background(), 99, validInput("Ghost"), nil); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestListReturnsInsertionOrder(t *testing.T) {
	db := memdb(t)
	svc := services.NewCatalogService(repos.NewProductRepo(db), newFakeStore())

	for _, name := range []string{"first", "second", "third"} {
		if _, err := svc.Add(context.Background(), validInput(name), nil); err != nil {
			t.Fatal(err)
		}
	}
	products, err := svc.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 3 {
		t.Fatalf("want 3 products, got %d", len(products))
	}
	for i, want := range []string{"first", "second", "third"} {
		if products[i].Name != want || products[i].ID != int64(i+1) {
			t.Fatalf("order broken at %d: %+v", i, products[i])
		}
	}
}
