package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stitchmart/internal/assets"
	"stitchmart/internal/domain"
	applog "stitchmart/internal/log"
	"stitchmart/internal/repos"
	"stitchmart/internal/validate"

	"golang.org/x/sync/errgroup"
)

// deleteTimeout bounds each asset-store deletion; expiry counts as a
// deletion failure.
const deleteTimeout = 10 * time.Second

type CatalogService struct {
	Prods  *repos.ProductRepo
	Assets assets.Store
}

func NewCatalogService(prods *repos.ProductRepo, store assets.Store) *CatalogService {
	return &CatalogService{Prods: prods, Assets: store}
}

type ProductInput struct {
	Name        string
	Category    string
	NewPrice    string
	OldPrice    string
	Description string
	Sizes       []string
	Available   bool
}

type ImageFile struct {
	Name string
	Data []byte
}

func (in ProductInput) validate() error {
	if in.Name == "" || in.Category == "" || in.Description == "" || len(in.Sizes) == 0 {
		return ErrValidation
	}
	if _, ok := validate.Price(in.NewPrice); !ok {
		return ErrValidation
	}
	if _, ok := validate.Price(in.OldPrice); !ok {
		return ErrValidation
	}
	return nil
}

// Add validates, uploads all images, allocates the next catalog id and
// persists the product. Any upload failure fails the whole call; uploads
// that did land are rolled back so no orphan assets accumulate.
func (s *CatalogService) Add(ctx context.Context, in ProductInput, files []ImageFile) (domain.Product, error) {
	if err := in.validate(); err != nil {
		return domain.Product{}, err
	}

	urls, err := s.uploadAll(ctx, files)
	if err != nil {
		return domain.Product{}, fmt.Errorf("upload images: %w", err)
	}

	id, err := s.Prods.NextID()
	if err != nil {
		s.deleteRefs(urls, false)
		return domain.Product{}, err
	}

	p := domain.Product{
		ID:          id,
		Name:        in.Name,
		Images:      urls,
		Category:    in.Category,
		Description: in.Description,
		NewPrice:    in.NewPrice,
		OldPrice:    in.OldPrice,
		Available:   in.Available,
		Sizes:       in.Sizes,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.Prods.Insert(p); err != nil {
		s.deleteRefs(urls, false)
		return domain.Product{}, err
	}
	return p, nil
}

// Edit replaces the product's fields. When replacement images are
// supplied the old assets are deleted best-effort (failures are logged,
// the edit still succeeds) before the new ones take their place;
// otherwise the existing references are kept.
func (s *CatalogService) Edit(ctx context.Context, id int64, in ProductInput, files []ImageFile) (domain.Product, error) {
	if err := in.validate(); err != nil {
		return domain.Product{}, err
	}
	p, err := s.Prods.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, ErrNotFound
		}
		return domain.Product{}, err
	}

	images := p.Images
	if len(files) > 0 {
		s.deleteRefs(p.Images, false)
		urls, err := s.uploadAll(ctx, files)
		if err != nil {
			return domain.Product{}, fmt.Errorf("upload images: %w", err)
		}
		images = urls
	}

	p.Name = in.Name
	p.Category = in.Category
	p.Description = in.Description
	p.NewPrice = in.NewPrice
	p.OldPrice = in.OldPrice
	p.Sizes = in.Sizes
	p.Available = in.Available
	p.Images = images

	if err := s.Prods.Update(p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// Remove deletes the product's assets and then the product itself. Unlike
// Edit, an asset deletion failure aborts the removal: the row must not
// disappear while assets might still be live and untracked.
func (s *CatalogService) Remove(ctx context.Context, id int64) (string, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	if err := s.deleteRefs(p.Images, true); err != nil {
		return "", fmt.Errorf("delete assets: %w", err)
	}
	if err := s.Prods.Delete(id); err != nil {
		return "", err
	}
	return p.Name, nil
}

func (s *CatalogService) List() ([]domain.Product, error) {
	return s.Prods.List()
}

func (s *CatalogService) Get(id int64) (domain.Product, error) {
	p, err := s.Prods.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	return p, err
}

// uploadAll pushes every file to the asset store concurrently, keeping
// result order aligned with the input. On any failure the uploads that
// succeeded are rolled back best-effort.
func (s *CatalogService) uploadAll(ctx context.Context, files []ImageFile) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}
	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			u, err := s.Assets.Upload(gctx, f.Name, f.Data)
			if err != nil {
				return err
			}
			urls[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var landed []string
		for _, u := range urls {
			if u != "" {
				landed = append(landed, u)
			}
		}
		s.deleteRefs(landed, false)
		return nil, err
	}
	return urls, nil
}

// deleteRefs removes the assets behind the given references. With
// propagate=false failures are logged and swallowed; with propagate=true
// the first failure aborts. Each deletion gets its own timeout; a
// malformed reference counts as a failure too.
func (s *CatalogService) deleteRefs(refs []string, propagate bool) error {
	for _, ref := range refs {
		key, err := assets.KeyFromURL(ref)
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
			err = s.Assets.Delete(ctx, key)
			cancel()
		}
		if err != nil {
			if propagate {
				return err
			}
			applog.Error(nil, "catalog.asset.delete", err, map[string]any{"ref": ref})
		}
	}
	return nil
}
