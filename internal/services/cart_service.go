package services

import (
	"database/sql"
	"errors"

	"stitchmart/internal/domain"
	"stitchmart/internal/repos"
	"stitchmart/internal/validate"
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// Add snapshots the product's current name, price and images into the
// user's cart, merging quantities when a line for the product already
// exists.
func (s *CartService) Add(userID string, productID int64, qty int, size string) error {
	p, err := s.Prods.Get(productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.Carts.Upsert(userID, domain.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.NewPrice,
		Quantity:  validate.Qty(qty),
		Size:      size,
		Images:    p.Images,
	})
}

// Remove decrements the line's quantity by one; a line at quantity 1
// disappears entirely.
func (s *CartService) Remove(userID string, productID int64) error {
	err := s.Carts.Decrement(userID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Items returns the caller's own cart only.
func (s *CartService) Items(userID string) ([]domain.CartItem, error) {
	return s.Carts.Items(userID)
}
