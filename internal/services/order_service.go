package services

import (
	"database/sql"
	"errors"

	"stitchmart/internal/domain"
	"stitchmart/internal/repos"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderService struct {
	Orders *repos.OrderRepo
}

func NewOrderService(orders *repos.OrderRepo) *OrderService {
	return &OrderService{Orders: orders}
}

// Place turns the user's current cart into an immutable order snapshot.
// The caller-supplied totalValue is the authoritative charge basis; the
// returned serverTotal is recomputed from the snapshot prices so callers
// can audit mismatches. Placing with an empty cart fails with
// ErrEmptyCart, which also makes double-submits safe: the transition is
// one transaction, so the second placement sees the cleared cart.
func (s *OrderService) Place(user *domain.User, addr domain.Address, totalValue float64) (orderID string, serverTotal float64, err error) {
	orderID = uuid.NewString()
	items, err := s.Orders.CreateFromCart(orderID, user.ID, user.Email, user.Name, addr, totalValue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, ErrEmptyCart
		}
		return "", 0, err
	}
	return orderID, snapshotTotal(items), nil
}

// View returns the order read projection plus the owning user's email so
// handlers can scope access.
func (s *OrderService) View(orderID string) (domain.OrderView, string, error) {
	view, owner, err := s.Orders.Get(orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.OrderView{}, "", ErrNotFound
	}
	return view, owner, err
}

// snapshotTotal sums price*qty over the snapshot lines. Prices are
// decimal-as-text; a line that fails to parse contributes nothing (the
// mismatch then shows up in the audit log).
func snapshotTotal(items []domain.CartItem) float64 {
	total := decimal.Zero
	for _, it := range items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	f, _ := total.Float64()
	return f
}
