package repos

import (
	"database/sql"

	"stitchmart/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type orderRow struct {
	ID           string  `db:"id"`
	UserEmail    string  `db:"user_email"`
	CustomerName string  `db:"customer_name"`
	Street       string  `db:"street"`
	Pincode      string  `db:"pincode"`
	City         string  `db:"city"`
	State        string  `db:"state"`
	Phone        string  `db:"phone"`
	TotalValue   float64 `db:"total_value"`
	CreatedAt    string  `db:"created_at"`
}

// CreateFromCart runs the whole cart-to-order transition in one
// transaction: read the cart, write the order header, deep-copy the cart
// lines into order_items, clear the cart, commit. A crash can therefore
// never leave a cleared cart without its order, and two concurrent
// placements cannot both consume the same cart: the loser finds it empty
// and gets sql.ErrNoRows.
func (r *OrderRepo) CreateFromCart(orderID, userID, userEmail, customerName string, addr domain.Address, total float64) ([]domain.CartItem, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	var rows []cartRow
	if err := tx.Select(&rows, `
	  SELECT product_id, name, price, qty, size, images_json
	  FROM cart_items WHERE user_id = ? ORDER BY rowid
	`, userID); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, sql.ErrNoRows
	}

	if _, err := tx.Exec(`
	  INSERT INTO orders(id, user_email, customer_name, street, pincode, city, state, phone, total_value, created_at)
	  VALUES(?,?,?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	`, orderID, userEmail, customerName, addr.Street, addr.Pincode, addr.City, addr.State, addr.PhoneNumber, total); err != nil {
		return nil, err
	}

	items := make([]domain.CartItem, 0, len(rows))
	for _, row := range rows {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, product_id, name, price, qty, size, images_json)
		  VALUES(?,?,?,?,?,?,?)
		`, orderID, row.ProductID, row.Name, row.Price, row.Qty, row.Size, row.ImagesJSON); err != nil {
			return nil, err
		}
		items = append(items, row.toDomain())
	}

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE user_id = ?`, userID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return items, nil
}

// Get loads an order and its snapshot line items. Items come from
// order_items only; the live catalog is never consulted.
func (r *OrderRepo) Get(orderID string) (domain.OrderView, string, error) {
	var o orderRow
	if err := r.db.Get(&o, `
	  SELECT id, user_email, customer_name, street, pincode, city, state, phone, total_value,
	         COALESCE(created_at,'') AS created_at
	  FROM orders WHERE id = ?
	`, orderID); err != nil {
		return domain.OrderView{}, "", err
	}

	var rows []cartRow
	if err := r.db.Select(&rows, `
	  SELECT product_id, name, price, qty, size, images_json
	  FROM order_items WHERE order_id = ? ORDER BY rowid
	`, orderID); err != nil {
		return domain.OrderView{}, "", err
	}

	view := domain.OrderView{
		OrderID:     o.ID,
		TotalAmount: o.TotalValue,
		Username:    o.CustomerName,
		Items:       make([]domain.OrderLine, 0, len(rows)),
		Address: domain.Address{
			Street:      o.Street,
			Pincode:     o.Pincode,
			City:        o.City,
			State:       o.State,
			PhoneNumber: o.Phone,
		},
	}
	for _, row := range rows {
		it := row.toDomain()
		view.Items = append(view.Items, domain.OrderLine{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Size:     it.Size,
			Images:   it.Images,
		})
	}
	return view, o.UserEmail, nil
}
