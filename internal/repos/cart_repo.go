package repos

import (
	"database/sql"
	"encoding/json"

	"stitchmart/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type cartRow struct {
	ProductID  int64  `db:"product_id"`
	Name       string `db:"name"`
	Price      string `db:"price"`
	Qty        int    `db:"qty"`
	Size       string `db:"size"`
	ImagesJSON string `db:"images_json"`
}

func (r cartRow) toDomain() domain.CartItem {
	it := domain.CartItem{
		ProductID: r.ProductID,
		Name:      r.Name,
		Price:     r.Price,
		Quantity:  r.Qty,
		Size:      r.Size,
		Images:    []string{},
	}
	_ = json.Unmarshal([]byte(r.ImagesJSON), &it.Images)
	return it
}

// Upsert merges on (user_id, product_id): an existing line gains the new
// quantity, otherwise the snapshot row is inserted. The merge is a single
// statement, so concurrent adds for the same user cannot produce
// duplicate lines.
func (r *CartRepo) Upsert(userID string, it domain.CartItem) error {
	_, err := r.db.Exec(`
	  INSERT INTO cart_items(user_id, product_id, name, price, qty, size, images_json, created_at)
	  VALUES(?,?,?,?,?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(user_id, product_id) DO UPDATE
	  SET qty = cart_items.qty + excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, userID, it.ProductID, it.Name, it.Price, it.Quantity, it.Size, mustJSON(it.Images))
	return err
}

// Decrement lowers a line's quantity by one; a line at quantity 1 is
// deleted instead of being stored at 0. Returns sql.ErrNoRows when the
// user has no line for the product.
func (r *CartRepo) Decrement(userID string, productID int64) error {
	res, err := r.db.Exec(`
	  UPDATE cart_items SET qty = qty - 1, updated_at = CURRENT_TIMESTAMP
	  WHERE user_id = ? AND product_id = ? AND qty > 1
	`, userID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	res, err = r.db.Exec(`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`, userID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Items returns the user's cart in insertion order.
func (r *CartRepo) Items(userID string) ([]domain.CartItem, error) {
	var rows []cartRow
	err := r.db.Select(&rows, `
	  SELECT product_id, name, price, qty, size, images_json
	  FROM cart_items WHERE user_id = ? ORDER BY rowid
	`, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CartItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
