package repos

import (
	"encoding/json"

	"stitchmart/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

type productRow struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Category    string `db:"category"`
	Description string `db:"description"`
	NewPrice    string `db:"new_price"`
	OldPrice    string `db:"old_price"`
	ImagesJSON  string `db:"images_json"`
	SizesJSON   string `db:"sizes_json"`
	Available   bool   `db:"available"`
	CreatedAt   string `db:"created_at"`
}

func (r productRow) toDomain() domain.Product {
	p := domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		NewPrice:    r.NewPrice,
		OldPrice:    r.OldPrice,
		CreatedAt:   r.CreatedAt,
		Available:   r.Available,
		Images:      []string{},
		Sizes:       []string{},
	}
	_ = json.Unmarshal([]byte(r.ImagesJSON), &p.Images)
	_ = json.Unmarshal([]byte(r.SizesJSON), &p.Sizes)
	return p
}

func mustJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// NextID atomically advances the product sequence and returns the new
// value. First allocation yields 1.
func (r *ProductRepo) NextID() (int64, error) {
	var id int64
	err := r.db.Get(&id, `
	  INSERT INTO sequences(name, value) VALUES('product_id', 1)
	  ON CONFLICT(name) DO UPDATE SET value = value + 1
	  RETURNING value
	`)
	return id, err
}

func (r *ProductRepo) Insert(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, name, category, description, new_price, old_price, images_json, sizes_json, available, created_at)
	  VALUES(?,?,?,?,?,?,?,?,?,?)
	`, p.ID, p.Name, p.Category, p.Description, p.NewPrice, p.OldPrice,
		mustJSON(p.Images), mustJSON(p.Sizes), p.Available, p.CreatedAt)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
	  UPDATE products
	  SET name=?, category=?, description=?, new_price=?, old_price=?, images_json=?, sizes_json=?, available=?
	  WHERE id=?
	`, p.Name, p.Category, p.Description, p.NewPrice, p.OldPrice,
		mustJSON(p.Images), mustJSON(p.Sizes), p.Available, p.ID)
	return err
}

func (r *ProductRepo) Get(id int64) (domain.Product, error) {
	var row productRow
	err := r.db.Get(&row, `
	  SELECT id, name, category, description, new_price, old_price, images_json, sizes_json, available,
	         COALESCE(created_at,'') AS created_at
	  FROM products WHERE id = ?
	`, id)
	if err != nil {
		return domain.Product{}, err
	}
	return row.toDomain(), nil
}

// List returns the full catalog in insertion order (ids are monotone).
func (r *ProductRepo) List() ([]domain.Product, error) {
	var rows []productRow
	err := r.db.Select(&rows, `
	  SELECT id, name, category, description, new_price, old_price, images_json, sizes_json, available,
	         COALESCE(created_at,'') AS created_at
	  FROM products ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ProductRepo) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	return err
}
