package domain

// Product is a catalog entry. ID is the catalog-scoped sequential
// identifier exposed to clients, allocated from an atomic sequence.
// Prices are kept as text to preserve display formatting.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Images      []string `json:"images"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	NewPrice    string   `json:"new_price"`
	OldPrice    string   `json:"old_price"`
	CreatedAt   string   `json:"date"`
	Available   bool     `json:"available"`
	Sizes       []string `json:"sizes"`
}

// CartItem is an add-time snapshot of a product inside a user's cart.
// ProductID is a weak reference: the product may be deleted later and the
// snapshot keeps displaying the data captured when it was added.
type CartItem struct {
	ProductID int64    `json:"productId"`
	Name      string   `json:"name"`
	Price     string   `json:"price"`
	Quantity  int      `json:"quantity"`
	Size      string   `json:"size"`
	Images    []string `json:"images"`
}

type Address struct {
	Street      string `json:"street"`
	Pincode     string `json:"pincode"`
	City        string `json:"city"`
	State       string `json:"state"`
	PhoneNumber string `json:"phoneNumber"`
}

// OrderLine is one flattened line item of the order read projection.
type OrderLine struct {
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Price    string   `json:"price"`
	Size     string   `json:"size"`
	Images   []string `json:"images"`
}

// OrderView is the read projection returned by GET /orders/:orderId.
// It is built entirely from the persisted order snapshot; it never joins
// the live catalog, so later product edits cannot leak into it.
type OrderView struct {
	OrderID     string      `json:"orderId"`
	TotalAmount float64     `json:"totalAmount"`
	Username    string      `json:"username"`
	Items       []OrderLine `json:"items"`
	Address     Address     `json:"address"`
}
