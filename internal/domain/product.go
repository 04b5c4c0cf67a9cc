package domain

type Product struct {
	ID        int64   `db:"id" json:"id"`
	Name      string  `db:"name" json:"name"`
	UnitPrice float64 `db:"unit_price" json:"unit_price"`
	Quantity  int     `db:"quantity" json:"quantity"`
}

// ProductFields is everything about a product except its server-assigned id.
type ProductFields struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

func (p Product) Fields() ProductFields {
	return ProductFields{Name: p.Name, UnitPrice: p.UnitPrice, Quantity: p.Quantity}
}
