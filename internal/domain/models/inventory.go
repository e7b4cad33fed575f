package models

// Category groups items for filtering and reporting.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CategoryPayload carries client-supplied category fields.
type CategoryPayload struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// Supplier is a parts vendor.
type Supplier struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
}

type SupplierPayload struct {
	Name          string `json:"name" binding:"required"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

// Item is a stocked part.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	CategoryID  string  `json:"categoryId,omitempty"`
	SupplierID  string  `json:"supplierId,omitempty"`
	Price       float64 `json:"price"`
	Cost        float64 `json:"cost,omitempty"`
	Quantity    int     `json:"quantity"`
	MinQuantity int     `json:"minQuantity,omitempty"`
	Description string  `json:"description,omitempty"`
	CreatedAt   string  `json:"createdAt,omitempty"` // format: YYYY-MM-DD HH:MM:SS
}

// ItemPayload allows partial updates: nil pointer means "leave untouched".
type ItemPayload struct {
	Name        *string  `json:"name,omitempty"`
	SKU         *string  `json:"sku,omitempty"`
	CategoryID  *string  `json:"categoryId,omitempty"`
	SupplierID  *string  `json:"supplierId,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Cost        *float64 `json:"cost,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	MinQuantity *int     `json:"minQuantity,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// StockTransaction records a stock movement against an item.
type StockTransaction struct {
	ID        string `json:"id"`
	ItemID    string `json:"itemId"`
	Kind      string `json:"kind"` // in | out | adjust
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type StockTransactionPayload struct {
	ItemID   string `json:"itemId" binding:"required"`
	Kind     string `json:"kind" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	Reason   string `json:"reason"`
}
