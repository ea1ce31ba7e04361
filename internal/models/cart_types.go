package models

import "time"

// Cart defines the struct for the 'carts' table
type Cart struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItem defines the struct for the 'cart_items' table.
// PriceAtAdd is the book price snapshotted when the line was first
// created; it is never re-synced with later catalog changes.
type CartItem struct {
	ID         int64     `json:"id" db:"id"`
	CartID     int64     `json:"cartId" db:"cart_id"`
	BookID     int64     `json:"bookId" db:"book_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	PriceAtAdd float64   `json:"priceAtAdd" db:"price_at_add"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// CartLine is the API shape for one cart entry: the stored line plus the
// joined book snapshot the storefront renders.
type CartLine struct {
	BookID     int64   `json:"bookId"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	CoverImage string  `json:"coverImage"`
	Price      float64 `json:"price"` // price_at_add snapshot
	Quantity   int     `json:"quantity"`
	LineTotal  float64 `json:"lineTotal"`
	Stock      int     `json:"stock"` // current catalog stock
}
