package models

import "time"

// Book is the model for the 'books' table.
// Category is the denormalized category name joined from 'categories';
// CategoryID is the actual FK column.
type Book struct {
	ID          int64   `json:"id" db:"id"`
	Title       string  `json:"title" db:"title"`
	Author      string  `json:"author" db:"author"`
	Price       float64 `json:"price" db:"price"` // IDR, no minor units
	Description string  `json:"description" db:"description"`
	CategoryID  int64   `json:"-" db:"category_id"`
	Category    string  `json:"category" db:"-"`
	Stock       int     `json:"stock" db:"stock"`
	CoverImage  string  `json:"coverImage" db:"cover_image"`
	PublishYear int     `json:"publishYear" db:"publish_year"`
	ISBN        string  `json:"isbn" db:"isbn"`
	Rating      float64 `json:"rating" db:"rating"`
	Reviews     int     `json:"reviews" db:"reviews_count"`
	Featured    bool    `json:"featured" db:"featured"`
	Bestseller  bool    `json:"bestseller" db:"bestseller"`
	NewArrival  bool    `json:"new_arrival" db:"new_arrival"`
	Status      string  `json:"status" db:"status"` // 'active' or 'inactive'

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// BookFilter carries the catalog query parameters. All fields are
// optional; Limit falls back to DefaultBookLimit when zero or negative.
type BookFilter struct {
	Featured   bool
	Bestseller bool
	NewArrival bool
	Search     string // case-insensitive substring against title OR author
	Category   string // category slug
	Limit      int
}

// DefaultBookLimit caps catalog listings when no limit is given.
const DefaultBookLimit = 50

func (f BookFilter) EffectiveLimit() int {
	if f.Limit <= 0 {
		return DefaultBookLimit
	}
	return f.Limit
}
