package demo

import (
	"sort"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/sapasaja/bukuku-api/internal/models"
)

//
// --- Catalog (books + categories) ---
//

// ListBooks filters active books the same way the SQL path does: boolean
// flags AND together, search is a case-insensitive substring match on
// title or author, category matches by slug, newest first, capped at the
// effective limit.
func (s *Store) ListBooks(f models.BookFilter) []models.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	term := strings.ToLower(f.Search)

	books := []models.Book{}
	for _, b := range s.books {
		if b.Status != "active" {
			continue
		}
		if f.Featured && !b.Featured {
			continue
		}
		if f.Bestseller && !b.Bestseller {
			continue
		}
		if f.NewArrival && !b.NewArrival {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(b.Title), term) &&
			!strings.Contains(strings.ToLower(b.Author), term) {
			continue
		}
		if f.Category != "" && s.categorySlug(b.CategoryID) != f.Category {
			continue
		}
		b.Category = s.categoryName(b.CategoryID)
		books = append(books, b)
	}

	sort.SliceStable(books, func(i, j int) bool {
		if books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].ID > books[j].ID
		}
		return books[i].CreatedAt.After(books[j].CreatedAt)
	})

	if limit := f.EffectiveLimit(); len(books) > limit {
		books = books[:limit]
	}
	return books
}

// GetBook returns one active-or-inactive book by id.
func (s *Store) GetBook(id int64) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b := s.bookByID(id); b != nil {
		book := *b
		book.Category = s.categoryName(book.CategoryID)
		return book, nil
	}
	return models.Book{}, ErrBookNotFound
}

// CreateBook inserts an admin-created book. The category is referenced
// by name; unknown names fall back to the first category, mirroring the
// storefront's create form.
func (s *Store) CreateBook(b models.Book, categoryName string) models.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.CategoryID = s.categoryIDByName(categoryName)
	b.Category = s.categoryName(b.CategoryID)
	s.nextBookID++
	b.ID = s.nextBookID
	b.Status = "active"
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	s.books = append(s.books, b)
	return b
}

// UpdateBook overwrites the mutable fields of an existing book.
func (s *Store) UpdateBook(id int64, updated models.Book, categoryName string) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.bookByID(id)
	if b == nil {
		return models.Book{}, ErrBookNotFound
	}

	b.Title = updated.Title
	b.Author = updated.Author
	b.Price = updated.Price
	b.Description = updated.Description
	b.Stock = updated.Stock
	b.PublishYear = updated.PublishYear
	b.ISBN = updated.ISBN
	b.Featured = updated.Featured
	b.Bestseller = updated.Bestseller
	b.NewArrival = updated.NewArrival
	if updated.CoverImage != "" {
		b.CoverImage = updated.CoverImage
	}
	if categoryName != "" {
		b.CategoryID = s.categoryIDByName(categoryName)
	}
	b.Category = s.categoryName(b.CategoryID)
	b.UpdatedAt = time.Now()
	return *b, nil
}

// DeleteBook hard-deletes a row, like the SQL path.
func (s *Store) DeleteBook(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.books {
		if s.books[i].ID == id {
			s.books = append(s.books[:i], s.books[i+1:]...)
			return nil
		}
	}
	return ErrBookNotFound
}

// ListCategories returns all categories name-ascending.
func (s *Store) ListCategories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	cats := make([]models.Category, len(s.categories))
	copy(cats, s.categories)
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	return cats
}

// CreateCategory adds a category with a derived slug.
func (s *Store) CreateCategory(name, description string) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCatID++
	cat := models.Category{
		ID:          s.nextCatID,
		Name:        name,
		Slug:        slug.Make(name),
		Description: description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	s.categories = append(s.categories, cat)
	return cat
}

// UpdateCategory renames a category, re-deriving the slug.
func (s *Store) UpdateCategory(id int64, name, description string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories[i].Name = name
			s.categories[i].Slug = slug.Make(name)
			s.categories[i].Description = description
			s.categories[i].UpdatedAt = time.Now()
			return s.categories[i], nil
		}
	}
	return models.Category{}, ErrCategoryNotFound
}

// DeleteCategory removes a category row.
func (s *Store) DeleteCategory(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return ErrCategoryNotFound
}

// helpers; callers hold s.mu

func (s *Store) categorySlug(id int64) string {
	for _, c := range s.categories {
		if c.ID == id {
			return c.Slug
		}
	}
	return ""
}

func (s *Store) categoryName(id int64) string {
	for _, c := range s.categories {
		if c.ID == id {
			return c.Name
		}
	}
	return "Uncategorized"
}

func (s *Store) categoryIDByName(name string) int64 {
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			return c.ID
		}
	}
	if len(s.categories) > 0 {
		return s.categories[0].ID
	}
	return 1
}
