package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sapasaja/bukuku-api/internal/demo"
	"github.com/sapasaja/bukuku-api/internal/models"
)

const defaultCoverImage = "https://images.pexels.com/photos/159711/books-bookstore-book-reading-159711.jpeg?auto=compress&cs=tinysrgb&w=400"

// bookFilterFromQuery maps the catalog query string onto a BookFilter.
// Flag params count as set when present with any non-empty value.
func bookFilterFromQuery(c *gin.Context) models.BookFilter {
	limit, _ := strconv.Atoi(c.Query("limit"))
	return models.BookFilter{
		Featured:   c.Query("featured") != "",
		Bestseller: c.Query("bestseller") != "",
		NewArrival: c.Query("new_arrival") != "",
		Search:     c.Query("search"),
		Category:   c.Query("category"),
		Limit:      limit,
	}
}

// GetBooks is the handler for GET /v1/books: the public catalog with
// flag/search/category filters, active books only, newest first.
func (h *Handlers) GetBooks(c *gin.Context) {
	filter := bookFilterFromQuery(c)

	if h.DemoMode() {
		books := h.Demo.ListBooks(filter)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": books, "count": len(books)})
		return
	}

	query := `
		SELECT b.id, b.title, b.author, b.price, b.description, b.category_id,
		       COALESCE(c.name, 'Uncategorized'), b.stock, b.cover_image, b.publish_year,
		       b.isbn, b.rating, b.reviews_count, b.featured, b.bestseller, b.new_arrival,
		       b.status, b.created_at, b.updated_at
		FROM books b
		LEFT JOIN categories c ON b.category_id = c.id
		WHERE b.status = 'active'`

	var args []interface{}
	if filter.Featured {
		query += " AND b.featured = 1"
	}
	if filter.Bestseller {
		query += " AND b.bestseller = 1"
	}
	if filter.NewArrival {
		query += " AND b.new_arrival = 1"
	}
	if filter.Search != "" {
		query += " AND (b.title LIKE ? OR b.author LIKE ?)"
		term := "%" + filter.Search + "%"
		args = append(args, term, term)
	}
	if filter.Category != "" {
		query += " AND c.slug = ?"
		args = append(args, filter.Category)
	}
	query += " ORDER BY b.created_at DESC LIMIT ?"
	args = append(args, filter.EffectiveLimit())

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		dbError(c, "list books", err)
		return
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Price, &b.Description, &b.CategoryID,
			&b.Category, &b.Stock, &b.CoverImage, &b.PublishYear,
			&b.ISBN, &b.Rating, &b.Reviews, &b.Featured, &b.Bestseller, &b.NewArrival,
			&b.Status, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			dbError(c, "scan book", err)
			return
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		dbError(c, "iterate books", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": books, "count": len(books)})
}

// GetBook is the handler for GET /v1/books/:id
func (h *Handlers) GetBook(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Book ID tidak valid"})
		return
	}

	if h.DemoMode() {
		book, err := h.Demo.GetBook(id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Buku tidak ditemukan"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": book})
		return
	}

	query := `
		SELECT b.id, b.title, b.author, b.price, b.description, b.category_id,
		       COALESCE(c.name, 'Uncategorized'), b.stock, b.cover_image, b.publish_year,
		       b.isbn, b.rating, b.reviews_count, b.featured, b.bestseller, b.new_arrival,
		       b.status, b.created_at, b.updated_at
		FROM books b
		LEFT JOIN categories c ON b.category_id = c.id
		WHERE b.id = ?`

	var b models.Book
	err = h.DB.QueryRow(query, id).Scan(
		&b.ID, &b.Title, &b.Author, &b.Price, &b.Description, &b.CategoryID,
		&b.Category, &b.Stock, &b.CoverImage, &b.PublishYear,
		&b.ISBN, &b.Rating, &b.Reviews, &b.Featured, &b.Bestseller, &b.NewArrival,
		&b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Buku tidak ditemukan"})
			return
		}
		dbError(c, "get book", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": b})
}

//
// --- Admin Book Handlers ---
//

// bookFromForm reads the multipart book form shared by create and
// update. The admin portal posts multipart so the cover can ride along.
func bookFromForm(c *gin.Context) (models.Book, string) {
	price, _ := strconv.ParseFloat(c.PostForm("price"), 64)
	stock, _ := strconv.Atoi(c.PostForm("stock"))
	publishYear, _ := strconv.Atoi(c.PostForm("publishYear"))
	if publishYear == 0 {
		publishYear = time.Now().Year()
	}

	return models.Book{
		Title:       c.PostForm("title"),
		Author:      c.PostForm("author"),
		Price:       price,
		Description: c.PostForm("description"),
		Stock:       stock,
		PublishYear: publishYear,
		ISBN:        c.PostForm("isbn"),
		Featured:    c.PostForm("featured") != "",
		Bestseller:  c.PostForm("bestseller") != "",
		NewArrival:  c.PostForm("new_arrival") != "",
	}, c.PostForm("category")
}

// categoryIDByName resolves a category name to its id, defaulting to 1
// like the original admin form did for unknown names.
func (h *Handlers) categoryIDByName(name string) int64 {
	var id int64 = 1
	_ = h.DB.QueryRow("SELECT id FROM categories WHERE name = ?", name).Scan(&id)
	return id
}

// CreateBook is the handler for POST /v1/admin/books (multipart form).
func (h *Handlers) CreateBook(c *gin.Context) {
	book, categoryName := bookFromForm(c)

	if book.Title == "" || book.Author == "" || book.Price == 0 || categoryName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Title, author, price, dan category wajib diisi"})
		return
	}

	book.CoverImage = defaultCoverImage
	if file, err := c.FormFile("cover_image"); err == nil {
		url, msg, err := h.saveCoverImage(c, file)
		if err != nil {
			dbError(c, "save cover image", err)
			return
		}
		if msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
			return
		}
		book.CoverImage = url
	}

	if h.DemoMode() {
		created := h.Demo.CreateBook(book, categoryName)
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Buku berhasil ditambahkan", "data": created})
		return
	}

	book.CategoryID = h.categoryIDByName(categoryName)

	query := `
		INSERT INTO books (title, author, price, description, category_id, stock, cover_image,
		                   publish_year, isbn, featured, bestseller, new_arrival, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'active', NOW(), NOW())`

	result, err := h.DB.Exec(query,
		book.Title, book.Author, book.Price, book.Description, book.CategoryID, book.Stock,
		book.CoverImage, book.PublishYear, book.ISBN, book.Featured, book.Bestseller, book.NewArrival,
	)
	if err != nil {
		dbError(c, "create book", err)
		return
	}

	book.ID, _ = result.LastInsertId()
	book.Category = categoryName
	book.Status = "active"

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Buku berhasil ditambahkan", "data": book})
}

// UpdateBook is the handler for PUT /v1/admin/books/:id (multipart
// form, optional replacement cover).
func (h *Handlers) UpdateBook(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Book ID tidak valid"})
		return
	}

	book, categoryName := bookFromForm(c)
	if book.Title == "" || book.Author == "" || book.Price == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Title, author, dan price wajib diisi"})
		return
	}

	if file, errFile := c.FormFile("cover_image"); errFile == nil {
		url, msg, err := h.saveCoverImage(c, file)
		if err != nil {
			dbError(c, "save cover image", err)
			return
		}
		if msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
			return
		}
		book.CoverImage = url
	}

	if h.DemoMode() {
		updated, err := h.Demo.UpdateBook(id, book, categoryName)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Buku tidak ditemukan"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Buku berhasil diupdate", "data": updated})
		return
	}

	query := `
		UPDATE books
		SET title = ?, author = ?, price = ?, description = ?, stock = ?,
		    publish_year = ?, isbn = ?, featured = ?, bestseller = ?, new_arrival = ?, updated_at = NOW()`
	args := []interface{}{
		book.Title, book.Author, book.Price, book.Description, book.Stock,
		book.PublishYear, book.ISBN, book.Featured, book.Bestseller, book.NewArrival,
	}
	if categoryName != "" {
		query += ", category_id = ?"
		args = append(args, h.categoryIDByName(categoryName))
	}
	if book.CoverImage != "" {
		query += ", cover_image = ?"
		args = append(args, book.CoverImage)
	}
	query += " WHERE id = ?"
	args = append(args, id)

	result, err := h.DB.Exec(query, args...)
	if err != nil {
		dbError(c, "update book", err)
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		// MySQL also reports 0 when nothing changed; re-check existence
		var exists int
		if err := h.DB.QueryRow("SELECT 1 FROM books WHERE id = ?", id).Scan(&exists); err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Buku tidak ditemukan"})
				return
			}
			dbError(c, "recheck book", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Buku berhasil diupdate"})
}

// DeleteBook is the handler for DELETE /v1/admin/books/:id. A hard row
// delete; the status flag is not used as a soft delete.
func (h *Handlers) DeleteBook(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Book ID is required"})
		return
	}

	if h.DemoMode() {
		if err := h.Demo.DeleteBook(id); err != nil {
			if errors.Is(err, demo.ErrBookNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Buku tidak ditemukan"})
				return
			}
			dbError(c, "delete book (demo)", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Buku berhasil dihapus"})
		return
	}

	result, err := h.DB.Exec("DELETE FROM books WHERE id = ?", id)
	if err != nil {
		dbError(c, "delete book", err)
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Buku tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Buku berhasil dihapus"})
}
