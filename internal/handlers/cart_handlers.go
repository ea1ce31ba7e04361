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
	"github.com/sapasaja/bukuku-api/internal/pricing"
)

//
// --- Cart Handlers (Customer-Only) ---
//

// getOrCreateCartID finds a user's cart or creates one. Helper for use
// within a transaction.
func getOrCreateCartID(tx *sql.Tx, userID int64) (int64, error) {
	var cartID int64

	err := tx.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err == nil {
		return cartID, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	now := time.Now()
	result, err := tx.Exec("INSERT INTO carts (user_id, created_at, updated_at) VALUES (?, ?, ?)", userID, now, now)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// cartResponse is the shared shape for GET /v1/cart: the lines plus the
// derived totals the checkout page renders.
func cartResponse(c *gin.Context, lines []models.CartLine) {
	totalItems, subtotal := pricing.CartTotals(lines)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"items":         lines,
			"totalItems":    totalItems,
			"totalPrice":    subtotal,
			"shipping_cost": pricing.ShippingCost(subtotal),
			"final_total":   pricing.FinalTotal(subtotal),
		},
	})
}

// GetCart is the handler for GET /v1/cart
func (h *Handlers) GetCart(c *gin.Context) {
	userID := c.GetInt64("userID")

	if h.DemoMode() {
		cartResponse(c, h.Demo.GetCart(userID))
		return
	}

	var cartID int64
	err := h.DB.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err != nil {
		if err == sql.ErrNoRows {
			cartResponse(c, []models.CartLine{})
			return
		}
		dbError(c, "find cart", err)
		return
	}

	query := `
		SELECT ci.book_id, b.title, b.author, b.cover_image, ci.price_at_add, ci.quantity, b.stock
		FROM cart_items ci
		JOIN books b ON ci.book_id = b.id
		WHERE ci.cart_id = ?`

	rows, err := h.DB.Query(query, cartID)
	if err != nil {
		dbError(c, "query cart items", err)
		return
	}
	defer rows.Close()

	lines := []models.CartLine{}
	for rows.Next() {
		var line models.CartLine
		if err := rows.Scan(&line.BookID, &line.Title, &line.Author, &line.CoverImage, &line.Price, &line.Quantity, &line.Stock); err != nil {
			dbError(c, "scan cart item", err)
			return
		}
		line.LineTotal = line.Price * float64(line.Quantity)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		dbError(c, "iterate cart items", err)
		return
	}

	cartResponse(c, lines)
}

// AddToCartInput defines the JSON for adding an item to the cart.
type AddToCartInput struct {
	BookID   int64 `json:"book_id" binding:"required"`
	Quantity int   `json:"quantity" binding:"required,gt=0"`
}

// AddToCart is the handler for POST /v1/cart/items. A duplicate add of
// the same book merges into the existing line by incrementing its
// quantity; the price snapshot is taken on the first add only.
func (h *Handlers) AddToCart(c *gin.Context) {
	userID := c.GetInt64("userID")

	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid input: " + err.Error()})
		return
	}

	if h.DemoMode() {
		if err := h.Demo.AddToCart(userID, input.BookID, input.Quantity); err != nil {
			switch {
			case errors.Is(err, demo.ErrBookNotFound):
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Buku tidak ditemukan"})
			case errors.Is(err, demo.ErrInsufficientStock):
				c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Stok tidak mencukupi"})
			default:
				dbError(c, "add to cart (demo)", err)
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Buku ditambahkan ke keranjang"})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		dbError(c, "begin add-to-cart tx", err)
		return
	}
	defer tx.Rollback()

	cartID, err := getOrCreateCartID(tx, userID)
	if err != nil {
		dbError(c, "get or create cart", err)
		return
	}

	var price float64
	var stock int
	err = tx.QueryRow("SELECT price, stock FROM books WHERE id = ? AND status = 'active'", input.BookID).Scan(&price, &stock)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Buku tidak ditemukan"})
			return
		}
		dbError(c, "check book", err)
		return
	}
	if stock < input.Quantity {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Stok tidak mencukupi"})
		return
	}

	// Upsert: UNIQUE(cart_id, book_id) guarantees one line per book.
	// price_at_add is not in the UPDATE clause, so the snapshot sticks.
	_, err = tx.Exec(`
		INSERT INTO cart_items (cart_id, book_id, quantity, price_at_add, created_at, updated_at)
		VALUES (?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			quantity = quantity + VALUES(quantity),
			updated_at = NOW()`,
		cartID, input.BookID, input.Quantity, price)
	if err != nil {
		dbError(c, "upsert cart item", err)
		return
	}

	if err := tx.Commit(); err != nil {
		dbError(c, "commit add-to-cart", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Buku ditambahkan ke keranjang"})
}

// UpdateCartItemInput defines the JSON for updating an item's quantity.
// gte=0 allows quantity 0, which removes the item.
type UpdateCartItemInput struct {
	Quantity *int `json:"quantity" binding:"required,gte=0"`
}

// UpdateCartItem is the handler for PUT /v1/cart/items/:book_id
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	userID := c.GetInt64("userID")
	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Book ID tidak valid"})
		return
	}

	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if h.DemoMode() {
		if err := h.Demo.UpdateQuantity(userID, bookID, *input.Quantity); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Item tidak ada di keranjang"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Keranjang diupdate"})
		return
	}

	var cartID int64
	err = h.DB.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Keranjang tidak ditemukan"})
			return
		}
		dbError(c, "find cart", err)
		return
	}

	// Quantity 0 is a delete request.
	if *input.Quantity == 0 {
		h.deleteCartItem(c, cartID, bookID)
		return
	}

	result, err := h.DB.Exec(
		"UPDATE cart_items SET quantity = ?, updated_at = ? WHERE cart_id = ? AND book_id = ?",
		*input.Quantity, time.Now(), cartID, bookID)
	if err != nil {
		dbError(c, "update cart item", err)
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Item tidak ada di keranjang"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Keranjang diupdate"})
}

// DeleteCartItem is the handler for DELETE /v1/cart/items/:book_id
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	userID := c.GetInt64("userID")
	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Book ID tidak valid"})
		return
	}

	if h.DemoMode() {
		if err := h.Demo.RemoveFromCart(userID, bookID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Item tidak ada di keranjang"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item dihapus dari keranjang"})
		return
	}

	var cartID int64
	err = h.DB.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Keranjang tidak ditemukan"})
			return
		}
		dbError(c, "find cart", err)
		return
	}

	h.deleteCartItem(c, cartID, bookID)
}

// deleteCartItem DRYs up the delete path shared by DELETE and the
// quantity-0 update.
func (h *Handlers) deleteCartItem(c *gin.Context, cartID, bookID int64) {
	result, err := h.DB.Exec("DELETE FROM cart_items WHERE cart_id = ? AND book_id = ?", cartID, bookID)
	if err != nil {
		dbError(c, "delete cart item", err)
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Item tidak ada di keranjang"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item dihapus dari keranjang"})
}

// ClearCart is the handler for DELETE /v1/cart
func (h *Handlers) ClearCart(c *gin.Context) {
	userID := c.GetInt64("userID")

	if h.DemoMode() {
		h.Demo.ClearCart(userID)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Keranjang dikosongkan"})
		return
	}

	var cartID int64
	err := h.DB.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Keranjang dikosongkan"})
			return
		}
		dbError(c, "find cart", err)
		return
	}

	if _, err := h.DB.Exec("DELETE FROM cart_items WHERE cart_id = ?", cartID); err != nil {
		dbError(c, "clear cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Keranjang dikosongkan"})
}
