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
// --- Checkout & Customer Order Handlers ---
//

// checkoutLine is a helper struct for cart rows fetched during checkout.
type checkoutLine struct {
	BookID     int64
	Title      string
	Quantity   int
	PriceAtAdd float64
	Stock      int
	Status     string
}

// CheckoutInput is the JSON body for POST /v1/checkout
type CheckoutInput struct {
	Shipping      models.ShippingInfo `json:"shipping" binding:"required"`
	PaymentMethod string              `json:"payment_method"`
}

// Checkout is the handler for POST /v1/checkout. The whole order is one
// transaction: lock the cart lines and book rows, re-check stock, insert
// the order and its items, decrement stock, clear the cart. On any
// failure the transaction rolls back and the cart is left intact.
func (h *Handlers) Checkout(c *gin.Context) {
	userID := c.GetInt64("userID")

	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Data pengiriman tidak lengkap: " + err.Error()})
		return
	}

	if h.DemoMode() {
		order, err := h.Demo.Checkout(userID, input.Shipping)
		if err != nil {
			switch {
			case errors.Is(err, demo.ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Keranjang kosong"})
			case errors.Is(err, demo.ErrBookUnavailable):
				c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Buku dalam keranjang sudah tidak tersedia"})
			case errors.Is(err, demo.ErrInsufficientStock):
				c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Stok tidak mencukupi"})
			default:
				dbError(c, "checkout (demo)", err)
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Pesanan berhasil dibuat", "data": order})
		return
	}

	tx, err := h.DB.BeginTx(c, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		dbError(c, "begin checkout tx", err)
		return
	}
	defer tx.Rollback()

	var cartID int64
	err = tx.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Keranjang kosong"})
			return
		}
		dbError(c, "find cart", err)
		return
	}

	// Lock the book rows backing this cart for the whole transaction.
	// Inactive books stay in the result so the order is rejected instead
	// of silently shrinking.
	query := `
		SELECT ci.book_id, b.title, ci.quantity, ci.price_at_add, b.stock, b.status
		FROM cart_items ci
		JOIN books b ON ci.book_id = b.id
		WHERE ci.cart_id = ?
		FOR UPDATE`

	rows, err := tx.Query(query, cartID)
	if err != nil {
		dbError(c, "lock cart lines", err)
		return
	}
	defer rows.Close()

	var lines []checkoutLine
	var subtotal float64

	for rows.Next() {
		var line checkoutLine
		if err := rows.Scan(&line.BookID, &line.Title, &line.Quantity, &line.PriceAtAdd, &line.Stock, &line.Status); err != nil {
			dbError(c, "scan checkout line", err)
			return
		}
		if line.Status != "active" {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Buku " + line.Title + " sudah tidak tersedia"})
			return
		}
		if line.Stock < line.Quantity {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Stok tidak mencukupi untuk " + line.Title})
			return
		}
		subtotal += line.PriceAtAdd * float64(line.Quantity)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		dbError(c, "iterate checkout lines", err)
		return
	}
	if len(lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Keranjang kosong"})
		return
	}

	now := time.Now()
	shippingCost := pricing.ShippingCost(subtotal)
	orderNumber := models.NewOrderNumber(now)

	var notes *string
	if input.Shipping.Notes != "" {
		notes = &input.Shipping.Notes
	}

	orderQuery := `
		INSERT INTO orders (order_number, user_id, total_amount, status, payment_status,
		                    shipping_name, shipping_phone, shipping_address, shipping_city,
		                    shipping_postal_code, shipping_cost, shipping_notes, created_at, updated_at)
		VALUES (?, ?, ?, 'pending', 'pending', ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := tx.Exec(orderQuery,
		orderNumber, userID, pricing.FinalTotal(subtotal),
		input.Shipping.Name, input.Shipping.Phone, input.Shipping.Address,
		input.Shipping.City, input.Shipping.PostalCode, shippingCost, notes, now, now)
	if err != nil {
		dbError(c, "insert order", err)
		return
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		dbError(c, "order id", err)
		return
	}

	itemQuery := `
		INSERT INTO order_items (order_id, book_id, book_title, quantity, unit_price, line_total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	stockQuery := "UPDATE books SET stock = stock - ? WHERE id = ?"

	for _, line := range lines {
		lineTotal := line.PriceAtAdd * float64(line.Quantity)
		if _, err := tx.Exec(itemQuery, orderID, line.BookID, line.Title, line.Quantity, line.PriceAtAdd, lineTotal, now); err != nil {
			dbError(c, "insert order item", err)
			return
		}
		if _, err := tx.Exec(stockQuery, line.Quantity, line.BookID); err != nil {
			dbError(c, "decrement stock", err)
			return
		}
	}

	if _, err := tx.Exec("DELETE FROM cart_items WHERE cart_id = ?", cartID); err != nil {
		dbError(c, "clear cart", err)
		return
	}

	if err := tx.Commit(); err != nil {
		dbError(c, "commit checkout", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Pesanan berhasil dibuat",
		"data": gin.H{
			"id":            orderID,
			"order_number":  orderNumber,
			"total_amount":  pricing.FinalTotal(subtotal),
			"shipping_cost": shippingCost,
			"status":        models.OrderPending,
		},
	})
}

// GetMyOrders is the handler for GET /v1/orders: the customer's order
// history, newest first, optionally filtered by status.
func (h *Handlers) GetMyOrders(c *gin.Context) {
	userID := c.GetInt64("userID")
	status := c.Query("status")

	if status != "" {
		if _, ok := models.ParseOrderStatus(status); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Status tidak valid"})
			return
		}
	}

	if h.DemoMode() {
		orders := h.Demo.ListOrdersByUser(userID, status)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": orders, "count": len(orders)})
		return
	}

	query := `
		SELECT id, order_number, user_id, total_amount, status, payment_status,
		       shipping_name, shipping_phone, shipping_address, shipping_city,
		       shipping_postal_code, shipping_cost, tracking_number, shipping_notes,
		       created_at, updated_at
		FROM orders
		WHERE user_id = ?`
	args := []interface{}{userID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		dbError(c, "list my orders", err)
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := scanOrder(rows, &o); err != nil {
			dbError(c, "scan order", err)
			return
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		dbError(c, "iterate orders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders, "count": len(orders)})
}

// GetOrderDetails is the handler for GET /v1/orders/:id. Ownership is
// part of the lookup, so another user's order reads as not found.
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	userID := c.GetInt64("userID")
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Order ID tidak valid"})
		return
	}

	if h.DemoMode() {
		order, err := h.Demo.GetOrder(orderID, userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Pesanan tidak ditemukan"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
		return
	}

	query := `
		SELECT id, order_number, user_id, total_amount, status, payment_status,
		       shipping_name, shipping_phone, shipping_address, shipping_city,
		       shipping_postal_code, shipping_cost, tracking_number, shipping_notes,
		       created_at, updated_at
		FROM orders
		WHERE id = ? AND user_id = ?`

	var o models.Order
	row := h.DB.QueryRow(query, orderID, userID)
	if err := scanOrder(row, &o); err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Pesanan tidak ditemukan"})
			return
		}
		dbError(c, "get order", err)
		return
	}

	items, err := h.orderItems(o.ID)
	if err != nil {
		dbError(c, "order items", err)
		return
	}
	o.Items = items

	c.JSON(http.StatusOK, gin.H{"success": true, "data": o})
}

// orderItems loads the item rows for one order.
func (h *Handlers) orderItems(orderID int64) ([]models.OrderItem, error) {
	query := `
		SELECT id, order_id, book_id, book_title, quantity, unit_price, line_total, created_at
		FROM order_items
		WHERE order_id = ?`

	rows, err := h.DB.Query(query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.BookID, &item.BookTitle,
			&item.Quantity, &item.UnitPrice, &item.LineTotal, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// scanner abstracts *sql.Row / *sql.Rows for the shared order scan.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(s scanner, o *models.Order) error {
	return s.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.TotalAmount, &o.Status, &o.PaymentStatus,
		&o.ShippingName, &o.ShippingPhone, &o.ShippingAddress, &o.ShippingCity,
		&o.ShippingPostalCode, &o.ShippingCost, &o.TrackingNumber, &o.ShippingNotes,
		&o.CreatedAt, &o.UpdatedAt,
	)
}
