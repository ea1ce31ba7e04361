package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sapasaja/bukuku-api/internal/demo"
	"github.com/sapasaja/bukuku-api/internal/models"
)

//
// --- Admin Order Handlers ---
//

// ListOrders is the handler for GET /v1/admin/orders. Supports searching
// by order number or customer name/email, and filtering by status.
func (h *Handlers) ListOrders(c *gin.Context) {
	search := c.Query("search")
	status := c.Query("status")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	if status != "" {
		if _, ok := models.ParseOrderStatus(status); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Status tidak valid"})
			return
		}
	}

	if h.DemoMode() {
		orders := h.Demo.ListOrders(search, status, limit)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": orders, "count": len(orders)})
		return
	}

	query := `
		SELECT o.id, o.order_number, o.user_id, o.total_amount, o.status, o.payment_status,
		       o.shipping_name, o.shipping_phone, o.shipping_address, o.shipping_city,
		       o.shipping_postal_code, o.shipping_cost, o.tracking_number, o.shipping_notes,
		       o.created_at, o.updated_at, u.name, u.email
		FROM orders o
		JOIN users u ON o.user_id = u.id
		WHERE 1=1`
	args := []interface{}{}

	if search != "" {
		query += " AND (o.order_number LIKE ? OR u.name LIKE ? OR u.email LIKE ?)"
		like := "%" + search + "%"
		args = append(args, like, like, like)
	}
	if status != "" {
		query += " AND o.status = ?"
		args = append(args, status)
	}
	query += " ORDER BY o.created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		dbError(c, "list orders", err)
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.UserID, &o.TotalAmount, &o.Status, &o.PaymentStatus,
			&o.ShippingName, &o.ShippingPhone, &o.ShippingAddress, &o.ShippingCity,
			&o.ShippingPostalCode, &o.ShippingCost, &o.TrackingNumber, &o.ShippingNotes,
			&o.CreatedAt, &o.UpdatedAt, &o.CustomerName, &o.CustomerEmail,
		); err != nil {
			dbError(c, "scan admin order", err)
			return
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		dbError(c, "iterate admin orders", err)
		return
	}

	for i := range orders {
		items, err := h.orderItems(orders[i].ID)
		if err != nil {
			dbError(c, "admin order items", err)
			return
		}
		orders[i].Items = items
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders, "count": len(orders)})
}

// UpdateOrderStatusInput is the JSON body for the status endpoint.
type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus is the handler for PATCH /v1/admin/orders/:id/status.
// Only moves allowed by the order state machine are accepted.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Order ID tidak valid"})
		return
	}

	var input UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Status wajib diisi"})
		return
	}

	next, ok := models.ParseOrderStatus(input.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Status tidak valid"})
		return
	}

	if h.DemoMode() {
		if err := h.Demo.UpdateOrderStatus(orderID, next); err != nil {
			switch {
			case errors.Is(err, demo.ErrOrderNotFound):
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Pesanan tidak ditemukan"})
			case errors.Is(err, demo.ErrIllegalTransition):
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Perubahan status tidak diizinkan"})
			default:
				dbError(c, "update order status (demo)", err)
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status pesanan berhasil diperbarui"})
		return
	}

	tx, err := h.DB.BeginTx(c, nil)
	if err != nil {
		dbError(c, "begin status tx", err)
		return
	}
	defer tx.Rollback()

	var current models.OrderStatus
	var orderNumber string
	var ownerID int64
	err = tx.QueryRow("SELECT status, order_number, user_id FROM orders WHERE id = ? FOR UPDATE", orderID).
		Scan(&current, &orderNumber, &ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Pesanan tidak ditemukan"})
			return
		}
		dbError(c, "load order status", err)
		return
	}

	if !current.CanTransitionTo(next) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Perubahan status tidak diizinkan"})
		return
	}

	if _, err := tx.Exec("UPDATE orders SET status = ?, updated_at = NOW() WHERE id = ?", next, orderID); err != nil {
		dbError(c, "update order status", err)
		return
	}

	message := fmt.Sprintf("Status pesanan %s berubah menjadi %s", orderNumber, next)
	link := fmt.Sprintf("/orders/%d", orderID)
	if err := addNotificationTx(tx, ownerID, message, link); err != nil {
		dbError(c, "order status notification", err)
		return
	}

	if err := tx.Commit(); err != nil {
		dbError(c, "commit status update", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status pesanan berhasil diperbarui"})
}

// UpdateTrackingInput carries courier details. Both fields are optional
// and stored exactly as sent.
type UpdateTrackingInput struct {
	TrackingNumber *string `json:"tracking_number"`
	ShippingNotes  *string `json:"shipping_notes"`
}

// UpdateTracking is the handler for PATCH /v1/admin/orders/:id/tracking
func (h *Handlers) UpdateTracking(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Order ID tidak valid"})
		return
	}

	var input UpdateTrackingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Data tidak valid"})
		return
	}

	if h.DemoMode() {
		if err := h.Demo.UpdateTracking(orderID, input.TrackingNumber, input.ShippingNotes); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Pesanan tidak ditemukan"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Informasi pengiriman berhasil diperbarui"})
		return
	}

	result, err := h.DB.Exec(
		"UPDATE orders SET tracking_number = ?, shipping_notes = ?, updated_at = NOW() WHERE id = ?",
		input.TrackingNumber, input.ShippingNotes, orderID)
	if err != nil {
		dbError(c, "update tracking", err)
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		var exists int64
		if err := h.DB.QueryRow("SELECT id FROM orders WHERE id = ?", orderID).Scan(&exists); err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Pesanan tidak ditemukan"})
				return
			}
			dbError(c, "recheck order", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Informasi pengiriman berhasil diperbarui"})
}

// UpdatePaymentStatusInput is the JSON body for the payment endpoint.
type UpdatePaymentStatusInput struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// UpdatePaymentStatus is the handler for PATCH /v1/admin/orders/:id/payment-status.
// The payment axis has no transition rules; any known value is accepted.
func (h *Handlers) UpdatePaymentStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Order ID tidak valid"})
		return
	}

	var input UpdatePaymentStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Payment status wajib diisi"})
		return
	}

	next, ok := models.ParsePaymentStatus(input.PaymentStatus)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Payment status tidak valid"})
		return
	}

	if h.DemoMode() {
		if err := h.Demo.UpdatePaymentStatus(orderID, next); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Pesanan tidak ditemukan"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status pembayaran berhasil diperbarui"})
		return
	}

	result, err := h.DB.Exec(
		"UPDATE orders SET payment_status = ?, updated_at = NOW() WHERE id = ?", next, orderID)
	if err != nil {
		dbError(c, "update payment status", err)
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		var exists int64
		if err := h.DB.QueryRow("SELECT id FROM orders WHERE id = ?", orderID).Scan(&exists); err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Pesanan tidak ditemukan"})
				return
			}
			dbError(c, "recheck order", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Status pembayaran berhasil diperbarui"})
}
