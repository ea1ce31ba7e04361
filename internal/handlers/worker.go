package handlers

import (
	"fmt"
	"log"
	"time"
)

// overdueAfter is how long an unpaid pending order may sit before the
// background worker cancels it.
const overdueAfter = 24 * time.Hour

// ProcessOverdueOrders cancels pending orders whose payment never arrived
// within the deadline and restocks their items. It runs from the ticker
// in main, so failures are logged instead of surfaced.
func (h *Handlers) ProcessOverdueOrders() {
	cutoff := time.Now().Add(-overdueAfter)

	if h.DemoMode() {
		if n := h.Demo.CancelOverdueOrders(cutoff); n > 0 {
			log.Printf("worker: cancelled %d overdue orders", n)
		}
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, order_number, user_id
		FROM orders
		WHERE status = 'pending' AND payment_status = 'pending' AND created_at < ?`, cutoff)
	if err != nil {
		log.Printf("worker: query overdue orders: %v", err)
		return
	}
	defer rows.Close()

	type overdue struct {
		id          int64
		orderNumber string
		userID      int64
	}
	var candidates []overdue
	for rows.Next() {
		var o overdue
		if err := rows.Scan(&o.id, &o.orderNumber, &o.userID); err != nil {
			log.Printf("worker: scan overdue order: %v", err)
			return
		}
		candidates = append(candidates, o)
	}
	if err := rows.Err(); err != nil {
		log.Printf("worker: iterate overdue orders: %v", err)
		return
	}

	for _, o := range candidates {
		if err := h.cancelOverdueOrder(o.id, o.orderNumber, o.userID); err != nil {
			log.Printf("worker: cancel order %s: %v", o.orderNumber, err)
		}
	}
	if len(candidates) > 0 {
		log.Printf("worker: processed %d overdue orders", len(candidates))
	}
}

// cancelOverdueOrder cancels one order and restores its stock in a single
// transaction. The status condition is rechecked so an order paid or
// shipped between the scan and here is left alone.
func (h *Handlers) cancelOverdueOrder(orderID int64, orderNumber string, userID int64) error {
	tx, err := h.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE orders
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = ? AND status = 'pending' AND payment_status = 'pending'`, orderID)
	if err != nil {
		return err
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil
	}

	_, err = tx.Exec(`
		UPDATE books b
		JOIN order_items oi ON oi.book_id = b.id
		SET b.stock = b.stock + oi.quantity
		WHERE oi.order_id = ?`, orderID)
	if err != nil {
		return err
	}

	message := fmt.Sprintf("Pesanan %s dibatalkan karena pembayaran tidak diterima", orderNumber)
	link := fmt.Sprintf("/orders/%d", orderID)
	if err := addNotificationTx(tx, userID, message, link); err != nil {
		return err
	}

	return tx.Commit()
}
