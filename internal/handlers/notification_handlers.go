package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sapasaja/bukuku-api/internal/models"
)

// addNotificationTx inserts a notification inside an existing transaction
// so it commits or rolls back together with the change it announces.
func addNotificationTx(tx *sql.Tx, userID int64, message, link string) error {
	query := `
		INSERT INTO notifications (user_id, message, link, is_read, created_at)
		VALUES (?, ?, ?, false, NOW())`
	_, err := tx.Exec(query, userID, message, link)
	return err
}

// GetMyNotifications is the handler for GET /v1/notifications
func (h *Handlers) GetMyNotifications(c *gin.Context) {
	userID := c.GetInt64("userID")

	if h.DemoMode() {
		notifications := h.Demo.ListNotifications(userID)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": notifications, "count": len(notifications)})
		return
	}

	query := `
		SELECT id, user_id, message, link, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC`

	rows, err := h.DB.Query(query, userID)
	if err != nil {
		dbError(c, "list notifications", err)
		return
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Link, &n.IsRead, &n.CreatedAt); err != nil {
			dbError(c, "scan notification", err)
			return
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		dbError(c, "iterate notifications", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": notifications, "count": len(notifications)})
}

// MarkNotificationAsRead is the handler for PATCH /v1/notifications/:id/read.
// Scoped to the caller, so another user's notification reads as not found.
func (h *Handlers) MarkNotificationAsRead(c *gin.Context) {
	userID := c.GetInt64("userID")
	notificationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Notification ID tidak valid"})
		return
	}

	if h.DemoMode() {
		if err := h.Demo.MarkNotificationRead(notificationID, userID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Notifikasi tidak ditemukan"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notifikasi ditandai sudah dibaca"})
		return
	}

	result, err := h.DB.Exec(
		"UPDATE notifications SET is_read = true WHERE id = ? AND user_id = ?",
		notificationID, userID)
	if err != nil {
		dbError(c, "mark notification read", err)
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		var exists int64
		err := h.DB.QueryRow(
			"SELECT id FROM notifications WHERE id = ? AND user_id = ?",
			notificationID, userID).Scan(&exists)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Notifikasi tidak ditemukan"})
				return
			}
			dbError(c, "recheck notification", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notifikasi ditandai sudah dibaca"})
}
