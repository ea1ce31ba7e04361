package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sapasaja/bukuku-api/internal/models"
)

//
// --- Admin User Handlers ---
//

// ListUsers is the handler for GET /v1/admin/users
func (h *Handlers) ListUsers(c *gin.Context) {
	search := c.Query("search")
	role := c.Query("role")
	status := c.Query("status")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	if h.DemoMode() {
		users := h.Demo.ListUsers(search, role, status, limit)
		c.JSON(http.StatusOK, gin.H{"success": true, "data": users, "count": len(users)})
		return
	}

	query := `
		SELECT id, name, email, phone, address, role, status, created_at, updated_at
		FROM users
		WHERE 1=1`
	args := []interface{}{}

	if search != "" {
		query += " AND (name LIKE ? OR email LIKE ?)"
		like := "%" + search + "%"
		args = append(args, like, like)
	}
	if role != "" {
		query += " AND role = ?"
		args = append(args, role)
	}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		dbError(c, "list users", err)
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Address,
			&u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			dbError(c, "scan user", err)
			return
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		dbError(c, "iterate users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": users, "count": len(users)})
}

// UpdateUserInput is the JSON body for the admin user update endpoint.
type UpdateUserInput struct {
	Name    string  `json:"name" binding:"required"`
	Role    string  `json:"role" binding:"required,oneof=admin customer"`
	Status  string  `json:"status" binding:"required,oneof=active inactive"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UpdateUser is the handler for PUT /v1/admin/users/:id
func (h *Handlers) UpdateUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "User ID tidak valid"})
		return
	}

	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Data tidak valid: " + err.Error()})
		return
	}

	if h.DemoMode() {
		user, err := h.Demo.UpdateUser(userID, input.Name, input.Role, input.Status, input.Phone, input.Address)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User tidak ditemukan"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User berhasil diperbarui", "data": user})
		return
	}

	query := `
		UPDATE users
		SET name = ?, role = ?, status = ?, phone = ?, address = ?, updated_at = NOW()
		WHERE id = ?`

	result, err := h.DB.Exec(query, input.Name, input.Role, input.Status, input.Phone, input.Address, userID)
	if err != nil {
		dbError(c, "update user", err)
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		var exists int64
		if err := h.DB.QueryRow("SELECT id FROM users WHERE id = ?", userID).Scan(&exists); err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User tidak ditemukan"})
				return
			}
			dbError(c, "recheck user", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User berhasil diperbarui"})
}

// DeleteUser is the handler for DELETE /v1/admin/users/:id. Admins cannot
// delete their own account.
func (h *Handlers) DeleteUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "User ID tidak valid"})
		return
	}

	if userID == c.GetInt64("userID") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Tidak dapat menghapus akun sendiri"})
		return
	}

	if h.DemoMode() {
		if err := h.Demo.DeleteUser(userID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User tidak ditemukan"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "User berhasil dihapus"})
		return
	}

	result, err := h.DB.Exec("DELETE FROM users WHERE id = ?", userID)
	if err != nil {
		// Users with orders keep their rows for history.
		if strings.Contains(err.Error(), "foreign key constraint") {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "User memiliki riwayat pesanan dan tidak dapat dihapus"})
			return
		}
		dbError(c, "delete user", err)
		return
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "User tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User berhasil dihapus"})
}
