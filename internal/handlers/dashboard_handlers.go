package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sapasaja/bukuku-api/internal/models"
)

// GetDashboardStats is the handler for GET /v1/admin/dashboard-stats.
// Revenue and top lists count shipped and delivered orders only, so
// cancelled or still-pending orders never inflate the numbers.
func (h *Handlers) GetDashboardStats(c *gin.Context) {
	if h.DemoMode() {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": h.Demo.Stats()})
		return
	}

	var stats models.DashboardStats

	if err := h.DB.QueryRow("SELECT COUNT(*) FROM books WHERE status = 'active'").Scan(&stats.TotalBooks); err != nil {
		dbError(c, "count books", err)
		return
	}
	if err := h.DB.QueryRow("SELECT COUNT(*) FROM users WHERE role = 'customer'").Scan(&stats.TotalUsers); err != nil {
		dbError(c, "count users", err)
		return
	}
	if err := h.DB.QueryRow("SELECT COUNT(*) FROM orders").Scan(&stats.TotalOrders); err != nil {
		dbError(c, "count orders", err)
		return
	}
	err := h.DB.QueryRow(
		"SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status IN ('shipped', 'delivered')").
		Scan(&stats.TotalRevenue)
	if err != nil {
		dbError(c, "sum revenue", err)
		return
	}

	topBooksQuery := `
		SELECT oi.book_title, COALESCE(b.author, ''), SUM(oi.quantity), SUM(oi.line_total)
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		LEFT JOIN books b ON oi.book_id = b.id
		WHERE o.status IN ('shipped', 'delivered')
		GROUP BY oi.book_title, b.author
		ORDER BY SUM(oi.quantity) DESC
		LIMIT 5`

	rows, err := h.DB.Query(topBooksQuery)
	if err != nil {
		dbError(c, "top books", err)
		return
	}
	defer rows.Close()

	stats.TopBooks = []models.TopBook{}
	for rows.Next() {
		var tb models.TopBook
		if err := rows.Scan(&tb.Title, &tb.Author, &tb.Sales, &tb.Revenue); err != nil {
			dbError(c, "scan top book", err)
			return
		}
		stats.TopBooks = append(stats.TopBooks, tb)
	}
	if err := rows.Err(); err != nil {
		dbError(c, "iterate top books", err)
		return
	}

	topCategoriesQuery := `
		SELECT c.name, SUM(oi.quantity), SUM(oi.line_total)
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		JOIN books b ON oi.book_id = b.id
		JOIN categories c ON b.category_id = c.id
		WHERE o.status IN ('shipped', 'delivered')
		GROUP BY c.id, c.name
		ORDER BY SUM(oi.line_total) DESC
		LIMIT 5`

	catRows, err := h.DB.Query(topCategoriesQuery)
	if err != nil {
		dbError(c, "top categories", err)
		return
	}
	defer catRows.Close()

	stats.TopCategories = []models.TopCategory{}
	for catRows.Next() {
		var tc models.TopCategory
		if err := catRows.Scan(&tc.Name, &tc.Sales, &tc.Revenue); err != nil {
			dbError(c, "scan top category", err)
			return
		}
		stats.TopCategories = append(stats.TopCategories, tc)
	}
	if err := catRows.Err(); err != nil {
		dbError(c, "iterate top categories", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
