package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/sapasaja/bukuku-api/internal/models"
)

// GetCategories is the handler for GET /v1/categories
func (h *Handlers) GetCategories(c *gin.Context) {
	if h.DemoMode() {
		cats := h.Demo.ListCategories()
		c.JSON(http.StatusOK, gin.H{"success": true, "data": cats})
		return
	}

	rows, err := h.DB.Query("SELECT id, name, slug, description, created_at, updated_at FROM categories ORDER BY name ASC")
	if err != nil {
		dbError(c, "list categories", err)
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Description, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			dbError(c, "scan category", err)
			return
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		dbError(c, "iterate categories", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": categories})
}

// CreateCategory is the handler for POST /v1/admin/categories
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input models.CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if h.DemoMode() {
		cat := h.Demo.CreateCategory(input.Name, input.Description)
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Kategori berhasil ditambahkan", "data": cat})
		return
	}

	catSlug := slug.Make(input.Name)
	query := `INSERT INTO categories (name, slug, description, created_at, updated_at) VALUES (?, ?, ?, NOW(), NOW())`
	res, err := h.DB.Exec(query, input.Name, catSlug, input.Description)
	if err != nil {
		dbError(c, "create category", err)
		return
	}

	id, _ := res.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Kategori berhasil ditambahkan",
		"data": models.Category{
			ID:          id,
			Name:        input.Name,
			Slug:        catSlug,
			Description: input.Description,
		},
	})
}

// UpdateCategory is the handler for PUT /v1/admin/categories/:id. The
// slug is re-derived from the new name.
func (h *Handlers) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Category ID tidak valid"})
		return
	}

	var input models.CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	if h.DemoMode() {
		cat, err := h.Demo.UpdateCategory(id, input.Name, input.Description)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Kategori tidak ditemukan"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Kategori berhasil diupdate", "data": cat})
		return
	}

	query := `UPDATE categories SET name = ?, slug = ?, description = ?, updated_at = NOW() WHERE id = ?`
	result, err := h.DB.Exec(query, input.Name, slug.Make(input.Name), input.Description, id)
	if err != nil {
		dbError(c, "update category", err)
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Kategori tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Kategori berhasil diupdate"})
}

// DeleteCategory is the handler for DELETE /v1/admin/categories/:id
func (h *Handlers) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Category ID tidak valid"})
		return
	}

	if h.DemoMode() {
		if err := h.Demo.DeleteCategory(id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Kategori tidak ditemukan"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Kategori berhasil dihapus"})
		return
	}

	result, err := h.DB.Exec("DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		dbError(c, "delete category", err)
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Kategori tidak ditemukan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Kategori berhasil dihapus"})
}
