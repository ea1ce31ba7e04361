package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sapasaja/bukuku-api/internal/demo"
)

// Handlers holds the dependencies every handler needs. Exactly one of
// DB or Demo is set: DB for the MySQL backend, Demo for the in-memory
// demo-mode store.
type Handlers struct {
	DB   *sql.DB
	Demo *demo.Store
}

// DemoMode reports whether the server is running from the in-memory
// store.
func (h *Handlers) DemoMode() bool {
	return h.Demo != nil
}

// dbError logs the driver error server-side and returns a generic 500.
// Raw database errors never reach the client.
func dbError(c *gin.Context, op string, err error) {
	log.Printf("ERROR %s: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "Terjadi kesalahan pada server",
	})
}
