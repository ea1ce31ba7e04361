package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sapasaja/bukuku-api/internal/auth"
	"github.com/sapasaja/bukuku-api/internal/demo"
	"github.com/sapasaja/bukuku-api/internal/models"
)

// RegisterInput is the JSON body for POST /v1/auth/register. Separate
// from models.User so clients cannot set id, role or status.
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
}

// Register is the handler for POST /v1/auth/register. New accounts are
// always customers; admins are provisioned via the migration seed.
func (h *Handlers) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to hash password"})
		return
	}

	var phone *string
	if input.Phone != "" {
		phone = &input.Phone
	}

	if h.DemoMode() {
		user, err := h.Demo.RegisterUser(input.Name, input.Email, password.Hash, phone)
		if err != nil {
			if errors.Is(err, demo.ErrEmailTaken) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email sudah terdaftar"})
				return
			}
			dbError(c, "register (demo)", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Registrasi berhasil", "data": user})
		return
	}

	now := time.Now()
	query := `
		INSERT INTO users (email, password_hash, name, role, phone, status, email_verified, created_at, updated_at)
		VALUES (?, ?, ?, 'customer', ?, 'active', 0, ?, ?)`

	result, err := h.DB.Exec(query, input.Email, password.Hash, input.Name, phone, now, now)
	if err != nil {
		// 1062 = duplicate entry on the unique email index
		if strings.Contains(err.Error(), "Duplicate entry") {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email sudah terdaftar"})
			return
		}
		dbError(c, "register", err)
		return
	}

	id, _ := result.LastInsertId()
	user := models.User{
		ID:        id,
		Email:     input.Email,
		Name:      input.Name,
		Role:      "customer",
		Status:    "active",
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Registrasi berhasil", "data": user})
}

// LoginInput is the JSON body for POST /v1/auth/login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates against active accounts and returns the user plus
// a signed JWT.
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email dan password harus diisi"})
		return
	}

	var user models.User
	if h.DemoMode() {
		var err error
		user, err = h.Demo.FindUserByEmail(input.Email)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Email tidak ditemukan atau akun tidak aktif"})
			return
		}
	} else {
		query := `
			SELECT id, email, password_hash, name, role, phone, address, status, email_verified, created_at, updated_at
			FROM users WHERE email = ? AND status = 'active'`

		err := h.DB.QueryRow(query, input.Email).Scan(
			&user.ID, &user.Email, &user.PasswordHash, &user.Name, &user.Role,
			&user.Phone, &user.Address, &user.Status, &user.EmailVerified,
			&user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Email tidak ditemukan atau akun tidak aktif"})
				return
			}
			dbError(c, "login", err)
			return
		}
	}

	password := models.Password{Hash: user.PasswordHash}
	match, err := password.Matches(input.Password)
	if err != nil {
		dbError(c, "login: compare password", err)
		return
	}
	if !match {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Password salah"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		dbError(c, "login: sign token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login berhasil",
		"data": gin.H{
			"user":  user,
			"token": token,
		},
	})
}
