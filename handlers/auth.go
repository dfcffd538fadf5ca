package handlers

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"restaurant-api/apperr"
	"restaurant-api/middleware"
	"restaurant-api/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Name     string           `json:"name" binding:"required"`
	Email    string           `json:"email" binding:"required,email"`
	Password string           `json:"password" binding:"required,min=6"`
	Role     models.StaffRole `json:"role" binding:"required,staff_role"`
	Phone    string           `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func staffView(m *models.Staff) gin.H {
	return gin.H{
		"id":    m.ID,
		"name":  m.Name,
		"email": m.Email,
		"role":  m.Role,
	}
}

// Register is public sign-up. It is limited to the self-registration roles,
// except that the very first account may take any role so a fresh install
// can create its manager.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bind(c, &req) {
		return
	}

	if !slices.Contains(h.selfRoles, req.Role) {
		n, err := h.catalog.CountStaff(c.Request.Context())
		if err != nil {
			h.fail(c, err)
			return
		}
		if n > 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only a manager can create " + string(req.Role) + " accounts"})
			return
		}
	}

	staff, ok := h.createStaff(c, req)
	if !ok {
		return
	}
	token, err := h.auth.GenerateToken(staff)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.log.Info("staff registered", "staff_id", staff.ID, "role", staff.Role)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"token":   token,
		"staff":   staffView(staff),
	})
}

// CreateStaff lets a manager add an account of any role
func (h *Handler) CreateStaff(c *gin.Context) {
	var req RegisterRequest
	if !bind(c, &req) {
		return
	}
	staff, ok := h.createStaff(c, req)
	if !ok {
		return
	}
	h.log.Info("staff created", "staff_id", staff.ID, "role", staff.Role, "by", middleware.GetStaffID(c))
	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"staff":   staffView(staff),
	})
}

func (h *Handler) createStaff(c *gin.Context, req RegisterRequest) (*models.Staff, bool) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}

	staff := &models.Staff{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		Role:         req.Role,
		Phone:        req.Phone,
	}
	if err := h.catalog.CreateStaff(c.Request.Context(), staff); err != nil {
		h.fail(c, err)
		return nil, false
	}
	return staff, true
}

// Login authenticates a staff member and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !bind(c, &req) {
		return
	}

	staff, err := h.catalog.StaffByEmail(c.Request.Context(), strings.ToLower(req.Email))
	if errors.Is(err, apperr.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := h.auth.GenerateToken(staff)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"staff":   staffView(staff),
	})
}

// GetProfile returns the authenticated staff member
func (h *Handler) GetProfile(c *gin.Context) {
	staff, err := h.catalog.StaffByID(c.Request.Context(), middleware.GetStaffID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": staff})
}

// ListStaff is the manager's roster, optionally filtered by role
func (h *Handler) ListStaff(c *gin.Context) {
	role := models.StaffRole(c.Query("role"))
	if role != "" && !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be: manager, waiter, chef, or cashier"})
		return
	}
	staff, err := h.catalog.ListStaff(c.Request.Context(), role)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(staff), "staff": staff})
}
