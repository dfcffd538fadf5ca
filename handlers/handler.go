// Package handlers exposes the order core, the supporting catalogs and the
// real-time stream over gin.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"restaurant-api/middleware"
	"restaurant-api/models"
	"restaurant-api/realtime"
	"restaurant-api/service"
	"restaurant-api/store"

	"github.com/gin-gonic/gin"
)

// Catalog is the menu, table and staff storage used by the HTTP layer.
type Catalog interface {
	MenuItem(ctx context.Context, id uint) (*models.MenuItem, error)
	ListMenuItems(ctx context.Context, f store.MenuFilter) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, m *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, m *models.MenuItem) error
	DeleteMenuItem(ctx context.Context, id uint) error

	Table(ctx context.Context, id uint) (*models.Table, error)
	ListTables(ctx context.Context) ([]models.Table, error)
	CreateTable(ctx context.Context, t *models.Table) error
	UpdateTable(ctx context.Context, t *models.Table) error

	CreateStaff(ctx context.Context, m *models.Staff) error
	StaffByEmail(ctx context.Context, email string) (*models.Staff, error)
	StaffByID(ctx context.Context, id uint) (*models.Staff, error)
	ListStaff(ctx context.Context, role models.StaffRole) ([]models.Staff, error)
	CountStaff(ctx context.Context) (int64, error)
}

type Handler struct {
	svc     *service.Service
	catalog Catalog
	hub     *realtime.Hub
	auth    *middleware.Auth
	log     *slog.Logger
	ping    func(context.Context) error
	// roles anyone may sign up as; the rest need a manager
	selfRoles []models.StaffRole
}

func New(svc *service.Service, catalog Catalog, hub *realtime.Hub, auth *middleware.Auth, log *slog.Logger) *Handler {
	return &Handler{
		svc: svc, catalog: catalog, hub: hub, auth: auth, log: log,
		selfRoles: []models.StaffRole{models.RoleWaiter, models.RoleChef},
	}
}

// WithSelfRegistration replaces the roles open to public sign-up.
func (h *Handler) WithSelfRegistration(roles []models.StaffRole) *Handler {
	h.selfRoles = roles
	return h
}

// WithHealthCheck sets the dependency check used by GET /health.
func (h *Handler) WithHealthCheck(ping func(context.Context) error) *Handler {
	h.ping = ping
	return h
}

func (h *Handler) Auth() *middleware.Auth { return h.auth }

// paramID parses a positive numeric path parameter, writing a 400 when it
// is malformed.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// bind decodes the JSON body, writing a 400 on failure.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
