package routes

import (
	"restaurant-api/handlers"
	"restaurant-api/middleware"
	"restaurant-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler) {
	handlers.RegisterValidators()
	authRequired := h.Auth().Required()
	roles := func(rs ...models.StaffRole) []gin.HandlerFunc {
		return []gin.HandlerFunc{authRequired, middleware.RoleRequired(rs...)}
	}

	r.GET("/health", h.Health)

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)
		public.GET("/menu", h.ListMenu)
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Any authenticated staff ────────────────────────────────────
	staff := r.Group("/api")
	staff.Use(authRequired)
	{
		staff.GET("/profile", h.GetProfile)
		staff.GET("/tables", h.ListTables)

		staff.GET("/orders", h.ListOrders)
		staff.GET("/orders/:id", h.GetOrder)
		staff.GET("/orders/:id/history", h.OrderHistory)
		staff.GET("/orders/:id/bill", h.GetOrderBill)

		staff.GET("/kitchen/queue", h.KitchenQueue)
		staff.GET("/kitchen/entries/:id", h.GetKitchenEntry)

		staff.GET("/bills/:id", h.GetBill)

		staff.GET("/realtime/stream", h.Stream)
		staff.POST("/realtime/connections/:id/topics/:topic", h.JoinTopic)
		staff.DELETE("/realtime/connections/:id/topics/:topic", h.LeaveTopic)
	}

	// ── Floor: waiters take and manage orders ──────────────────────
	floor := r.Group("/api/orders", roles(models.RoleWaiter, models.RoleManager)...)
	{
		floor.POST("", h.CreateOrder)
		floor.POST("/:id/items", h.AddItems)
		floor.PUT("/:id/confirm", h.ConfirmOrder)
		floor.PUT("/:id/cancel", h.CancelOrder)
		floor.PUT("/:id/complete", h.CompleteOrder)
	}

	// ── Kitchen: chefs cook, waiters mark served ───────────────────
	kitchen := r.Group("/api/kitchen/entries")
	{
		kitchen.PUT("/:id/status", append(roles(models.RoleChef, models.RoleWaiter, models.RoleManager), h.AdvanceKitchenEntry)...)
		kitchen.PATCH("/:id", append(roles(models.RoleChef, models.RoleManager), h.UpdateKitchenEntry)...)
	}

	// ── Billing ────────────────────────────────────────────────────
	billing := r.Group("/api", roles(models.RoleCashier, models.RoleWaiter, models.RoleManager)...)
	{
		billing.POST("/orders/:id/bill", h.DeriveBill)
		billing.PUT("/bills/:id/pay", h.PayBill)
		billing.PUT("/bills/:id/cancel", h.CancelBill)
	}

	// ── Manager routes ─────────────────────────────────────────────
	manager := r.Group("/api/manage", roles(models.RoleManager)...)
	{
		manager.GET("/staff", h.ListStaff)
		manager.POST("/staff", h.CreateStaff)
		manager.POST("/menu", h.CreateMenuItem)
		manager.PUT("/menu/:id", h.UpdateMenuItem)
		manager.DELETE("/menu/:id", h.DeleteMenuItem)
		manager.POST("/tables", h.CreateTable)
		manager.PUT("/tables/:id", h.UpdateTable)
		manager.PUT("/bills/:id/refund", h.RefundBill)
	}
}
