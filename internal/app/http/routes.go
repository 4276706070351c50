package routes

import (
	adminapi "vpn-backend/internal/api/admin"
	authapi "vpn-backend/internal/api/auth"
	"vpn-backend/internal/api/billing"
	devicesapi "vpn-backend/internal/api/devices"
	serversapi "vpn-backend/internal/api/servers"
	stripewebhooks "vpn-backend/internal/api/stripewebhook"
	"vpn-backend/internal/api/users"
	"vpn-backend/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// raw body required for signature verification, no sanitization here
	r.POST("/webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/billing/plans", billing.ListPlans)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(), middleware.SanitizeAndCleanInputMiddleware())
	auth.GET("/me", users.GetCurrentUser)

	auth.GET("/servers", serversapi.ListServers)
	auth.POST("/servers", serversapi.CreateServer)
	auth.GET("/servers/:id", serversapi.GetServer)
	auth.PATCH("/servers/:id", serversapi.UpdateServer)
	auth.DELETE("/servers/:id", serversapi.DeleteServer)

	auth.GET("/devices", devicesapi.ListDevices)
	auth.POST("/devices/:id/revoke", devicesapi.RevokeDevice)

	auth.GET("/billing/summary", billing.GetSummary)
	auth.POST("/billing/cancel", billing.CancelSubscription)
	auth.POST("/billing/resume", billing.ResumeSubscription)
	auth.POST("/billing/renew", billing.RenewSubscription)
	auth.POST("/billing/checkout", billing.CreateCheckoutSession)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/users", adminapi.ListAllUsers)

	admin.GET("/servers", adminapi.ListAllServers)
	admin.POST("/servers/:id/delete", adminapi.SoftDeleteServer)
	admin.POST("/servers/:id/restore", adminapi.RestoreServer)

	admin.GET("/plans", adminapi.ListPlans)
	admin.POST("/plans", adminapi.CreatePlan)
	admin.GET("/plans/:id", adminapi.GetPlan)
	admin.PATCH("/plans/:id", adminapi.UpdatePlan)
	admin.POST("/plans/:id/activate", adminapi.ActivatePlan)
	admin.POST("/plans/:id/deactivate", adminapi.DeactivatePlan)

	admin.GET("/subscriptions/users", adminapi.ListUsersWithSubscriptions)
	admin.POST("/subscriptions/users/:id/grant", adminapi.GrantSubscription)
	admin.POST("/subscriptions/users/:id/extend", adminapi.ExtendSubscription)
	admin.POST("/subscriptions/users/:id/cancel", adminapi.CancelSubscription)
	admin.POST("/subscriptions/users/:id/reactivate", adminapi.ReactivateSubscription)

	admin.GET("/billing/users", adminapi.ListUsersBilling)
}
