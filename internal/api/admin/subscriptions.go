package admin

import (
	"errors"
	"io"
	"net/http"
	"time"

	"vpn-backend/database"
	"vpn-backend/internal/api/httperr"
	"vpn-backend/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
)

type AdminSubscription struct {
	UserID    uint                 `json:"user_id"`
	Status    subscriptions.Status `json:"status"`
	PlanCode  *string              `json:"plan_code"`
	PlanName  *string              `json:"plan_name"`
	ExpiresAt *time.Time           `json:"expires_at"`
}

func toAdminSubscription(sub *subscriptions.Subscription) AdminSubscription {
	out := AdminSubscription{
		UserID:    sub.UserID,
		Status:    sub.Status,
		ExpiresAt: sub.ExpiresAt,
	}
	if sub.Plan != nil {
		out.PlanCode = &sub.Plan.Code
		out.PlanName = &sub.Plan.Name
	}
	return out
}

// GET /admin/subscriptions/users
func ListUsersWithSubscriptions(c *gin.Context) {
	var subs []subscriptions.Subscription
	if err := database.DB.Preload("Plan").Order("user_id ASC").Find(&subs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriptions"})
		return
	}

	out := make([]AdminSubscription, 0, len(subs))
	for i := range subs {
		out = append(out, toAdminSubscription(&subs[i]))
	}
	c.JSON(http.StatusOK, out)
}

// POST /admin/subscriptions/users/:id/grant
func GrantSubscription(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		PlanCode  string     `json:"plan_code" binding:"required"`
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := subscriptions.Grant(database.DB, userID, req.PlanCode, req.ExpiresAt)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdminSubscription(sub))
}

// POST /admin/subscriptions/users/:id/extend
func ExtendSubscription(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Days int `json:"days" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := subscriptions.Extend(database.DB, userID, req.Days)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdminSubscription(sub))
}

// POST /admin/subscriptions/users/:id/cancel
func CancelSubscription(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}

	var req struct {
		Immediately *bool `json:"immediately"`
	}
	// body is optional; cancel is immediate unless told otherwise
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	immediately := true
	if req.Immediately != nil {
		immediately = *req.Immediately
	}

	sub, err := subscriptions.AdminCancel(database.DB, userID, immediately)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdminSubscription(sub))
}

// POST /admin/subscriptions/users/:id/reactivate
func ReactivateSubscription(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}

	sub, err := subscriptions.Reactivate(database.DB, userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdminSubscription(sub))
}
