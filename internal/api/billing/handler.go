package billing

import (
	"net/http"

	"vpn-backend/database"
	"vpn-backend/internal/api/httperr"
	"vpn-backend/internal/domain/billing"
	"vpn-backend/internal/domain/plans"
	"vpn-backend/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
)

type PlanDTO struct {
	ID         uint   `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	PriceCents int    `json:"price_cents"`
	Currency   string `json:"currency"`
	MaxServers int    `json:"max_servers"`
	MaxDevices int    `json:"max_devices"`
}

// GET /billing/plans — public catalog, active plans only.
func ListPlans(c *gin.Context) {
	rows, err := plans.ListActive(database.DB)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]PlanDTO, 0, len(rows))
	for _, p := range rows {
		out = append(out, PlanDTO{
			ID:         p.ID,
			Code:       p.Code,
			Name:       p.Name,
			PriceCents: p.PriceCents,
			Currency:   p.Currency,
			MaxServers: p.MaxServers,
			MaxDevices: p.MaxDevices,
		})
	}
	c.JSON(http.StatusOK, out)
}

func respondSummary(c *gin.Context, userID uint) {
	summary, err := billing.Summarize(database.DB, userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GET /billing/summary
func GetSummary(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	respondSummary(c, userID)
}

// POST /billing/cancel
func CancelSubscription(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if _, err := subscriptions.Cancel(database.DB, userID, false); err != nil {
		httperr.Respond(c, err)
		return
	}
	respondSummary(c, userID)
}

// POST /billing/resume
func ResumeSubscription(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if _, err := subscriptions.Resume(database.DB, userID); err != nil {
		httperr.Respond(c, err)
		return
	}
	respondSummary(c, userID)
}

// POST /billing/renew
func RenewSubscription(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		PlanCode string `json:"plan_code" binding:"required"`
		Days     int    `json:"days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := subscriptions.Renew(database.DB, userID, req.PlanCode, req.Days); err != nil {
		httperr.Respond(c, err)
		return
	}
	respondSummary(c, userID)
}
