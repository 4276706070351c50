package admin

import (
	"net/http"

	"vpn-backend/database"
	"vpn-backend/internal/api/httperr"
	"vpn-backend/internal/domain/billing"
	"vpn-backend/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminBillingUser struct {
	ID      uint             `json:"id"`
	Email   string           `json:"email"`
	Role    users.Role       `json:"role"`
	Billing *billing.Summary `json:"billing"`
}

// GET /admin/billing/users — per-user billing summaries for the admin UI.
func ListUsersBilling(c *gin.Context) {
	var rows []users.User
	if err := database.DB.Order("id ASC").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	out := make([]AdminBillingUser, 0, len(rows))
	for _, u := range rows {
		summary, err := billing.Summarize(database.DB, u.ID)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		out = append(out, AdminBillingUser{
			ID:      u.ID,
			Email:   u.Email,
			Role:    u.Role,
			Billing: summary,
		})
	}
	c.JSON(http.StatusOK, out)
}
