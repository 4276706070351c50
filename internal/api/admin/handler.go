package admin

import (
	"net/http"
	"time"

	"vpn-backend/database"
	"vpn-backend/internal/domain/users"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID           uint       `json:"id"`
	Email        string     `json:"email"`
	Role         users.Role `json:"role"`
	AuthProvider string     `json:"auth_provider"`
	CreatedAt    time.Time  `json:"created_at"`
}

// GET /admin/users
func ListAllUsers(c *gin.Context) {
	var rows []users.User
	if err := database.DB.Order("id ASC").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	out := make([]AdminUser, 0, len(rows))
	for _, u := range rows {
		out = append(out, AdminUser{
			ID:           u.ID,
			Email:        u.Email,
			Role:         u.Role,
			AuthProvider: u.AuthProvider,
			CreatedAt:    u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}
