package devices

import (
	"net/http"
	"strconv"
	"time"

	"vpn-backend/database"
	"vpn-backend/internal/api/httperr"
	"vpn-backend/internal/domain/devices"

	"github.com/gin-gonic/gin"
)

type DeviceDTO struct {
	ID         uint       `json:"id"`
	DeviceID   string     `json:"device_id"`
	DeviceName *string    `json:"device_name"`
	LastSeenAt time.Time  `json:"last_seen_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// GET /devices?include_revoked=
func ListDevices(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	includeRevoked := c.DefaultQuery("include_revoked", "false") == "true"

	rows, err := devices.ListOwned(database.DB, userID, includeRevoked)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]DeviceDTO, 0, len(rows))
	for _, d := range rows {
		out = append(out, DeviceDTO{
			ID:         d.ID,
			DeviceID:   d.DeviceID,
			DeviceName: d.DeviceName,
			LastSeenAt: d.LastSeenAt,
			RevokedAt:  d.RevokedAt,
			CreatedAt:  d.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

// POST /devices/:id/revoke
func RevokeDevice(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	if err := devices.RevokeOwned(database.DB, uint(id), userID); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
