package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"vpn-backend/database"
	"vpn-backend/internal/api/httperr"
	"vpn-backend/internal/domain/servers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminServer struct {
	ID         uint       `json:"id"`
	OwnerID    uint       `json:"owner_id"`
	Name       string     `json:"name"`
	Host       string     `json:"host"`
	Port       int        `json:"port"`
	Country    *string    `json:"country"`
	IsActive   bool       `json:"is_active"`
	Notes      *string    `json:"notes"`
	DeletedAt  *time.Time `json:"deleted_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	CreatedBy  *uint      `json:"created_by"`
	UpdatedBy  *uint      `json:"updated_by"`
	DeletedBy  *uint      `json:"deleted_by"`
	RestoredBy *uint      `json:"restored_by"`
}

func toAdminServer(s *servers.Server) AdminServer {
	return AdminServer{
		ID:         s.ID,
		OwnerID:    s.OwnerID,
		Name:       s.Name,
		Host:       s.Host,
		Port:       s.Port,
		Country:    s.Country,
		IsActive:   s.IsActive,
		Notes:      s.Notes,
		DeletedAt:  s.DeletedAt,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
		CreatedBy:  s.CreatedBy,
		UpdatedBy:  s.UpdatedBy,
		DeletedBy:  s.DeletedBy,
		RestoredBy: s.RestoredBy,
	}
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// GET /admin/servers — every row, soft-deleted included.
func ListAllServers(c *gin.Context) {
	rows, err := servers.ListAllAdmin(database.DB)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]AdminServer, 0, len(rows))
	for i := range rows {
		out = append(out, toAdminServer(&rows[i]))
	}
	c.JSON(http.StatusOK, out)
}

// POST /admin/servers/:id/delete — idempotent soft delete of any server.
func SoftDeleteServer(c *gin.Context) {
	serverID, ok := pathID(c)
	if !ok {
		return
	}
	actorID := c.GetUint("user_id")

	srv, err := servers.AdminSoftDelete(database.DB, serverID, actorID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdminServer(srv))
}

// POST /admin/servers/:id/restore — undo a soft delete; collides with a
// live duplicate endpoint.
func RestoreServer(c *gin.Context) {
	serverID, ok := pathID(c)
	if !ok {
		return
	}
	actorID := c.GetUint("user_id")

	srv, err := servers.AdminRestore(database.DB, serverID, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httperr.Conflict(c, "Cannot restore: active server with same host+port already exists")
			return
		}
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdminServer(srv))
}
