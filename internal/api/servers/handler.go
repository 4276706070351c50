package servers

import (
	"errors"
	"net/http"
	"strconv"

	"vpn-backend/database"
	"vpn-backend/internal/api/httperr"
	"vpn-backend/internal/domain/servers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

// GET /servers
func ListServers(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	rows, err := servers.ListOwnedLive(database.DB, userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]ServerDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toServerDTO(&rows[i]))
	}
	c.JSON(http.StatusOK, out)
}

// POST /servers
func CreateServer(c *gin.Context) {
	var req struct {
		Name     string  `json:"name" binding:"required"`
		Host     string  `json:"host" binding:"required"`
		Port     int     `json:"port"`
		Country  *string `json:"country"`
		IsActive *bool   `json:"is_active"`
		Notes    *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	srv := servers.Server{
		Name:     req.Name,
		Host:     req.Host,
		Port:     51820,
		Country:  req.Country,
		IsActive: true,
		Notes:    req.Notes,
	}
	if req.Port != 0 {
		srv.Port = req.Port
	}
	if req.IsActive != nil {
		srv.IsActive = *req.IsActive
	}

	if err := servers.CreateOwned(database.DB, &srv, userID, userID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httperr.Conflict(c, "Server endpoint already exists (host+port)")
			return
		}
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, toServerDTO(&srv))
}

// GET /servers/:id
func GetServer(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	serverID, ok := pathID(c)
	if !ok {
		return
	}

	srv, err := servers.GetOwnedLive(database.DB, serverID, userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toServerDTO(srv))
}

// PATCH /servers/:id
func UpdateServer(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	serverID, ok := pathID(c)
	if !ok {
		return
	}

	var req servers.UpdateParams
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	srv, err := servers.GetOwnedLive(database.DB, serverID, userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := servers.UpdateOwned(database.DB, srv, req, userID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httperr.Conflict(c, "Server endpoint already exists (host+port)")
			return
		}
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, toServerDTO(srv))
}

// DELETE /servers/:id
func DeleteServer(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	serverID, ok := pathID(c)
	if !ok {
		return
	}

	srv, err := servers.GetOwnedLive(database.DB, serverID, userID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := servers.SoftDeleteOwned(database.DB, srv, userID); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
