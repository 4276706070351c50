package admin

import (
	"errors"
	"net/http"
	"time"

	"vpn-backend/database"
	"vpn-backend/internal/api/httperr"
	"vpn-backend/internal/domain/plans"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminPlan struct {
	ID         uint      `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	PriceCents int       `json:"price_cents"`
	Currency   string    `json:"currency"`
	MaxServers int       `json:"max_servers"`
	MaxDevices int       `json:"max_devices"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func toAdminPlan(p *plans.Plan) AdminPlan {
	return AdminPlan{
		ID:         p.ID,
		Code:       p.Code,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Currency:   p.Currency,
		MaxServers: p.MaxServers,
		MaxDevices: p.MaxDevices,
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
	}
}

// GET /admin/plans
func ListPlans(c *gin.Context) {
	rows, err := plans.ListAll(database.DB)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	out := make([]AdminPlan, 0, len(rows))
	for i := range rows {
		out = append(out, toAdminPlan(&rows[i]))
	}
	c.JSON(http.StatusOK, out)
}

// POST /admin/plans
func CreatePlan(c *gin.Context) {
	var req struct {
		Code       string `json:"code" binding:"required"`
		Name       string `json:"name" binding:"required"`
		PriceCents int    `json:"price_cents"`
		Currency   string `json:"currency"`
		MaxServers int    `json:"max_servers"`
		MaxDevices int    `json:"max_devices"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan := plans.Plan{
		Code:       req.Code,
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Currency:   req.Currency,
		MaxServers: req.MaxServers,
		MaxDevices: req.MaxDevices,
		IsActive:   true,
	}
	if plan.Currency == "" {
		plan.Currency = "USD"
	}

	if err := plans.Create(database.DB, &plan); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httperr.Conflict(c, "Plan code already exists")
			return
		}
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAdminPlan(&plan))
}

// GET /admin/plans/:id
func GetPlan(c *gin.Context) {
	planID, ok := pathID(c)
	if !ok {
		return
	}

	plan, err := plans.GetByID(database.DB, planID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdminPlan(plan))
}

// PATCH /admin/plans/:id
func UpdatePlan(c *gin.Context) {
	planID, ok := pathID(c)
	if !ok {
		return
	}

	var req plans.UpdateParams
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := plans.GetByID(database.DB, planID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := plans.Update(database.DB, plan, req); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httperr.Conflict(c, "Plan code already exists")
			return
		}
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdminPlan(plan))
}

// POST /admin/plans/:id/activate
func ActivatePlan(c *gin.Context) {
	planID, ok := pathID(c)
	if !ok {
		return
	}

	plan, err := plans.GetByID(database.DB, planID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := plans.Activate(database.DB, plan); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdminPlan(plan))
}

// POST /admin/plans/:id/deactivate
func DeactivatePlan(c *gin.Context) {
	planID, ok := pathID(c)
	if !ok {
		return
	}

	plan, err := plans.GetByID(database.DB, planID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := plans.Deactivate(database.DB, plan); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdminPlan(plan))
}
