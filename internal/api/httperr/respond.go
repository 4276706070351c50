// Package httperr translates domain errors into HTTP responses exactly
// once, at the boundary. Every response carries a machine-readable code,
// and quota/plan errors add structured meta for client UX.
package httperr

import (
	"errors"
	"net/http"

	"vpn-backend/internal/domain/devices"
	"vpn-backend/internal/domain/limits"
	"vpn-backend/internal/domain/plans"
	"vpn-backend/internal/domain/servers"
	"vpn-backend/internal/domain/subscriptions"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Respond(c *gin.Context, err error) {
	var (
		limitErr     *limits.LimitExceededError
		planNotFound *plans.NotFoundError
		planInactive *plans.InactiveError
		systemPlan   *plans.SystemPlanProtectedError
		codeFrozen   *plans.CodeImmutableError
		userNotFound *subscriptions.UserNotFoundError
	)

	switch {
	case errors.Is(err, subscriptions.ErrNoActiveSubscription):
		c.JSON(http.StatusForbidden, gin.H{
			"detail": "No active subscription",
			"code":   "no_active_subscription",
		})

	case errors.Is(err, subscriptions.ErrExpired):
		c.JSON(http.StatusConflict, gin.H{
			"detail": "Subscription expired",
			"code":   "subscription_expired",
		})

	case errors.Is(err, subscriptions.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"detail": "Subscription not found",
			"code":   "subscription_not_found",
		})

	case errors.As(err, &limitErr):
		c.JSON(http.StatusForbidden, gin.H{
			"detail": limitErr.Error(),
			"code":   "plan_limit_exceeded",
			"meta": gin.H{
				"resource": limitErr.Resource,
				"limit":    limitErr.Limit,
				"current":  limitErr.Current,
			},
		})

	case errors.As(err, &planNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"detail": "Plan not found",
			"code":   "plan_not_found",
			"meta":   gin.H{"plan_code": planNotFound.PlanCode},
		})

	case errors.As(err, &planInactive):
		c.JSON(http.StatusConflict, gin.H{
			"detail": "Plan is inactive",
			"code":   "plan_inactive",
			"meta":   gin.H{"plan_code": planInactive.PlanCode},
		})

	case errors.As(err, &systemPlan):
		c.JSON(http.StatusConflict, gin.H{
			"detail": "System plan is protected",
			"code":   "system_plan_protected",
			"meta":   gin.H{"plan_code": systemPlan.PlanCode},
		})

	case errors.As(err, &codeFrozen):
		c.JSON(http.StatusConflict, gin.H{
			"detail": "Plan code cannot be changed",
			"code":   "plan_code_immutable",
			"meta": gin.H{
				"current":   codeFrozen.Current,
				"requested": codeFrozen.Requested,
			},
		})

	case errors.As(err, &userNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"detail": "User not found",
			"code":   "user_not_found",
			"meta":   gin.H{"user_id": userNotFound.UserID},
		})

	case errors.Is(err, devices.ErrDeviceIDRequired):
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "X-Device-Id header required",
			"code":   "device_id_required",
		})

	case errors.Is(err, devices.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"detail": "Device not found",
			"code":   "not_found",
		})

	case errors.Is(err, servers.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"detail": "Server not found",
			"code":   "not_found",
		})

	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{
			"detail": "Resource already exists",
			"code":   "conflict",
		})

	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"detail": "Not found",
			"code":   "not_found",
		})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": "Internal error",
			"code":   "internal_error",
		})
	}
}

// Conflict responds 409 with a specific detail message, keeping the
// generic conflict code. Used where the duplicate has a better story than
// "resource already exists" (endpoint collisions, plan codes).
func Conflict(c *gin.Context, detail string) {
	c.JSON(http.StatusConflict, gin.H{
		"detail": detail,
		"code":   "conflict",
	})
}
