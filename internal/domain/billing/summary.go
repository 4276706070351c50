// Package billing aggregates plan, subscription and usage into the one
// view the UI and the admin table consume. Read-only.
package billing

import (
	"errors"
	"time"

	"vpn-backend/internal/domain/devices"
	"vpn-backend/internal/domain/plans"
	"vpn-backend/internal/domain/servers"
	"vpn-backend/internal/domain/subscriptions"

	"gorm.io/gorm"
)

type Summary struct {
	Status      subscriptions.Status `json:"status"`
	PlanCode    string               `json:"plan_code"`
	PlanName    string               `json:"plan_name"`
	ExpiresAt   *time.Time           `json:"expires_at"`
	MaxServers  int                  `json:"max_servers"`
	MaxDevices  int                  `json:"max_devices"`
	ServersUsed int                  `json:"servers_used"`
	DevicesUsed int                  `json:"devices_used"`
}

// Summarize never fails on a missing subscription: a user without a row
// reads as the free tier with status "none".
func Summarize(db *gorm.DB, userID uint) (*Summary, error) {
	var serversUsed, devicesUsed int64

	if err := db.Model(&servers.Server{}).
		Where("owner_id = ? AND deleted_at IS NULL", userID).
		Count(&serversUsed).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&devices.Device{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Count(&devicesUsed).Error; err != nil {
		return nil, err
	}

	out := Summary{
		Status:      subscriptions.StatusNone,
		PlanCode:    plans.FreeCode,
		PlanName:    "Free",
		MaxServers:  1,
		MaxDevices:  1,
		ServersUsed: int(serversUsed),
		DevicesUsed: int(devicesUsed),
	}

	var sub subscriptions.Subscription
	err := db.Preload("Plan").Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &out, nil
	}
	if err != nil {
		return nil, err
	}

	out.Status = subscriptions.EffectiveStatus(&sub, time.Now().UTC())
	out.ExpiresAt = sub.ExpiresAt

	// the plan stays visible even when canceled or expired
	if sub.Plan != nil {
		out.PlanCode = sub.Plan.Code
		out.PlanName = sub.Plan.Name
		out.MaxServers = sub.Plan.MaxServers
		out.MaxDevices = sub.Plan.MaxDevices
	}

	return &out, nil
}
