package devices

import (
	"errors"
	"strings"
	"time"

	"vpn-backend/internal/domain/limits"
	"vpn-backend/internal/domain/users"

	"gorm.io/gorm"
)

var (
	ErrDeviceIDRequired = errors.New("X-Device-Id header is required")
	ErrNotFound         = errors.New("device not found")
)

// RegisterOrTouchLogin records the device a login came from. Admins are
// exempt. A repeat login from a known active device only touches
// last_seen_at; a new device must fit under the plan's device quota.
//
// The count-then-insert here is racy across two concurrent logins; the
// partial unique index on (user_id, device_id) catches the same-device
// race, and we knowingly accept the distinct-device one.
func RegisterOrTouchLogin(db *gorm.DB, user *users.User, deviceID, deviceName string) error {
	if user.IsAdmin() {
		return nil
	}

	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return ErrDeviceIDRequired
	}
	deviceName = strings.TrimSpace(deviceName)
	now := time.Now().UTC()

	var existing Device
	err := db.Where("user_id = ? AND device_id = ? AND revoked_at IS NULL", user.ID, deviceID).
		First(&existing).Error
	if err == nil {
		existing.LastSeenAt = now
		if deviceName != "" {
			existing.DeviceName = &deviceName
		}
		return db.Save(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	plan, err := limits.ActivePlanForUser(db, user.ID)
	if err != nil {
		return err
	}

	if plan.MaxDevices > 0 {
		var current int64
		if err := db.Model(&Device{}).
			Where("user_id = ? AND revoked_at IS NULL", user.ID).
			Count(&current).Error; err != nil {
			return err
		}
		if int(current) >= plan.MaxDevices {
			return &limits.LimitExceededError{
				Resource: "devices",
				Limit:    plan.MaxDevices,
				Current:  int(current),
			}
		}
	}

	dev := Device{
		UserID:     user.ID,
		DeviceID:   deviceID,
		LastSeenAt: now,
	}
	if deviceName != "" {
		dev.DeviceName = &deviceName
	}
	return db.Create(&dev).Error
}

func ListOwned(db *gorm.DB, ownerID uint, includeRevoked bool) ([]Device, error) {
	q := db.Where("user_id = ?", ownerID)
	if !includeRevoked {
		q = q.Where("revoked_at IS NULL")
	}

	var out []Device
	err := q.Order("last_seen_at DESC, id DESC").Find(&out).Error
	return out, err
}

// RevokeOwned frees a device slot. Revoking an already-revoked device is
// a no-op; a device that isn't the caller's is simply not found.
func RevokeOwned(db *gorm.DB, deviceID, ownerID uint) error {
	var dev Device
	err := db.Where("id = ? AND user_id = ?", deviceID, ownerID).First(&dev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if dev.RevokedAt != nil {
		return nil
	}

	now := time.Now().UTC()
	dev.RevokedAt = &now
	return db.Save(&dev).Error
}
