package devices

import (
	"time"

	"vpn-backend/internal/domain/users"
)

// Device: one row per login device. Revocation keeps the row; the partial
// unique index only covers active rows, so a device can come back after
// being revoked.
type Device struct {
	ID     uint       `gorm:"primaryKey"`
	UserID uint       `gorm:"not null;index;uniqueIndex:ux_devices_user_device_active,where:revoked_at IS NULL"`
	User   users.User `gorm:"constraint:OnDelete:CASCADE"`

	DeviceID   string  `gorm:"size:128;not null;uniqueIndex:ux_devices_user_device_active,where:revoked_at IS NULL"`
	DeviceName *string `gorm:"size:255"`

	LastSeenAt time.Time `gorm:"not null"`
	RevokedAt  *time.Time

	CreatedAt time.Time
}
