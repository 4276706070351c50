package plans

import "time"

// FreeCode is the seeded default tier every new user lands on.
const FreeCode = "free"

// Plan quotas: 0 (or below) means unlimited.
type Plan struct {
	ID         uint   `gorm:"primaryKey"`
	Code       string `gorm:"size:32;not null;uniqueIndex:idx_plans_code"`
	Name       string `gorm:"size:120;not null"`
	PriceCents int    `gorm:"not null;default:0"`
	Currency   string `gorm:"size:3;not null;default:'USD'"`
	MaxServers int    `gorm:"not null;default:1"`
	MaxDevices int    `gorm:"not null;default:1"`
	IsActive   bool   `gorm:"not null;default:true"`

	CreatedAt time.Time
}

// System plans must always exist and cannot be deactivated.
func IsSystemCode(code string) bool {
	return code == FreeCode
}
