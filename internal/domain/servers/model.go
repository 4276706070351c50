package servers

import (
	"time"

	"vpn-backend/internal/domain/users"
)

// Server is a user-owned VPN endpoint. Rows are soft-deleted: deleted_at
// stays filled and only admin restore clears it. At most one live row may
// exist per (owner, host, port); the partial unique index is the backstop
// for concurrent creates.
type Server struct {
	ID      uint       `gorm:"primaryKey"`
	OwnerID uint       `gorm:"not null;index;uniqueIndex:ux_servers_owner_endpoint,where:deleted_at IS NULL"`
	Owner   users.User `gorm:"constraint:OnDelete:CASCADE"`

	Name     string  `gorm:"size:120;not null"`
	Host     string  `gorm:"size:255;not null;uniqueIndex:ux_servers_owner_endpoint,where:deleted_at IS NULL"`
	Port     int     `gorm:"not null;default:51820;uniqueIndex:ux_servers_owner_endpoint,where:deleted_at IS NULL"`
	Country  *string `gorm:"size:2"`
	IsActive bool    `gorm:"not null;default:true"`
	Notes    *string `gorm:"type:text"`

	DeletedAt *time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// audit actors; SET NULL when the actor account goes away
	CreatedBy      *uint
	CreatedByUser  *users.User `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL"`
	UpdatedBy      *uint
	UpdatedByUser  *users.User `gorm:"foreignKey:UpdatedBy;constraint:OnDelete:SET NULL"`
	DeletedBy      *uint
	DeletedByUser  *users.User `gorm:"foreignKey:DeletedBy;constraint:OnDelete:SET NULL"`
	RestoredBy     *uint
	RestoredByUser *users.User `gorm:"foreignKey:RestoredBy;constraint:OnDelete:SET NULL"`
}
