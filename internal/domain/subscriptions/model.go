package subscriptions

import (
	"time"

	"vpn-backend/internal/domain/plans"
	"vpn-backend/internal/domain/users"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusTrial    Status = "trial"
	StatusNone     Status = "none"

	// StatusExpired is derived at read time, never stored.
	StatusExpired Status = "expired"
)

// Subscription: exactly one row per user. PlanID is nil only for rows an
// admin touched before granting a plan (status "none").
type Subscription struct {
	ID     uint       `gorm:"primaryKey"`
	UserID uint       `gorm:"not null;uniqueIndex:idx_subscriptions_user"`
	User   users.User `gorm:"constraint:OnDelete:CASCADE"`

	PlanID *uint
	Plan   *plans.Plan `gorm:"constraint:OnDelete:RESTRICT"`

	Status    Status `gorm:"type:varchar(16);not null;default:'active'"`
	StartedAt time.Time
	ExpiresAt *time.Time

	CreatedAt time.Time
}

// EffectiveStatus maps a stored status to what the caller should see:
// "active" past its expiry reads as "expired". Kept as a pure function so
// read paths and write paths cannot disagree about the clock.
func EffectiveStatus(sub *Subscription, now time.Time) Status {
	if sub == nil {
		return StatusNone
	}
	if sub.Status == StatusActive && sub.ExpiresAt != nil && !sub.ExpiresAt.After(now) {
		return StatusExpired
	}
	return sub.Status
}

// ActiveAt reports whether the subscription grants access at the given time.
func (s *Subscription) ActiveAt(now time.Time) bool {
	if s == nil || s.Status != StatusActive {
		return false
	}
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}
