package subscriptions

import (
	"errors"
	"time"

	"vpn-backend/internal/domain/plans"

	"gorm.io/gorm"
)

// Ensure gives every user a subscription row, binding the free plan on
// first touch. Idempotent.
func Ensure(db *gorm.DB, userID uint) (*Subscription, error) {
	var existing Subscription
	err := db.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var free plans.Plan
	if err := db.Where("code = ?", plans.FreeCode).First(&free).Error; err != nil {
		return nil, err
	}

	sub := Subscription{
		UserID:    userID,
		PlanID:    &free.ID,
		Status:    StatusActive,
		StartedAt: time.Now().UTC(),
		ExpiresAt: nil,
	}
	if err := db.Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func Get(db *gorm.DB, userID uint) (*Subscription, error) {
	var sub Subscription
	err := db.Preload("Plan").Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Cancel makes the subscription inactive. With immediately set, the expiry
// is pulled to now as well.
func Cancel(db *gorm.DB, userID uint, immediately bool) (*Subscription, error) {
	sub, err := Get(db, userID)
	if err != nil {
		return nil, err
	}

	sub.Status = StatusCanceled
	if immediately {
		now := time.Now().UTC()
		sub.ExpiresAt = &now
	}
	if err := db.Save(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// Resume reactivates a canceled subscription. An expired one cannot be
// resumed; the caller has to renew instead.
func Resume(db *gorm.DB, userID uint) (*Subscription, error) {
	sub, err := Get(db, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if sub.ExpiresAt != nil && !sub.ExpiresAt.After(now) {
		return nil, ErrExpired
	}

	sub.Status = StatusActive
	if err := db.Save(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// Renew rebinds the plan and extends expires_at by days, counted from
// max(now, current expiry) so an unexpired subscription loses no time.
func Renew(db *gorm.DB, userID uint, planCode string, days int) (*Subscription, error) {
	if days <= 0 {
		days = 30
	}

	plan, err := plans.ActiveByCode(db, planCode)
	if err != nil {
		return nil, err
	}

	sub, err := Get(db, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	base := now
	if sub.ExpiresAt != nil && sub.ExpiresAt.After(now) {
		base = *sub.ExpiresAt
	}

	expires := base.AddDate(0, 0, days)
	sub.PlanID = &plan.ID
	sub.Plan = plan
	sub.Status = StatusActive
	sub.ExpiresAt = &expires

	if err := db.Save(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}
