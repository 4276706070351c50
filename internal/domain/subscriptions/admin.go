package subscriptions

import (
	"errors"
	"time"

	"vpn-backend/internal/domain/plans"
	"vpn-backend/internal/domain/users"

	"gorm.io/gorm"
)

// Admin mutations address arbitrary users by id and create the
// subscription row on demand. Ownership checks do not apply here; quota
// invariants still do (they run at resource-creation time, not here).

func getUser(db *gorm.DB, userID uint) (*users.User, error) {
	var user users.User
	err := db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &UserNotFoundError{UserID: userID}
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ensureRow differs from Ensure: no plan is bound, the row starts at
// status "none" until the admin grants something.
func ensureRow(db *gorm.DB, userID uint) (*Subscription, error) {
	var sub Subscription
	err := db.Preload("Plan").Where("user_id = ?", userID).First(&sub).Error
	if err == nil {
		return &sub, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sub = Subscription{
		UserID:    userID,
		PlanID:    nil,
		Status:    StatusNone,
		StartedAt: time.Now().UTC(),
	}
	if err := db.Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func Grant(db *gorm.DB, userID uint, planCode string, expiresAt *time.Time) (*Subscription, error) {
	if _, err := getUser(db, userID); err != nil {
		return nil, err
	}
	plan, err := plans.ActiveByCode(db, planCode)
	if err != nil {
		return nil, err
	}

	sub, err := ensureRow(db, userID)
	if err != nil {
		return nil, err
	}

	sub.PlanID = &plan.ID
	sub.Plan = plan
	sub.Status = StatusActive
	sub.ExpiresAt = expiresAt

	if err := db.Save(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// Extend pushes expires_at out by days. A lifetime subscription (no
// expiry) is left untouched.
func Extend(db *gorm.DB, userID uint, days int) (*Subscription, error) {
	if _, err := getUser(db, userID); err != nil {
		return nil, err
	}
	sub, err := ensureRow(db, userID)
	if err != nil {
		return nil, err
	}

	if sub.ExpiresAt == nil {
		return sub, nil
	}

	now := time.Now().UTC()
	base := *sub.ExpiresAt
	if base.Before(now) {
		base = now
	}

	expires := base.AddDate(0, 0, days)
	sub.ExpiresAt = &expires
	if sub.Status != StatusActive {
		sub.Status = StatusActive
	}

	if err := db.Save(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func AdminCancel(db *gorm.DB, userID uint, immediately bool) (*Subscription, error) {
	if _, err := getUser(db, userID); err != nil {
		return nil, err
	}
	sub, err := ensureRow(db, userID)
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

// Reactivate flips status back to active. Without a bound plan there is
// nothing to reactivate: the admin must grant first.
func Reactivate(db *gorm.DB, userID uint) (*Subscription, error) {
	if _, err := getUser(db, userID); err != nil {
		return nil, err
	}
	sub, err := ensureRow(db, userID)
	if err != nil {
		return nil, err
	}

	if sub.PlanID == nil {
		return sub, nil
	}

	sub.Status = StatusActive
	if err := db.Save(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}
