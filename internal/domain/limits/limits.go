// Package limits resolves the caller's active plan. Every quota check in
// the server and device registries goes through ActivePlanForUser; nothing
// else decides what "active subscription" means.
package limits

import (
	"errors"
	"fmt"
	"time"

	"vpn-backend/internal/domain/plans"
	"vpn-backend/internal/domain/subscriptions"

	"gorm.io/gorm"
)

type LimitExceededError struct {
	Resource string
	Limit    int
	Current  int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("plan limit exceeded for %s", e.Resource)
}

// ActivePlanForUser returns the plan behind the user's currently active
// subscription, or the domain error explaining why there isn't one.
func ActivePlanForUser(db *gorm.DB, userID uint) (*plans.Plan, error) {
	var sub subscriptions.Subscription
	err := db.Preload("Plan").Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, subscriptions.ErrNoActiveSubscription
	}
	if err != nil {
		return nil, err
	}

	if sub.Status != subscriptions.StatusActive {
		return nil, subscriptions.ErrNoActiveSubscription
	}

	if sub.ExpiresAt != nil && sub.ExpiresAt.Before(time.Now().UTC()) {
		return nil, subscriptions.ErrExpired
	}

	plan := sub.Plan
	if plan == nil && sub.PlanID != nil {
		plan, _ = plans.GetByID(db, *sub.PlanID)
	}
	if plan == nil {
		return nil, &plans.NotFoundError{PlanCode: "unknown"}
	}
	if !plan.IsActive {
		return nil, &plans.InactiveError{PlanCode: plan.Code}
	}

	return plan, nil
}
