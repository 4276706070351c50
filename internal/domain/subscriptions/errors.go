package subscriptions

import (
	"errors"
	"fmt"
)

var (
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrExpired              = errors.New("subscription expired")
	ErrNotFound             = errors.New("subscription not found")
)

type UserNotFoundError struct {
	UserID uint
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user not found: %d", e.UserID)
}
