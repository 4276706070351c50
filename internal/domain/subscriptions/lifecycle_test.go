package subscriptions_test

import (
	"testing"
	"time"

	"vpn-backend/internal/domain/plans"
	"vpn-backend/internal/domain/subscriptions"
	"vpn-backend/internal/domain/users"
	"vpn-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCreatesFreeSubscription(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.CreateUser(t, db, "ensure@example.com", users.RoleUser)

	sub, err := subscriptions.Ensure(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, subscriptions.StatusActive, sub.Status)
	assert.Nil(t, sub.ExpiresAt)

	var free plans.Plan
	require.NoError(t, db.Where("code = ?", plans.FreeCode).First(&free).Error)
	require.NotNil(t, sub.PlanID)
	assert.Equal(t, free.ID, *sub.PlanID)

	// second call returns the same row
	again, err := subscriptions.Ensure(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, again.ID)
}

func TestCancelAndResume(t *testing.T) {
	db := testutil.OpenDB(t)
	user, _ := testutil.CreateUserWithPlan(t, db, "cycle@example.com", 1, 1)

	sub, err := subscriptions.Cancel(db, user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, subscriptions.StatusCanceled, sub.Status)
	assert.Nil(t, sub.ExpiresAt)

	sub, err = subscriptions.Resume(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, subscriptions.StatusActive, sub.Status)
}

func TestCancelImmediatelySetsExpiry(t *testing.T) {
	db := testutil.OpenDB(t)
	user, _ := testutil.CreateUserWithPlan(t, db, "now@example.com", 1, 1)

	sub, err := subscriptions.Cancel(db, user.ID, true)
	require.NoError(t, err)
	assert.Equal(t, subscriptions.StatusCanceled, sub.Status)
	require.NotNil(t, sub.ExpiresAt)
	assert.WithinDuration(t, time.Now().UTC(), *sub.ExpiresAt, 5*time.Second)
}

func TestResumeExpiredFails(t *testing.T) {
	db := testutil.OpenDB(t)
	user, _ := testutil.CreateUserWithPlan(t, db, "expired@example.com", 1, 1)

	past := time.Now().UTC().Add(-24 * time.Hour)
	require.NoError(t, db.Model(&subscriptions.Subscription{}).
		Where("user_id = ?", user.ID).
		Update("expires_at", past).Error)

	_, err := subscriptions.Resume(db, user.ID)
	assert.ErrorIs(t, err, subscriptions.ErrExpired)
}

func TestRenewExtendsFromCurrentExpiry(t *testing.T) {
	db := testutil.OpenDB(t)
	user, plan := testutil.CreateUserWithPlan(t, db, "renew@example.com", 1, 1)

	future := time.Now().UTC().Add(10 * 24 * time.Hour).Truncate(time.Second)
	require.NoError(t, db.Model(&subscriptions.Subscription{}).
		Where("user_id = ?", user.ID).
		Update("expires_at", future).Error)

	sub, err := subscriptions.Renew(db, user.ID, plan.Code, 30)
	require.NoError(t, err)
	require.NotNil(t, sub.ExpiresAt)

	// no time lost: 10 remaining days + 30 purchased
	want := future.AddDate(0, 0, 30)
	assert.WithinDuration(t, want, *sub.ExpiresAt, time.Second)
}

func TestRenewExpiredExtendsFromNow(t *testing.T) {
	db := testutil.OpenDB(t)
	user, plan := testutil.CreateUserWithPlan(t, db, "renew2@example.com", 1, 1)

	past := time.Now().UTC().Add(-10 * 24 * time.Hour)
	require.NoError(t, db.Model(&subscriptions.Subscription{}).
		Where("user_id = ?", user.ID).
		Updates(map[string]interface{}{
			"expires_at": past,
			"status":     subscriptions.StatusCanceled,
		}).Error)

	sub, err := subscriptions.Renew(db, user.ID, plan.Code, 30)
	require.NoError(t, err)
	assert.Equal(t, subscriptions.StatusActive, sub.Status)
	require.NotNil(t, sub.ExpiresAt)

	want := time.Now().UTC().AddDate(0, 0, 30)
	assert.WithinDuration(t, want, *sub.ExpiresAt, 5*time.Second)
}

func TestRenewUnknownOrInactivePlan(t *testing.T) {
	db := testutil.OpenDB(t)
	user, _ := testutil.CreateUserWithPlan(t, db, "badplan@example.com", 1, 1)

	var notFound *plans.NotFoundError
	_, err := subscriptions.Renew(db, user.ID, "nope", 30)
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nope", notFound.PlanCode)

	dead := testutil.CreatePlan(t, db, "dead", 1, 1)
	require.NoError(t, db.Model(dead).Update("is_active", false).Error)

	var inactive *plans.InactiveError
	_, err = subscriptions.Renew(db, user.ID, "dead", 30)
	require.ErrorAs(t, err, &inactive)
	assert.Equal(t, "dead", inactive.PlanCode)
}

func TestRenewNonPositiveDaysDefaultsTo30(t *testing.T) {
	db := testutil.OpenDB(t)
	user, plan := testutil.CreateUserWithPlan(t, db, "days@example.com", 1, 1)

	sub, err := subscriptions.Renew(db, user.ID, plan.Code, 0)
	require.NoError(t, err)
	require.NotNil(t, sub.ExpiresAt)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 30), *sub.ExpiresAt, 5*time.Second)
}

func TestEffectiveStatus(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.Equal(t, subscriptions.StatusNone, subscriptions.EffectiveStatus(nil, now))

	active := &subscriptions.Subscription{Status: subscriptions.StatusActive}
	assert.Equal(t, subscriptions.StatusActive, subscriptions.EffectiveStatus(active, now))

	active.ExpiresAt = &future
	assert.Equal(t, subscriptions.StatusActive, subscriptions.EffectiveStatus(active, now))

	active.ExpiresAt = &past
	assert.Equal(t, subscriptions.StatusExpired, subscriptions.EffectiveStatus(active, now))

	// only stored "active" derives to expired
	canceled := &subscriptions.Subscription{Status: subscriptions.StatusCanceled, ExpiresAt: &past}
	assert.Equal(t, subscriptions.StatusCanceled, subscriptions.EffectiveStatus(canceled, now))
}
