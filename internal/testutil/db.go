// Package testutil provides a throwaway in-memory database per test,
// migrated and seeded the same way InitDB does it for postgres.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"vpn-backend/database"
	"vpn-backend/internal/domain/devices"
	"vpn-backend/internal/domain/plans"
	"vpn-backend/internal/domain/servers"
	"vpn-backend/internal/domain/subscriptions"
	"vpn-backend/internal/domain/users"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	// a named shared-cache DSN keeps the database alive across pool
	// connections for the test's lifetime
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&users.User{},
		&plans.Plan{},
		&subscriptions.Subscription{},
		&devices.Device{},
		&servers.Server{},
	))
	require.NoError(t, database.SeedSystemPlans(db))

	return db
}

func CreateUser(t *testing.T, db *gorm.DB, email string, role users.Role) *users.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := users.User{
		Email:        email,
		PasswordHash: string(hash),
		AuthProvider: "local",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// CreateUserWithPlan gives the user an active subscription on a fresh
// plan with the requested quotas.
func CreateUserWithPlan(t *testing.T, db *gorm.DB, email string, maxServers, maxDevices int) (*users.User, *plans.Plan) {
	t.Helper()

	user := CreateUser(t, db, email, users.RoleUser)
	plan := CreatePlan(t, db, "plan-"+email, maxServers, maxDevices)

	sub := subscriptions.Subscription{
		UserID:    user.ID,
		PlanID:    &plan.ID,
		Status:    subscriptions.StatusActive,
		StartedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&sub).Error)
	return user, plan
}

func CreatePlan(t *testing.T, db *gorm.DB, code string, maxServers, maxDevices int) *plans.Plan {
	t.Helper()

	plan := plans.Plan{
		Code:       code,
		Name:       code,
		PriceCents: 990,
		Currency:   "USD",
		MaxServers: maxServers,
		MaxDevices: maxDevices,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&plan).Error)
	return &plan
}
