package servers_test

import (
	"testing"

	"vpn-backend/internal/domain/limits"
	"vpn-backend/internal/domain/servers"
	"vpn-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newServer(name, host string, port int) *servers.Server {
	return &servers.Server{Name: name, Host: host, Port: port, IsActive: true}
}

func TestServerQuotaLifecycle(t *testing.T) {
	db := testutil.OpenDB(t)
	user, _ := testutil.CreateUserWithPlan(t, db, "quota@example.com", 1, 1)

	first := newServer("first", "10.0.0.1", 51820)
	require.NoError(t, servers.CreateOwned(db, first, user.ID, user.ID))

	// at the limit
	err := servers.CreateOwned(db, newServer("second", "10.0.0.2", 51820), user.ID, user.ID)
	var exceeded *limits.LimitExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, "servers", exceeded.Resource)
	assert.Equal(t, 1, exceeded.Limit)
	assert.Equal(t, 1, exceeded.Current)

	// deleting frees the slot
	require.NoError(t, servers.SoftDeleteOwned(db, first, user.ID))
	require.NoError(t, servers.CreateOwned(db, newServer("second", "10.0.0.2", 51820), user.ID, user.ID))

	live, err := servers.ListOwnedLive(db, user.ID)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, "second", live[0].Name)
}

func TestDuplicateEndpointRejected(t *testing.T) {
	db := testutil.OpenDB(t)
	user, _ := testutil.CreateUserWithPlan(t, db, "dup@example.com", 5, 1)

	require.NoError(t, servers.CreateOwned(db, newServer("a", "vpn.example.com", 51820), user.ID, user.ID))

	err := servers.CreateOwned(db, newServer("b", "vpn.example.com", 51820), user.ID, user.ID)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// different port is a different endpoint
	require.NoError(t, servers.CreateOwned(db, newServer("b", "vpn.example.com", 51821), user.ID, user.ID))
}

func TestSameEndpointDifferentOwners(t *testing.T) {
	db := testutil.OpenDB(t)
	alice, _ := testutil.CreateUserWithPlan(t, db, "alice@example.com", 5, 1)
	bob, _ := testutil.CreateUserWithPlan(t, db, "bob@example.com", 5, 1)

	require.NoError(t, servers.CreateOwned(db, newServer("a", "vpn.example.com", 51820), alice.ID, alice.ID))
	require.NoError(t, servers.CreateOwned(db, newServer("b", "vpn.example.com", 51820), bob.ID, bob.ID))
}

func TestOwnerScoping(t *testing.T) {
	db := testutil.OpenDB(t)
	alice, _ := testutil.CreateUserWithPlan(t, db, "alice@example.com", 5, 1)
	bob, _ := testutil.CreateUserWithPlan(t, db, "bob@example.com", 5, 1)

	srv := newServer("alices", "10.0.0.1", 51820)
	require.NoError(t, servers.CreateOwned(db, srv, alice.ID, alice.ID))

	_, err := servers.GetOwnedLive(db, srv.ID, bob.ID)
	assert.ErrorIs(t, err, servers.ErrNotFound)

	live, err := servers.ListOwnedLive(db, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, live)
}

func TestSoftDeletedHiddenFromOwner(t *testing.T) {
	db := testutil.OpenDB(t)
	user, _ := testutil.CreateUserWithPlan(t, db, "hidden@example.com", 5, 1)

	srv := newServer("gone", "10.0.0.1", 51820)
	require.NoError(t, servers.CreateOwned(db, srv, user.ID, user.ID))
	require.NoError(t, servers.SoftDeleteOwned(db, srv, user.ID))

	_, err := servers.GetOwnedLive(db, srv.ID, user.ID)
	assert.ErrorIs(t, err, servers.ErrNotFound)

	// admin still sees the row
	all, err := servers.ListAllAdmin(db)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].DeletedAt)
	require.NotNil(t, all[0].DeletedBy)
	assert.Equal(t, user.ID, *all[0].DeletedBy)
}

func TestPartialUpdate(t *testing.T) {
	db := testutil.OpenDB(t)
	user, _ := testutil.CreateUserWithPlan(t, db, "patch@example.com", 5, 1)

	srv := newServer("orig", "10.0.0.1", 51820)
	require.NoError(t, servers.CreateOwned(db, srv, user.ID, user.ID))

	name := "renamed"
	country := "DE"
	require.NoError(t, servers.UpdateOwned(db, srv, servers.UpdateParams{
		Name:    &name,
		Country: &country,
	}, user.ID))

	got, err := servers.GetOwnedLive(db, srv.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, "10.0.0.1", got.Host)
	assert.Equal(t, 51820, got.Port)
	require.NotNil(t, got.Country)
	assert.Equal(t, "DE", *got.Country)
}

func TestAdminSoftDeleteIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	user, _ := testutil.CreateUserWithPlan(t, db, "admin-del@example.com", 5, 1)

	srv := newServer("target", "10.0.0.1", 51820)
	require.NoError(t, servers.CreateOwned(db, srv, user.ID, user.ID))

	first, err := servers.AdminSoftDelete(db, srv.ID, 99)
	require.NoError(t, err)
	require.NotNil(t, first.DeletedAt)

	again, err := servers.AdminSoftDelete(db, srv.ID, 99)
	require.NoError(t, err)
	assert.Equal(t, first.DeletedAt.Unix(), again.DeletedAt.Unix())
}

func TestAdminRestore(t *testing.T) {
	db := testutil.OpenDB(t)
	user, _ := testutil.CreateUserWithPlan(t, db, "restore@example.com", 5, 1)

	srv := newServer("target", "10.0.0.1", 51820)
	require.NoError(t, servers.CreateOwned(db, srv, user.ID, user.ID))
	_, err := servers.AdminSoftDelete(db, srv.ID, 99)
	require.NoError(t, err)

	restored, err := servers.AdminRestore(db, srv.ID, 99)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)
	require.NotNil(t, restored.RestoredBy)
	assert.Equal(t, uint(99), *restored.RestoredBy)

	// restore of a live row is a no-op
	_, err = servers.AdminRestore(db, srv.ID, 99)
	require.NoError(t, err)
}

func TestAdminRestoreConflictsWithLiveDuplicate(t *testing.T) {
	db := testutil.OpenDB(t)
	user, _ := testutil.CreateUserWithPlan(t, db, "conflict@example.com", 5, 1)

	old := newServer("old", "10.0.0.1", 51820)
	require.NoError(t, servers.CreateOwned(db, old, user.ID, user.ID))
	require.NoError(t, servers.SoftDeleteOwned(db, old, user.ID))

	// a live replacement now occupies the endpoint
	require.NoError(t, servers.CreateOwned(db, newServer("new", "10.0.0.1", 51820), user.ID, user.ID))

	_, err := servers.AdminRestore(db, old.ID, 99)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUnlimitedServers(t *testing.T) {
	db := testutil.OpenDB(t)
	user, _ := testutil.CreateUserWithPlan(t, db, "unlimited@example.com", 0, 1)

	for i := 1; i <= 4; i++ {
		require.NoError(t, servers.CreateOwned(db, newServer("s", "10.0.0.1", 51820+i), user.ID, user.ID))
	}

	live, err := servers.ListOwnedLive(db, user.ID)
	require.NoError(t, err)
	assert.Len(t, live, 4)
}
