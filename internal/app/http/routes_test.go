package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vpn-backend/config"
	"vpn-backend/database"
	routes "vpn-backend/internal/app/http"
	"vpn-backend/internal/domain/plans"
	"vpn-backend/internal/domain/users"
	"vpn-backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setup swaps the global DB for a fresh in-memory one and returns a
// router with the full route table mounted.
func setup(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	config.JWT_SECRET = "test-secret"
	database.DB = testutil.OpenDB(t)

	r := gin.New()
	routes.RegisterRoutes(r)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// registerUser signs up a fresh account (free tier) and returns its token.
func registerUser(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := do(t, r, http.MethodPost, "/register", "", gin.H{
		"email":    email,
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, _ := decode(t, w)["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func adminToken(t *testing.T) string {
	t.Helper()
	admin := testutil.CreateUser(t, database.DB, "admin@example.com", users.RoleAdmin)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": admin.ID,
		"email":   admin.Email,
		"role":    string(admin.Role),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(config.JWT_SECRET))
	require.NoError(t, err)
	return signed
}

func TestServerQuotaOverHTTP(t *testing.T) {
	r := setup(t)
	token := registerUser(t, r, "quota@example.com") // free: 1 server

	w := do(t, r, http.MethodPost, "/servers", token, gin.H{
		"name": "first", "host": "10.0.0.1",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	firstID := decode(t, w)["id"].(float64)
	assert.Equal(t, float64(51820), decode(t, w)["port"]) // default port

	// a second server breaks the free quota
	w = do(t, r, http.MethodPost, "/servers", token, gin.H{
		"name": "second", "host": "10.0.0.2",
	}, nil)
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "plan_limit_exceeded", body["code"])
	meta := body["meta"].(map[string]any)
	assert.Equal(t, "servers", meta["resource"])
	assert.Equal(t, float64(1), meta["limit"])
	assert.Equal(t, float64(1), meta["current"])

	// deleting the first frees the slot
	w = do(t, r, http.MethodDelete, fmt.Sprintf("/servers/%.0f", firstID), token, nil, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodPost, "/servers", token, gin.H{
		"name": "second", "host": "10.0.0.2",
	}, nil)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestDuplicateEndpointOverHTTP(t *testing.T) {
	r := setup(t)
	token := registerUser(t, r, "dup@example.com")
	require.NoError(t, database.DB.Model(&plans.Plan{}).
		Where("code = ?", plans.FreeCode).
		Update("max_servers", 5).Error)

	w := do(t, r, http.MethodPost, "/servers", token, gin.H{
		"name": "a", "host": "vpn.example.com", "port": 51820,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, "/servers", token, gin.H{
		"name": "b", "host": "vpn.example.com", "port": 51820,
	}, nil)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "conflict", body["code"])
	assert.Equal(t, "Server endpoint already exists (host+port)", body["detail"])
}

func TestDeviceQuotaLoginFlow(t *testing.T) {
	r := setup(t)
	registerUser(t, r, "devices@example.com") // free: 1 device

	login := func(deviceID string) *httptest.ResponseRecorder {
		return do(t, r, http.MethodPost, "/login", "", gin.H{
			"email":    "devices@example.com",
			"password": "password123",
		}, map[string]string{"X-Device-Id": deviceID})
	}

	// first device in, repeat login from it is a touch
	require.Equal(t, http.StatusOK, login("dev-1").Code)
	require.Equal(t, http.StatusOK, login("dev-1").Code)

	// second device over the free quota
	w := login("dev-2")
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "plan_limit_exceeded", body["code"])
	assert.Equal(t, "devices", body["meta"].(map[string]any)["resource"])

	// revoke dev-1, then dev-2 fits
	token, _ := decode(t, login("dev-1"))["access_token"].(string)
	w = do(t, r, http.MethodGet, "/devices", token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var devs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &devs))
	require.Len(t, devs, 1)

	w = do(t, r, http.MethodPost, fmt.Sprintf("/devices/%.0f/revoke", devs[0]["id"].(float64)), token, nil, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, http.StatusOK, login("dev-2").Code)
}

func TestLoginWithoutDeviceHeader(t *testing.T) {
	r := setup(t)
	registerUser(t, r, "nodevice@example.com")

	w := do(t, r, http.MethodPost, "/login", "", gin.H{
		"email":    "nodevice@example.com",
		"password": "password123",
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "device_id_required", decode(t, w)["code"])
}

func TestSystemPlanDeactivationOverHTTP(t *testing.T) {
	r := setup(t)
	admin := adminToken(t)

	var free plans.Plan
	require.NoError(t, database.DB.Where("code = ?", plans.FreeCode).First(&free).Error)

	w := do(t, r, http.MethodPost, fmt.Sprintf("/admin/plans/%d/deactivate", free.ID), admin, nil, nil)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "system_plan_protected", decode(t, w)["code"])

	// an ordinary plan can be deactivated and drops off the public catalog
	pro := testutil.CreatePlan(t, database.DB, "pro", 5, 5)
	w = do(t, r, http.MethodPost, fmt.Sprintf("/admin/plans/%d/deactivate", pro.ID), admin, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/billing/plans", "", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var catalog []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))
	for _, p := range catalog {
		assert.NotEqual(t, "pro", p["code"])
	}
}

func TestRenewAndSummaryOverHTTP(t *testing.T) {
	r := setup(t)
	token := registerUser(t, r, "renew@example.com")
	testutil.CreatePlan(t, database.DB, "pro", 5, 5)

	w := do(t, r, http.MethodPost, "/billing/renew", token, gin.H{
		"plan_code": "pro", "days": 30,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/billing/summary", token, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	sum := decode(t, w)
	assert.Equal(t, "active", sum["status"])
	assert.Equal(t, "pro", sum["plan_code"])
	assert.Equal(t, float64(5), sum["max_servers"])
	assert.NotNil(t, sum["expires_at"])
}

func TestAuthBoundaries(t *testing.T) {
	r := setup(t)

	w := do(t, r, http.MethodGet, "/servers", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := registerUser(t, r, "plain@example.com")
	w = do(t, r, http.MethodGet, "/admin/users", token, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, r, http.MethodGet, "/admin/users", adminToken(t), nil, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	r := setup(t)
	w := do(t, r, http.MethodGet, "/health", "", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}
