package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/padel-booking-backend/internal/db"
	"github.com/nekogravitycat/padel-booking-backend/internal/resource"
	"github.com/nekogravitycat/padel-booking-backend/internal/surcharge"
	"github.com/nekogravitycat/padel-booking-backend/internal/timeslot"
	"github.com/nekogravitycat/padel-booking-backend/internal/user"
)

var (
	testPool      *pgxpool.Pool
	testContainer *Container
	// Unique per run so parallel runs do not share the surcharge row.
	weekendSurcharge = "Fin de semana " + uuid.NewString()
)

func TestMain(m *testing.M) {
	if err := godotenv.Load("../../.env"); err != nil {
		log.Printf("No .env file found or failed to load: %v", err)
	}

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		log.Printf("TEST_DB_DSN not set, skipping integration tests")
		os.Exit(0)
	}

	ctx := context.Background()
	var err error
	testPool, err = db.NewPool(ctx, dsn, db.PoolOptions{})
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	if err := db.ApplySchema(ctx, testPool); err != nil {
		log.Fatalf("Unable to apply schema: %v", err)
	}

	gin.SetMode(gin.TestMode)
	testContainer = NewContainer(Config{
		DBPool:               testPool,
		JWTSecret:            "integration-secret",
		JWTTTL:               30 * time.Minute,
		BcryptCost:           4,
		WeekendSurchargeName: weekendSurcharge,
	})

	exitCode := m.Run()
	testPool.Close()
	os.Exit(exitCode)
}

func executeRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	testContainer.Router.ServeHTTP(w, req)
	return w
}

func createTestUser(t *testing.T, isAdmin bool) (*user.User, string) {
	t.Helper()
	tag := uuid.NewString()
	u, err := testContainer.UserService.Register(context.Background(), user.RegisterRequest{
		Email:    tag + "@example.com",
		Name:     "Test " + tag[:8],
		DNI:      tag,
		Password: "padel-password",
		IsAdmin:  isAdmin,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = testPool.Exec(context.Background(), "DELETE FROM public.users WHERE id = $1", u.ID) })

	token, err := testContainer.JWTManager.GenerateAccessToken(u.ID, u.Email)
	require.NoError(t, err)
	return u, token
}

type court struct {
	id    int64
	slots []int64
}

func createTestCourt(t *testing.T) court {
	t.Helper()
	ctx := context.Background()
	tag := uuid.NewString()

	res, err := testContainer.ResourceService.Create(ctx, resource.CreateRequest{
		Name: "Pista " + tag, Capacity: 4, BasePrice: decimal.RequireFromString("12.00"),
	})
	require.NoError(t, err)
	c := court{id: res.ID}
	for _, rng := range []string{"10:00-10:30", "10:30-11:00"} {
		s, err := testContainer.SlotService.Create(ctx, timeslot.CreateRequest{Range: rng, Shift: tag})
		require.NoError(t, err)
		c.slots = append(c.slots, s.ID)
	}

	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = testPool.Exec(ctx, "DELETE FROM public.resources WHERE id = $1", c.id)
		_, _ = testPool.Exec(ctx, "DELETE FROM public.time_slots WHERE shift = $1", tag)
	})
	return c
}

func TestAuthFlow(t *testing.T) {
	tag := uuid.NewString()
	email := tag + "@Example.com"
	t.Cleanup(func() {
		_, _ = testPool.Exec(context.Background(), "DELETE FROM public.users WHERE email = $1", tag+"@example.com")
	})

	t.Run("register", func(t *testing.T) {
		w := executeRequest(http.MethodPost, "/v1/auth/register", map[string]string{
			"email": email, "name": "Ana", "dni": "dni" + tag, "password": "padel-password",
		}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("duplicate email", func(t *testing.T) {
		w := executeRequest(http.MethodPost, "/v1/auth/register", map[string]string{
			"email": email, "name": "Ana", "dni": "other" + tag, "password": "padel-password",
		}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	var token string
	t.Run("login", func(t *testing.T) {
		w := executeRequest(http.MethodPost, "/v1/auth/login", map[string]string{
			"email": email, "password": "padel-password",
		}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body struct {
			AccessToken string `json:"access_token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		token = body.AccessToken
		require.NotEmpty(t, token)
	})

	t.Run("me", func(t *testing.T) {
		w := executeRequest(http.MethodGet, "/v1/me", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"dni":"DNI`)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := executeRequest(http.MethodPost, "/v1/auth/login", map[string]string{
			"email": email, "password": "not-the-password",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestBookingFlow(t *testing.T) {
	_, ana := createTestUser(t, false)
	_, bea := createTestUser(t, false)
	_, admin := createTestUser(t, true)
	c := createTestCourt(t)
	date := "2026-12-01"

	booking := map[string]any{"resource_id": c.id, "date": date, "slot_ids": c.slots}

	w := executeRequest(http.MethodPost, "/v1/quote", booking, ana)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"total":"24.00"`)

	w = executeRequest(http.MethodPost, "/v1/reservations", booking, ana)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID    int64  `json:"id"`
		Total string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "24.00", created.Total)
	id := strconv.FormatInt(created.ID, 10)

	w = executeRequest(http.MethodPost, "/v1/reservations", map[string]any{
		"resource_id": c.id, "date": date, "slot_ids": []int64{c.slots[1]},
	}, bea)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"occupied_slot_ids":[%d]`, c.slots[1]))

	w = executeRequest(http.MethodGet, fmt.Sprintf("/v1/availability/%d?date=%s", c.id, date), nil, bea)
	require.Equal(t, http.StatusOK, w.Code)
	var avail struct {
		Free []struct {
			ID int64 `json:"id"`
		} `json:"free_slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avail))
	for _, s := range avail.Free {
		assert.NotContains(t, c.slots, s.ID)
	}

	assert.Equal(t, http.StatusNotFound, executeRequest(http.MethodGet, "/v1/reservations/"+id, nil, bea).Code)
	assert.Equal(t, http.StatusOK, executeRequest(http.MethodGet, "/v1/reservations/"+id, nil, admin).Code)
	assert.Equal(t, http.StatusForbidden, executeRequest(http.MethodGet, "/v1/reservations", nil, ana).Code)

	assert.Equal(t, http.StatusNotFound, executeRequest(http.MethodDelete, "/v1/reservations/"+id, nil, bea).Code)
	assert.Equal(t, http.StatusNoContent, executeRequest(http.MethodDelete, "/v1/reservations/"+id, nil, ana).Code)

	w = executeRequest(http.MethodPost, "/v1/reservations", map[string]any{
		"resource_id": c.id, "date": date, "slot_ids": []int64{c.slots[1]},
	}, bea)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestWeekendSurcharge(t *testing.T) {
	ctx := context.Background()
	_, ana := createTestUser(t, false)
	c := createTestCourt(t)

	sur, err := testContainer.SurchargeService.Create(ctx, surcharge.CreateRequest{
		Name: weekendSurcharge, Amount: decimal.RequireFromString("3.00"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = testPool.Exec(context.Background(), "DELETE FROM public.surcharges WHERE id = $1", sur.ID) })

	w := executeRequest(http.MethodPost, "/v1/quote", map[string]any{
		"resource_id": c.id, "date": "2026-12-05", "slot_ids": c.slots,
	}, ana)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"total":"27.00"`)
}

func TestUnauthenticated(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, executeRequest(http.MethodGet, "/v1/availability?date=2026-12-01", nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, executeRequest(http.MethodGet, "/v1/me", nil, "bad-token").Code)
}
