package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/padel-booking-backend/internal/auth"
	"github.com/nekogravitycat/padel-booking-backend/internal/availability"
	"github.com/nekogravitycat/padel-booking-backend/internal/booking"
	"github.com/nekogravitycat/padel-booking-backend/internal/catalog/catalogtest"
	"github.com/nekogravitycat/padel-booking-backend/internal/pricing"
	"github.com/nekogravitycat/padel-booking-backend/internal/reservation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryLedgerRepo keeps reservations in a map. Conflicts are caught by the ledger pre-check.
type memoryLedgerRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*reservation.Reservation
}

func newMemoryLedgerRepo() *memoryLedgerRepo {
	return &memoryLedgerRepo{byID: map[int64]*reservation.Reservation{}}
}

func (m *memoryLedgerRepo) ClaimedSlotIDs(ctx context.Context, resourceID int64, date time.Time) ([]int64, error) {
	claims, _ := m.ClaimedByResource(ctx, date)
	return claims[resourceID], nil
}

func (m *memoryLedgerRepo) ClaimedByResource(ctx context.Context, date time.Time) (map[int64][]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[int64][]int64{}
	for _, r := range m.byID {
		if r.Date.Equal(date) {
			out[r.ResourceID] = append(out[r.ResourceID], r.SlotIDs()...)
		}
	}
	return out, nil
}

func (m *memoryLedgerRepo) Create(ctx context.Context, r *reservation.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	m.byID[r.ID] = r
	return nil
}

func (m *memoryLedgerRepo) GetByID(ctx context.Context, id int64) (*reservation.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok {
		return nil, reservation.ErrNotFound
	}
	return r, nil
}

func (m *memoryLedgerRepo) List(ctx context.Context, filter reservation.Filter) ([]*reservation.Reservation, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*reservation.Reservation
	for id := int64(1); id <= m.nextID; id++ {
		r, ok := m.byID[id]
		if !ok || (filter.UserID != 0 && r.UserID != filter.UserID) {
			continue
		}
		out = append(out, r)
	}
	return out, len(out), nil
}

func (m *memoryLedgerRepo) Delete(ctx context.Context, id, ownerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.byID[id]
	if !ok || (ownerID != 0 && r.UserID != ownerID) {
		return reservation.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuth reads the caller from X-Test-User and X-Test-Admin.
func fakeAuth(c *gin.Context) {
	id, err := strconv.ParseInt(c.GetHeader("X-Test-User"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	auth.SetIdentity(c, id, "test@example.com", c.GetHeader("X-Test-Admin") == "1")
	c.Next()
}

func fakeAdmin(c *gin.Context) {
	if !auth.IsAdmin(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.Next()
}

func setupRouter() *gin.Engine {
	m := catalogtest.NewMemory()
	m.AddResource(1, "Pista 1", "12.00")
	m.AddResource(2, "Pista 2", "12.00")
	m.AddSlot(1, "08:00 - 08:30", "mañana")
	m.AddSlot(2, "08:30 - 09:00", "mañana")
	m.AddSlot(3, "09:00 - 09:30", "mañana")
	m.AddSurcharge(1, "Fin de semana", "3.00")

	engine := pricing.NewEngine(m, pricing.WeekendRule("Fin de semana"))
	repo := newMemoryLedgerRepo()
	ledger := reservation.NewLedger(repo, m, engine, nil)
	svc := booking.NewService(ledger, engine, availability.NewEngine(m, repo))

	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), fakeAuth, fakeAdmin, nil)
	return r
}

func call(r *gin.Engine, method, path string, user int64, admin bool, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != 0 {
		req.Header.Set("X-Test-User", strconv.FormatInt(user, 10))
	}
	if admin {
		req.Header.Set("X-Test-Admin", "1")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func book(date string, slots ...int64) gin.H {
	return gin.H{"resource_id": 1, "date": date, "slot_ids": slots}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestCreateReservation(t *testing.T) {
	r := setupRouter()

	t.Run("weekend booking carries surcharge", func(t *testing.T) {
		w := call(r, http.MethodPost, "/v1/reservations", 5, false, book("2026-10-17", 2, 1, 2))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		res := decode[ReservationResponse](t, w)
		assert.Equal(t, int64(5), res.UserID)
		assert.Equal(t, "2026-10-17", res.Date)
		assert.Equal(t, "Pista 1", res.Resource.Name)
		require.Len(t, res.Slots, 2)
		assert.Equal(t, int64(1), res.Slots[0].SlotID)
		assert.Equal(t, "12.00", res.Slots[0].Price)
		require.NotNil(t, res.Surcharge)
		assert.Equal(t, "3.00", res.Surcharge.Amount)
		assert.Equal(t, "27.00", res.Total)
	})

	t.Run("overlap lists occupied slots", func(t *testing.T) {
		w := call(r, http.MethodPost, "/v1/reservations", 6, false, book("2026-10-17", 3, 2))
		require.Equal(t, http.StatusConflict, w.Code)

		body := decode[map[string]any](t, w)
		assert.Equal(t, []any{float64(2)}, body[reservation.OccupiedSlotsField])
	})

	t.Run("same slots on another day", func(t *testing.T) {
		w := call(r, http.MethodPost, "/v1/reservations", 6, false, book("2026-10-13", 1, 2))
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "24.00", decode[ReservationResponse](t, w).Total)
	})

	t.Run("validation", func(t *testing.T) {
		cases := map[string]struct {
			body any
			code int
		}{
			"empty slot list": {book("2026-10-13"), http.StatusBadRequest},
			"missing slots":   {gin.H{"resource_id": 1, "date": "2026-10-13"}, http.StatusBadRequest},
			"bad date":        {book("13/10/2026", 1), http.StatusBadRequest},
			"impossible date": {book("2026-02-30", 1), http.StatusBadRequest},
			"unknown slot":    {book("2026-10-20", 1, 77), http.StatusBadRequest},
			"unknown court":   {gin.H{"resource_id": 9, "date": "2026-10-13", "slot_ids": []int64{1}}, http.StatusNotFound},
		}
		for name, tc := range cases {
			t.Run(name, func(t *testing.T) {
				w := call(r, http.MethodPost, "/v1/reservations", 5, false, tc.body)
				assert.Equal(t, tc.code, w.Code, w.Body.String())
			})
		}
	})

	t.Run("requires authentication", func(t *testing.T) {
		w := call(r, http.MethodPost, "/v1/reservations", 0, false, book("2026-10-13", 3))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestQuote(t *testing.T) {
	r := setupRouter()

	w := call(r, http.MethodPost, "/v1/quote", 5, false, book("2026-10-18", 1, 2, 3))
	require.Equal(t, http.StatusOK, w.Code)
	q := decode[QuoteResponse](t, w)
	assert.Equal(t, "36.00", q.Subtotal)
	assert.Equal(t, "39.00", q.Total)
	assert.Equal(t, []int64{1, 2, 3}, q.SlotIDs)

	// Quotes never claim slots.
	w = call(r, http.MethodPost, "/v1/reservations", 5, false, book("2026-10-18", 1, 2, 3))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAvailability(t *testing.T) {
	r := setupRouter()
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/v1/reservations", 5, false, book("2026-10-14", 2)).Code)

	w := call(r, http.MethodGet, "/v1/availability/1?date=2026-10-14", 5, false, nil)
	require.Equal(t, http.StatusOK, w.Code)
	a := decode[AvailabilityResponse](t, w)
	require.Len(t, a.Free, 2)
	assert.Equal(t, int64(1), a.Free[0].ID)
	assert.Equal(t, int64(3), a.Free[1].ID)

	w = call(r, http.MethodGet, "/v1/availability?date=2026-10-14", 5, false, nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[struct {
		Date  string                 `json:"date"`
		Items []AvailabilityResponse `json:"items"`
	}](t, w)
	assert.Equal(t, "2026-10-14", all.Date)
	require.Len(t, all.Items, 2)
	assert.Len(t, all.Items[0].Free, 2)
	assert.Len(t, all.Items[1].Free, 3)

	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodGet, "/v1/availability/1", 5, false, nil).Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/v1/availability/9?date=2026-10-14", 5, false, nil).Code)
}

func TestReservationOwnership(t *testing.T) {
	r := setupRouter()
	w := call(r, http.MethodPost, "/v1/reservations", 5, false, book("2026-10-14", 1))
	require.Equal(t, http.StatusCreated, w.Code)
	id := strconv.FormatInt(decode[ReservationResponse](t, w).ID, 10)

	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/v1/reservations/"+id, 5, false, nil).Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/v1/reservations/"+id, 6, false, nil).Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/v1/reservations/"+id, 6, true, nil).Code)

	mine := call(r, http.MethodGet, "/v1/me/reservations", 5, false, nil)
	require.Equal(t, http.StatusOK, mine.Code)
	assert.Contains(t, mine.Body.String(), `"total":1`)

	assert.Equal(t, http.StatusForbidden, call(r, http.MethodGet, "/v1/reservations", 5, false, nil).Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/v1/reservations", 6, true, nil).Code)

	assert.Equal(t, http.StatusNotFound, call(r, http.MethodDelete, "/v1/reservations/"+id, 6, false, nil).Code)
	assert.Equal(t, http.StatusNoContent, call(r, http.MethodDelete, "/v1/reservations/"+id, 5, false, nil).Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodDelete, "/v1/reservations/"+id, 5, false, nil).Code)

	// The freed slot can be booked again.
	assert.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/v1/reservations", 6, false, book("2026-10-14", 1)).Code)
}
