package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ankitaduttagupta/ticketing-service/internal/reservation"
)

func newTestReservationHandler(t *testing.T) (*ReservationHandler, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	api := reservation.NewAPI(rdb)
	coord := reservation.NewCoordinator(api, &reservation.StaticPaymentClient{}, func(int) (uint32, error) { return 500, nil })
	return NewReservationHandler(coord, api, nil), rdb
}

func seedHandlerPool(t *testing.T, rdb *redis.Client, classID int, ids ...string) {
	t.Helper()
	k := reservation.NewClassKeys(classID)
	ctx := context.Background()
	for _, id := range ids {
		require.NoError(t, rdb.HSet(ctx, k.Pool, id, `{}`).Err())
		require.NoError(t, rdb.SAdd(ctx, k.Available, id).Err())
	}
}

func TestPurchaseHandlerSuccess(t *testing.T) {
	h, rdb := newTestReservationHandler(t)
	seedHandlerPool(t, rdb, 1, "a", "b")

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/purchase/1", strings.NewReader(`{"count":2}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("class")
	c.SetParamValues("1")
	c.Set("user_id", "player-1")

	require.NoError(t, h.Purchase(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPurchaseHandlerRequiresAuth(t *testing.T) {
	h, rdb := newTestReservationHandler(t)
	seedHandlerPool(t, rdb, 2, "a")

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/purchase/2", strings.NewReader(`{"count":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("class")
	c.SetParamValues("2")

	require.NoError(t, h.Purchase(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPurchaseHandlerInsufficientInventory(t *testing.T) {
	h, rdb := newTestReservationHandler(t)
	seedHandlerPool(t, rdb, 3, "a")

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/purchase/3", strings.NewReader(`{"count":5}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("class")
	c.SetParamValues("3")
	c.Set("user_id", "player-1")

	require.NoError(t, h.Purchase(c))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCountsHandler(t *testing.T) {
	h, rdb := newTestReservationHandler(t)
	seedHandlerPool(t, rdb, 4, "a", "b", "c")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/counts/4", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("class")
	c.SetParamValues("4")

	require.NoError(t, h.Counts(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"available":3`)
}

func TestReclaimHandler(t *testing.T) {
	h, rdb := newTestReservationHandler(t)
	seedHandlerPool(t, rdb, 5, "a")
	ctx := context.Background()
	_, err := h.API.ReserveN(ctx, 5, 1, 300) // lease far in the future
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/reclaim/5", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("class")
	c.SetParamValues("5")

	// The lease hasn't expired yet, so reclaim should find nothing.
	require.NoError(t, h.Reclaim(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"count":0`)
}
