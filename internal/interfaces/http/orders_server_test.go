package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orders "ticketing/internal/application/orders"
	odomain "ticketing/internal/domain/orders"
	tdomain "ticketing/internal/domain/tickets"
	httpapi "ticketing/internal/interfaces/http"
	"ticketing/internal/repository/memory"
)

type nullBus struct{}

func (nullBus) Publish(context.Context, any) error { return nil }

type ordersAPI struct {
	e       *echo.Echo
	svc     *orders.Service
	orders  *memory.OrdersRepo
	tickets *memory.TicketsRepo
}

func newOrdersAPI(t *testing.T) ordersAPI {
	t.Helper()

	e := echo.New()
	ordersRepo := memory.NewOrdersRepo()
	ticketsRepo := memory.NewTicketsRepo()
	svc := orders.NewService(nullBus{}, ordersRepo, ticketsRepo, 15*time.Minute)

	httpapi.NewOrdersServer(e, ":0", svc, func() bool { return true })

	return ordersAPI{e: e, svc: svc, orders: ordersRepo, tickets: ticketsRepo}
}

func (a ordersAPI) do(method, target, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if user != "" {
		req.Header.Set("X-User-Id", user)
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrderHandler(t *testing.T) {
	a := newOrdersAPI(t)
	require.NoError(t, a.tickets.Create(context.Background(), tdomain.Ticket{ID: "t1", Title: "Concert", Price: 20}))

	rec := a.do(http.MethodPost, "/api/orders", "u1", `{"ticketId":"t1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var order odomain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "u1", order.UserID)
	assert.Equal(t, odomain.StatusCreated, order.Status)
	assert.Equal(t, 0, order.Version)
	assert.Equal(t, "t1", order.TicketID)
	assert.Equal(t, 20.0, order.TicketPrice)
}

func TestCreateOrderHandler_Errors(t *testing.T) {
	a := newOrdersAPI(t)
	require.NoError(t, a.tickets.Create(context.Background(), tdomain.Ticket{ID: "t1", Title: "Concert", Price: 20}))

	t.Run("unauthenticated", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/orders", "", `{"ticketId":"t1"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/orders", "u1", `{"ticketId":"missing"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("reserved ticket", func(t *testing.T) {
		rec := a.do(http.MethodPost, "/api/orders", "u1", `{"ticketId":"t1"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = a.do(http.MethodPost, "/api/orders", "u2", `{"ticketId":"t1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp httpapi.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ticket is already reserved", resp.Message)
	})
}

func TestGetOrderHandler(t *testing.T) {
	a := newOrdersAPI(t)
	ctx := context.Background()
	require.NoError(t, a.tickets.Create(ctx, tdomain.Ticket{ID: "t1", Title: "Concert", Price: 20}))

	order, err := a.svc.CreateOrder(ctx, "u1", "t1")
	require.NoError(t, err)

	t.Run("owner reads it", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/api/orders/"+order.ID, "u1", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var got odomain.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, order.ID, got.ID)
	})

	t.Run("another user is forbidden", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/api/orders/"+order.ID, "u2", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown order", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/api/orders/missing", "u1", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListOrdersHandler_ScopedToUser(t *testing.T) {
	a := newOrdersAPI(t)
	ctx := context.Background()
	require.NoError(t, a.tickets.Create(ctx, tdomain.Ticket{ID: "t1", Title: "Concert", Price: 20}))
	require.NoError(t, a.tickets.Create(ctx, tdomain.Ticket{ID: "t2", Title: "Opera", Price: 30}))

	mine, err := a.svc.CreateOrder(ctx, "u1", "t1")
	require.NoError(t, err)
	_, err = a.svc.CreateOrder(ctx, "u2", "t2")
	require.NoError(t, err)

	rec := a.do(http.MethodGet, "/api/orders", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []odomain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)
}

func TestCancelOrderHandler(t *testing.T) {
	a := newOrdersAPI(t)
	ctx := context.Background()
	require.NoError(t, a.tickets.Create(ctx, tdomain.Ticket{ID: "t1", Title: "Concert", Price: 20}))

	order, err := a.svc.CreateOrder(ctx, "u1", "t1")
	require.NoError(t, err)

	t.Run("another user is forbidden", func(t *testing.T) {
		rec := a.do(http.MethodDelete, "/api/orders/"+order.ID, "u2", "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("owner cancels", func(t *testing.T) {
		rec := a.do(http.MethodDelete, "/api/orders/"+order.ID, "u1", "")
		require.Equal(t, http.StatusNoContent, rec.Code)

		stored, err := a.orders.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, odomain.StatusCancelled, stored.Status)
	})

	t.Run("cancelling again still succeeds", func(t *testing.T) {
		rec := a.do(http.MethodDelete, "/api/orders/"+order.ID, "u1", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("unknown order", func(t *testing.T) {
		rec := a.do(http.MethodDelete, "/api/orders/missing", "u1", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestOrdersHealthEndpoint(t *testing.T) {
	e := echo.New()
	running := false
	svc := orders.NewService(nullBus{}, memory.NewOrdersRepo(), memory.NewTicketsRepo(), time.Minute)
	httpapi.NewOrdersServer(e, ":0", svc, func() bool { return running })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	running = true
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
