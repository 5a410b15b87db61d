package handling

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"waitfaster_server/lib"
	"waitfaster_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleServiceError(t *testing.T) {
	logger := gecho.NewDefaultLogger()

	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("order: %w", lib.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("session: %w", lib.ErrConflict), http.StatusConflict},
		{fmt.Errorf("move: %w", lib.ErrUnprocessableState), http.StatusUnprocessableEntity},
		{fmt.Errorf("raise: %w", lib.ErrBadRequest), http.StatusBadRequest},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		HandleServiceError(tc.err, "order", logger, rec)
		assert.Equal(t, tc.code, rec.Code, tc.err.Error())
	}
}

func TestWriteUnprocessable(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteUnprocessable(rec, "error.order.invalidTransition", map[string]string{"error": "nope"})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, http.StatusUnprocessableEntity, body["status"])
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "error.order.invalidTransition", body["message"])
	assert.Equal(t, map[string]any{"error": "nope"}, body["data"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestParseStatusFilter(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/orders?statuses=ready,%20preparing&statuses=ready&statuses=ordered", nil)
	got, err := ParseStatusFilter(r, "statuses", tables.AllOrderStatuses)
	require.NoError(t, err)
	assert.Equal(t, []tables.OrderStatus{tables.OrderStatusReady, tables.OrderStatusPreparing, tables.OrderStatusOrdered}, got)

	r = httptest.NewRequest(http.MethodGet, "/orders", nil)
	got, err = ParseStatusFilter(r, "statuses", tables.AllOrderStatuses)
	require.NoError(t, err)
	assert.Empty(t, got)

	r = httptest.NewRequest(http.MethodGet, "/orders?statuses=eaten", nil)
	_, err = ParseStatusFilter(r, "statuses", tables.AllOrderStatuses)
	assert.ErrorIs(t, err, lib.ErrBadRequest)
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	router := chi.NewRouter()

	var got uuid.UUID
	var gotErr error
	router.Get("/orders/{order_id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = ParseUUIDParam(r, "order_id")
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/"+id.String(), nil))
	require.NoError(t, gotErr)
	assert.Equal(t, id, got)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil))
	assert.ErrorIs(t, gotErr, lib.ErrBadRequest)
}
