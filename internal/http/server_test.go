package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budgebuddy/internal/core"
	"budgebuddy/internal/export"
	"budgebuddy/internal/log"
	"budgebuddy/internal/prefs"
	"budgebuddy/internal/services"
	"budgebuddy/internal/storage/memory"
)

func newTestServer(t *testing.T) (*Server, *services.LedgerService, *memory.Store) {
	t.Helper()

	store := memory.New()
	preferences := prefs.NewStore(store)
	ledger := services.NewLedgerService(store, preferences, nil)
	require.NoError(t, ledger.Refresh(context.Background()))

	backup := export.NewService(ledger, store, ledger)
	logger := log.New(log.DefaultConfig())
	return NewServer(":0", ledger, preferences, backup, t.TempDir(), logger), ledger, store
}

func postJSON(t *testing.T, srv *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, srv, http.MethodPost, path, body)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthAndReady(t *testing.T) {
	srv, _, _ := newTestServer(t)

	assert.Equal(t, http.StatusOK, get(srv, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(srv, "/readyz").Code)
}

func TestCreateAndListTransactions(t *testing.T) {
	srv, ledger, _ := newTestServer(t)

	rr := postJSON(t, srv, "/api/transactions", transactionPayload{
		Amount:      "42.50",
		Description: "groceries",
		Category:    "Food",
		Kind:        "expense",
		OccurredAt:  time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created transactionPayload
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "EXPENSE", created.Kind)

	require.NoError(t, ledger.Refresh(context.Background()))

	rr = get(srv, "/api/transactions")
	require.Equal(t, http.StatusOK, rr.Code)

	var listed []transactionPayload
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestCreateTransactionValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)

	tests := []struct {
		name    string
		payload transactionPayload
	}{
		{"negative amount", transactionPayload{Amount: "-1", Category: "Food", Kind: "EXPENSE", OccurredAt: time.Now()}},
		{"bad amount", transactionPayload{Amount: "abc", Category: "Food", Kind: "EXPENSE", OccurredAt: time.Now()}},
		{"bad kind", transactionPayload{Amount: "1", Category: "Food", Kind: "TRANSFER", OccurredAt: time.Now()}},
		{"empty category", transactionPayload{Amount: "1", Category: "  ", Kind: "EXPENSE", OccurredAt: time.Now()}},
		{"zero date", transactionPayload{Amount: "1", Category: "Food", Kind: "EXPENSE"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := postJSON(t, srv, "/api/transactions", tt.payload)
			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())
		})
	}
}

func TestUpdateUnknownTransactionIs404(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPut, "/api/transactions/9f4eebc9-1c0f-4d4e-9a55-000000000001", transactionPayload{
		Amount:     "1",
		Category:   "Food",
		Kind:       "EXPENSE",
		OccurredAt: time.Now(),
	})
	assert.Equal(t, http.StatusNotFound, rr.Code, rr.Body.String())
}

func TestDeleteTransaction(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := postJSON(t, srv, "/api/transactions", transactionPayload{
		Amount:     "5",
		Category:   "Food",
		Kind:       "EXPENSE",
		OccurredAt: time.Now(),
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created transactionPayload
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	del := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/transactions/"+created.ID, nil)
	srv.Handler.ServeHTTP(del, req)
	assert.Equal(t, http.StatusNoContent, del.Code)

	// Second delete finds nothing.
	del = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/transactions/"+created.ID, nil)
	srv.Handler.ServeHTTP(del, req)
	assert.Equal(t, http.StatusNotFound, del.Code)
}

func TestInvalidTransactionID(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/transactions/not-a-uuid", nil)
	srv.Handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSnapshotReflectsBudget(t *testing.T) {
	srv, ledger, _ := newTestServer(t)
	ctx := context.Background()

	rr := postJSON(t, srv, "/api/transactions", transactionPayload{
		Amount:     "80",
		Category:   "Food",
		Kind:       "EXPENSE",
		OccurredAt: time.Now(),
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, srv, http.MethodPut, "/api/budget", budgetPayload{Amount: "100"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.NoError(t, ledger.Refresh(ctx))

	rr = get(srv, "/api/snapshot")
	require.Equal(t, http.StatusOK, rr.Code)

	var snap snapshotPayload
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, "100", snap.MonthlyBudget)
	assert.Equal(t, "80", snap.MonthlyExpense)
	assert.Equal(t, string(core.StatusWarning), snap.BudgetStatus)
	assert.Equal(t, 80, snap.ProgressPercent)
}

func TestSetBudgetRejectsNegative(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := doJSON(t, srv, http.MethodPut, "/api/budget", budgetPayload{Amount: "-10"})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestPreferencesRoundTrip(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := get(srv, "/api/preferences")
	require.Equal(t, http.StatusOK, rr.Code)

	var got preferencesPayload
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "USD", *got.Currency)
	assert.Equal(t, 80, *got.AlertThreshold)

	currency := "EUR"
	threshold := 50
	rr = doJSON(t, srv, http.MethodPut, "/api/preferences", preferencesPayload{
		Currency:       &currency,
		AlertThreshold: &threshold,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "EUR", *got.Currency)
	assert.Equal(t, 50, *got.AlertThreshold)
}

func TestPreferencesValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)

	currency := "XXX"
	rr := doJSON(t, srv, http.MethodPut, "/api/preferences", preferencesPayload{Currency: &currency})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	threshold := 150
	rr = doJSON(t, srv, http.MethodPut, "/api/preferences", preferencesPayload{AlertThreshold: &threshold})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestChartEndpoints(t *testing.T) {
	srv, ledger, _ := newTestServer(t)

	rr := postJSON(t, srv, "/api/transactions", transactionPayload{
		Amount:     "30",
		Category:   "Food",
		Kind:       "EXPENSE",
		OccurredAt: time.Now(),
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	require.NoError(t, ledger.Refresh(context.Background()))

	rr = get(srv, "/api/charts/expenses.png")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rr.Body.Bytes(), []byte("\x89PNG")))

	// Cached render serves the identical bytes.
	again := get(srv, "/api/charts/expenses.png")
	require.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, rr.Body.Bytes(), again.Body.Bytes())

	// No income recorded, nothing to chart.
	rr = get(srv, "/api/charts/income.png")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestExportImportRoundTrip(t *testing.T) {
	srv, ledger, _ := newTestServer(t)
	ctx := context.Background()

	rr := postJSON(t, srv, "/api/transactions", transactionPayload{
		Amount:     "12",
		Category:   "Food",
		Kind:       "EXPENSE",
		OccurredAt: time.Now(),
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	require.NoError(t, ledger.Refresh(ctx))

	rr = postJSON(t, srv, "/api/export", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var exported exportResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &exported))
	require.NotEmpty(t, exported.Path)

	rr = postJSON(t, srv, "/api/import", importRequest{File: exported.Path})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	transactions, err := ledger.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, transactions, 1)
}

func TestImportMissingFileIs404(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rr := postJSON(t, srv, "/api/import", importRequest{File: "nope.json"})
	assert.Equal(t, http.StatusNotFound, rr.Code, rr.Body.String())
}

func TestMutatingRequestsAreRateLimited(t *testing.T) {
	srv, _, _ := newTestServer(t)

	var last int
	for i := 0; i < 70; i++ {
		rr := doJSON(t, srv, http.MethodPut, "/api/budget", budgetPayload{Amount: fmt.Sprintf("%d", i+1)})
		last = rr.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
