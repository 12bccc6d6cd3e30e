package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/txcache/internal/application/adapter"
	"github.com/finance-tracker/txcache/internal/domain/entity"
	domainerror "github.com/finance-tracker/txcache/internal/domain/error"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *Session) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	session := NewSession("secret-token")
	return NewClient(server.URL+"/", time.Second, session), session
}

func TestTransactionClient_ListArray(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transactions", r.URL.Path)
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("from"))
		assert.Equal(t, "2024-01-31", r.URL.Query().Get("to"))
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)

		_, _ = io.WriteString(w, `[
			{"id": 7, "type": "gasto", "amount": 12.5, "date": "2024-01-05T10:00:00-06:00", "categoryId": 3,
			 "paymentMethod": "card", "isRecurring": true, "recurrence": "monthly", "endDate": "2024-06-30",
			 "createdAt": "2024-01-05T16:00:01.250Z"},
			{"id": "abc", "type": "income", "amount": "1000", "date": "2024-01-01", "categoryId": null,
			 "isRecurring": false, "recurrence": "", "endDate": ""},
			{"id": 9, "type": "transfer", "amount": 1, "date": "2024-01-02"}
		]`)
	})

	txs, err := NewTransactionClient(client).List(context.Background(), adapter.TransactionFilter{From: "2024-01-01", To: "2024-01-31"})
	require.NoError(t, err)
	require.Len(t, txs, 2, "unknown types are skipped")

	first := txs[0]
	assert.Equal(t, entity.ID("7"), first.ID)
	assert.Equal(t, entity.TransactionTypeExpense, first.Type)
	assert.True(t, decimal.RequireFromString("12.5").Equal(first.Amount))
	assert.Equal(t, time.Date(2024, 1, 5, 16, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, entity.ID("3"), first.CategoryID)
	assert.Equal(t, entity.RecurrenceMonthly, first.Recurrence)
	require.NotNil(t, first.EndDate)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), *first.EndDate)
	require.NotNil(t, first.CreatedAt)

	second := txs[1]
	assert.Equal(t, entity.ID("abc"), second.ID)
	assert.Equal(t, entity.TransactionTypeIncome, second.Type)
	assert.Equal(t, entity.ID(""), second.CategoryID)
	assert.Nil(t, second.EndDate)
	assert.Nil(t, second.CreatedAt)
}

func TestTransactionClient_ListEnvelope(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"items": [{"id": 1, "type": "ingreso", "amount": 5, "date": "2024-01-01T00:00:00Z"}],
			"meta": {"page": 1, "pageSize": 50, "total": 1}}`)
	})

	txs, err := NewTransactionClient(client).List(context.Background(), adapter.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, entity.TransactionTypeIncome, txs[0].Type)
}

func TestClient_UnauthorizedFiresCallback(t *testing.T) {
	client, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	var fired atomic.Int32
	session.OnUnauthorized(func() { fired.Add(1) })

	_, err := NewCategoryClient(client).List(context.Background())

	assert.ErrorIs(t, err, domainerror.ErrUnauthorized)
	assert.Equal(t, int32(1), fired.Load())
}

func TestClient_ServerErrorIsUnavailable(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})

	_, err := NewTransactionClient(client).List(context.Background(), adapter.TransactionFilter{})

	assert.ErrorIs(t, err, domainerror.ErrBackendUnavailable)
}

func TestClient_NoCredentialSendsNoAuthorization(t *testing.T) {
	client, session := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[]`)
	})
	session.SetCredential("")

	categories, err := NewCategoryClient(client).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestCategoryClient_List(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id": 1, "userId": 4, "name": "Comida", "type": "gasto"}, {"id": 2, "name": "Sueldo", "type": "ingreso"}]`)
	})

	categories, err := NewCategoryClient(client).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entity.Category{
		{ID: "1", Name: "Comida", Type: entity.TransactionTypeExpense},
		{ID: "2", Name: "Sueldo", Type: entity.TransactionTypeIncome},
	}, categories)
}

func TestTransactionClient_Create(t *testing.T) {
	var body map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id": 321, "type": "gasto", "amount": 42.1, "date": "2024-02-01T12:00:00Z",
			"categoryId": 5, "paymentMethod": "cash", "isRecurring": false, "recurrence": "",
			"createdAt": "2024-02-01T12:00:00.5Z"}`)
	})

	created, err := NewTransactionClient(client).Create(context.Background(), entity.NewTransaction{
		Type:          entity.TransactionTypeExpense,
		Amount:        decimal.RequireFromString("42.1"),
		Date:          time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
		CategoryID:    "5",
		PaymentMethod: "cash",
		Recurrence:    entity.RecurrenceWeekly,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ID("321"), created.ID)
	assert.Equal(t, "gasto", body["type"])
	assert.Equal(t, 42.1, body["amount"])
	assert.Equal(t, float64(5), body["categoryId"])
	assert.Equal(t, "2024-02-01T12:00:00Z", body["date"])
	assert.NotContains(t, body, "recurrence", "cadence is only sent for recurring transactions")
}

func TestTransactionClient_UpdateSendsOnlyChangedFields(t *testing.T) {
	var body map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/transactions/321", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		_, _ = io.WriteString(w, `{"id": 321, "type": "ingreso", "amount": 50, "date": "2024-02-01T12:00:00Z",
			"categoryId": 5, "paymentMethod": "cash", "isRecurring": false, "recurrence": ""}`)
	})

	txType := entity.TransactionTypeIncome
	amount := decimal.NewFromInt(50)
	note := ""
	updated, err := NewTransactionClient(client).Update(context.Background(), "321", entity.TransactionChanges{
		Type:   &txType,
		Amount: &amount,
		Note:   &note,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.TransactionTypeIncome, updated.Type)
	assert.Equal(t, "ingreso", body["type"])
	assert.Equal(t, float64(50), body["amount"])
	assert.Equal(t, "", body["note"], "a cleared note is still sent")
	assert.NotContains(t, body, "date")
	assert.NotContains(t, body, "categoryId")
}

func TestTransactionClient_Delete(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/transactions/local x", r.URL.Path)
		_, _ = io.WriteString(w, `{"ok": true}`)
	})

	require.NoError(t, NewTransactionClient(client).Delete(context.Background(), "local x"))
	assert.Equal(t, int32(1), calls.Load())
}

func TestTransactionClient_DeleteMissingIsNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := NewTransactionClient(client).Delete(context.Background(), "9")
	assert.ErrorIs(t, err, domainerror.ErrNotFound)
}

func TestSession_SetCredentialNotifiesOnChange(t *testing.T) {
	session := NewSession("")
	var seen []string
	session.OnChange(func(c string) { seen = append(seen, c) })

	session.SetCredential("a")
	session.SetCredential("a")
	session.SetCredential("")

	assert.Equal(t, []string{"a", ""}, seen)
	assert.Equal(t, "", session.Credential())
}
