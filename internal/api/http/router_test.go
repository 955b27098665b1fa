package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/finledger/finance-api/internal/api/http/handlers"
	"github.com/finledger/finance-api/internal/auth"
	"github.com/finledger/finance-api/internal/domain"
	"github.com/finledger/finance-api/internal/observability"
	"github.com/finledger/finance-api/internal/repository/repotest"
	"github.com/finledger/finance-api/internal/service"
)

type apiHarness struct {
	app          *fiber.App
	issuer       *auth.Issuer
	users        *repotest.Users
	transactions *repotest.Transactions
	billings     *repotest.Billings
	metrics      *observability.Metrics
}

func newAPIHarness(t *testing.T, rps float64, burst int) *apiHarness {
	t.Helper()

	set, err := auth.NewKeySet("k1", map[string][]byte{"k1": []byte("router-test-secret-0123456789")})
	require.NoError(t, err)
	ring := auth.NewKeyRing(set)

	h := &apiHarness{
		issuer:       auth.NewIssuer(ring, time.Hour),
		users:        repotest.NewUsers(),
		transactions: repotest.NewTransactions(),
		billings:     repotest.NewBillings(),
		metrics:      observability.NewMetrics(),
	}
	logger := zap.NewNop()

	h.app = fiber.New()
	RegisterMiddlewares(h.app, logger, h.metrics, 5*time.Second, "")
	RegisterRoutes(h.app, RouteConfig{
		Health:         handlers.NewHealthHandler("finance-api", "test", nil),
		Auth:           handlers.NewAuthHandler(service.NewAuthService(h.users, h.issuer, bcrypt.MinCost)),
		Profile:        handlers.NewProfileHandler(service.NewProfileService(h.users)),
		Transactions:   handlers.NewTransactionsHandler(service.NewTransactionService(h.transactions)),
		Billings:       handlers.NewBillingsHandler(service.NewBillingService(h.billings)),
		Search:         handlers.NewSearchHandler(service.NewSearchService(h.transactions, h.billings)),
		AuthMiddleware: auth.NewAuthMiddleware(auth.NewVerifier(ring), logger, h.metrics),
		RateLimiter:    NewSubjectRateLimiter(rps, burst, h.metrics),
		Metrics:        h.metrics,
	})
	return h
}

func (h *apiHarness) token(t *testing.T, subject int64) string {
	t.Helper()
	token, _, err := h.issuer.Issue(auth.SubjectID(subject))
	require.NoError(t, err)
	return token
}

func (h *apiHarness) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestHealthPlain(t *testing.T) {
	h := newAPIHarness(t, 0, 0)

	status, body := h.do(t, fiber.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "OK", string(body))
}

func TestProtectedRoutesRejectWithoutCredential(t *testing.T) {
	h := newAPIHarness(t, 0, 0)

	routes := []struct{ method, path string }{
		{fiber.MethodGet, "/api/user/profile"},
		{fiber.MethodPut, "/api/user/profile"},
		{fiber.MethodGet, "/api/transactions"},
		{fiber.MethodPost, "/api/transactions"},
		{fiber.MethodGet, "/api/transactions/1"},
		{fiber.MethodPut, "/api/transactions/1"},
		{fiber.MethodDelete, "/api/transactions/1"},
		{fiber.MethodGet, "/api/billings"},
		{fiber.MethodPost, "/api/billings"},
		{fiber.MethodDelete, "/api/billings/1"},
		{fiber.MethodGet, "/api/search?q=rent"},
	}
	payload := map[string]any{"amount": 10, "type": "expense", "name": "Rent", "dueDate": "2026-11-01"}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			status, body := h.do(t, route.method, route.path, "", payload)
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.JSONEq(t, `{"error":"Unauthorized","code":"token_missing"}`, string(body))

			status, body = h.do(t, route.method, route.path, "not-a-jwt", payload)
			assert.Equal(t, fiber.StatusUnauthorized, status)
			assert.JSONEq(t, `{"error":"Unauthorized","code":"token_invalid"}`, string(body))
		})
	}

	for subject := int64(0); subject <= 2; subject++ {
		txs, err := h.transactions.ListByOwner(context.Background(), subject)
		require.NoError(t, err)
		assert.Empty(t, txs)
		billings, err := h.billings.ListByOwner(context.Background(), subject)
		require.NoError(t, err)
		assert.Empty(t, billings)
	}
}

func TestForeignSigningKeyRejected(t *testing.T) {
	h := newAPIHarness(t, 0, 0)

	otherSet, err := auth.NewKeySet("k1", map[string][]byte{"k1": []byte("someone-elses-secret-0123456789")})
	require.NoError(t, err)
	forged, _, err := auth.NewIssuer(auth.NewKeyRing(otherSet), time.Hour).Issue(1)
	require.NoError(t, err)

	status, body := h.do(t, fiber.MethodGet, "/api/transactions", forged, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.JSONEq(t, `{"error":"Unauthorized","code":"token_invalid"}`, string(body))
}

func TestTransactionsAreScopedToSubject(t *testing.T) {
	h := newAPIHarness(t, 0, 0)
	alice, bob := h.token(t, 1), h.token(t, 2)

	status, body := h.do(t, fiber.MethodPost, "/api/transactions", alice, map[string]any{
		"amount":   42.5,
		"type":     "expense",
		"category": "Groceries",
		"userId":   2,
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	created := decode(t, body)
	assert.EqualValues(t, 1, created["userId"])
	path := "/api/transactions/" + jsonID(t, created)

	status, body = h.do(t, fiber.MethodGet, path, bob, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Transaction not found","code":"NOT_FOUND"}`, string(body))

	status, _ = h.do(t, fiber.MethodPut, path, bob, map[string]any{"amount": 1})
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = h.do(t, fiber.MethodDelete, path, bob, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = h.do(t, fiber.MethodGet, "/api/transactions", bob, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	status, body = h.do(t, fiber.MethodGet, path, alice, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.EqualValues(t, 42.5, decode(t, body)["amount"])

	status, body = h.do(t, fiber.MethodDelete, path, alice, nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"message":"Transaction deleted successfully"}`, string(body))
}

func TestInvalidResourceID(t *testing.T) {
	h := newAPIHarness(t, 0, 0)

	status, body := h.do(t, fiber.MethodGet, "/api/billings/abc", h.token(t, 1), nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid id", decode(t, body)["error"])
}

func TestSearchOnlySeesOwnRecords(t *testing.T) {
	h := newAPIHarness(t, 0, 0)
	ctx := context.Background()
	groceries := "Groceries"
	require.NoError(t, h.transactions.Create(ctx, &domain.Transaction{UserID: 1, Amount: 10, Type: domain.TransactionTypeExpense, Category: &groceries, Date: time.Now()}))
	require.NoError(t, h.transactions.Create(ctx, &domain.Transaction{UserID: 2, Amount: 20, Type: domain.TransactionTypeExpense, Category: &groceries, Date: time.Now()}))

	status, body := h.do(t, fiber.MethodGet, "/api/search?q=groc", h.token(t, 1), nil)
	require.Equal(t, fiber.StatusOK, status)
	result := decode(t, body)
	txs, ok := result["transactions"].([]any)
	require.True(t, ok)
	require.Len(t, txs, 1)
	assert.EqualValues(t, 1, txs[0].(map[string]any)["userId"])

	status, _ = h.do(t, fiber.MethodGet, "/api/search?q=", h.token(t, 1), nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestRegisterThenReadProfile(t *testing.T) {
	h := newAPIHarness(t, 0, 0)

	status, body := h.do(t, fiber.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    "ana@example.com",
		"password": "correct-horse",
		"name":     "Ana",
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	token, ok := decode(t, body)["token"].(string)
	require.True(t, ok)

	status, body = h.do(t, fiber.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	profile := decode(t, body)
	assert.Equal(t, "ana@example.com", profile["email"])
	assert.Equal(t, "Ana", profile["name"])
	assert.NotContains(t, profile, "passwordHash")

	status, _ = h.do(t, fiber.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    "ANA@example.com",
		"password": "another-password",
	})
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = h.do(t, fiber.MethodPost, "/api/auth/login", "", map[string]any{
		"email":    "ana@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_CREDENTIALS", decode(t, body)["code"])
}

func TestProfileUpdateRequiresData(t *testing.T) {
	h := newAPIHarness(t, 0, 0)
	user := &domain.User{Email: "bo@example.com", Provider: domain.AuthProviderLocal}
	require.NoError(t, h.users.Create(context.Background(), user))

	status, body := h.do(t, fiber.MethodPut, "/api/user/profile", h.token(t, user.ID), map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "No data to update", decode(t, body)["error"])

	status, body = h.do(t, fiber.MethodPut, "/api/user/profile", h.token(t, user.ID), map[string]any{"name": "Bo"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Bo", decode(t, body)["name"])

	for _, payload := range []map[string]any{{"name": nil}, {"avatar": nil}, {"name": 7}} {
		status, body = h.do(t, fiber.MethodPut, "/api/user/profile", h.token(t, user.ID), payload)
		assert.Equal(t, fiber.StatusBadRequest, status, string(body))
	}

	status, body = h.do(t, fiber.MethodGet, "/api/user/profile", h.token(t, user.ID), nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Bo", decode(t, body)["name"])
}

func TestTransactionUpdateNullClearsField(t *testing.T) {
	h := newAPIHarness(t, 0, 0)
	alice := h.token(t, 1)

	status, body := h.do(t, fiber.MethodPost, "/api/transactions", alice, map[string]any{
		"amount":      1.234,
		"type":        "income",
		"category":    "Salary",
		"description": "June",
	})
	require.Equal(t, fiber.StatusCreated, status, string(body))
	created := decode(t, body)
	assert.EqualValues(t, 1.23, created["amount"])
	path := "/api/transactions/" + jsonID(t, created)

	status, body = h.do(t, fiber.MethodPut, path, alice, map[string]any{"category": nil})
	require.Equal(t, fiber.StatusOK, status, string(body))
	updated := decode(t, body)
	assert.Nil(t, updated["category"])
	assert.Equal(t, "June", updated["description"])
}

func TestRateLimitIsPerSubject(t *testing.T) {
	h := newAPIHarness(t, 0.001, 2)
	alice, bob := h.token(t, 1), h.token(t, 2)

	for i := 0; i < 2; i++ {
		status, _ := h.do(t, fiber.MethodGet, "/api/transactions", alice, nil)
		require.Equal(t, fiber.StatusOK, status)
	}
	status, body := h.do(t, fiber.MethodGet, "/api/transactions", alice, nil)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Equal(t, "RATE_LIMITED", decode(t, body)["code"])

	status, _ = h.do(t, fiber.MethodGet, "/api/transactions", bob, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRequestIDHeader(t *testing.T) {
	h := newAPIHarness(t, 0, 0)

	req := httptest.NewRequest(fiber.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "req-123")
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get(requestIDHeader))

	resp, err = h.app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get(requestIDHeader))
}

func TestUnknownRoute(t *testing.T) {
	h := newAPIHarness(t, 0, 0)

	status, body := h.do(t, fiber.MethodGet, "/nope", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, decode(t, body), "error")
}

func jsonID(t *testing.T, obj map[string]any) string {
	t.Helper()
	id, ok := obj["id"].(float64)
	require.True(t, ok)
	return strconv.FormatInt(int64(id), 10)
}
